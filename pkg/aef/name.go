package aef

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// containerName computes the on-disk output filename per §4.8: a keyed
// hash of the encrypted filename, keyed by MasterKey with NonceBase's
// first 8 bytes folded in as an additional salt, rendered as 64 lowercase
// hex characters plus ".crypt". There is no inverse; the reader never
// consults this name to decrypt.
func containerName(master []byte, nonceBase [NonceBaseSize]byte, fnCT []byte) string {
	h := hmac.New(sha256.New, master)
	h.Write(nonceBase[0:8])
	h.Write(fnCT)
	// sha256 output is 32 bytes == 64 hex chars, matching the spec's digest width.
	sum := h.Sum(nil)
	return hex.EncodeToString(sum) + ".crypt"
}
