package aef

import (
	"crypto/hmac"
	"crypto/sha256"

	"golang.org/x/crypto/argon2"
)

// deriveMaster runs the memory-hard KDF over (password, salt, params) and
// returns a 32-byte master key. Argon2id panics on absurd parameters rather
// than returning an error, so a zero m, t or p is rejected here with
// ErrKdfFailure before Argon2id is called.
func deriveMaster(password, salt []byte, params KDFParams) ([]byte, error) {
	if params.Time == 0 || params.Parallelism == 0 || params.MemoryKiB == 0 {
		return nil, ErrKdfFailure
	}
	key := argon2.IDKey(password, salt, params.Time, params.MemoryKiB, uint8(params.Parallelism), MasterKeySize)
	return key, nil
}

// deriveSubkey is the keyed cryptographic hash from §4.1: HMAC-SHA256 keyed
// by master, over the ASCII label, truncated to 32 bytes (the full digest
// width, so no truncation actually occurs — kept explicit for clarity).
func deriveSubkey(master []byte, label string) []byte {
	h := hmac.New(sha256.New, master)
	h.Write([]byte(label))
	sum := h.Sum(nil)
	out := make([]byte, SubkeySize)
	copy(out, sum[:SubkeySize])
	return out
}

func metaLabel(suite CipherSuite) string {
	return "file-meta:" + suite.suiteName()
}

func dataLabel(suite CipherSuite) string {
	return "file-data:" + suite.suiteName()
}
