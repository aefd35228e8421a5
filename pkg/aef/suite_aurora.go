package aef

import "github.com/jacobsa/crypto/siv"

// auroraSuite is suite 50: an RFC 5297 S2V construction over AES, wired
// through jacobsa/crypto/siv exactly as rfjakob/gocryptfs's siv_aead.go
// wraps it — the nonce is passed as the final associated-data element
// rather than as a distinct parameter, and the IV occupies the same 16
// bytes this suite's nonce width happens to match.
type auroraSuite struct{}

func (auroraSuite) nonceSize() int { return 16 }

func (auroraSuite) seal(key, nonce, ad, plaintext []byte) ([]byte, []byte, error) {
	associated := [][]byte{ad, nonce}
	out, err := siv.Encrypt(nil, key, plaintext, associated)
	if err != nil {
		return nil, nil, err
	}
	tag := out[:TagSize]
	ct := out[TagSize:]
	return ct, tag, nil
}

func (auroraSuite) open(key, nonce, ad, ciphertext, tag []byte) ([]byte, error) {
	associated := [][]byte{ad, nonce}
	combined := make([]byte, 0, len(tag)+len(ciphertext))
	combined = append(combined, tag...)
	combined = append(combined, ciphertext...)
	plaintext, err := siv.Decrypt(key, combined, associated)
	if err != nil {
		return nil, ErrAuthFailure
	}
	return plaintext, nil
}
