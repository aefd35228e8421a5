package aef

import "golang.org/x/crypto/chacha20poly1305"

// xchacha20Suite is suite 0: XChaCha20-Poly1305 with a 24-byte nonce,
// grounded on zec.ChaCha20Cipher's XChaCha20 path (pkg/zec/crypto.go).
// Unlike the teacher's whole-stream block cipher, this seals one unit
// (already carrying its own AD) per call.
type xchacha20Suite struct{}

func (xchacha20Suite) nonceSize() int { return chacha20poly1305.NonceSizeX }

func (xchacha20Suite) seal(key, nonce, ad, plaintext []byte) ([]byte, []byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, nil, err
	}
	sealed := aead.Seal(nil, nonce, plaintext, ad)
	ct := sealed[:len(sealed)-TagSize]
	tag := sealed[len(sealed)-TagSize:]
	return ct, tag, nil
}

func (xchacha20Suite) open(key, nonce, ad, ciphertext, tag []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)
	plaintext, err := aead.Open(nil, nonce, sealed, ad)
	if err != nil {
		return nil, ErrAuthFailure
	}
	return plaintext, nil
}
