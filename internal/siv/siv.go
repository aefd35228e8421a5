package siv

import (
	"crypto/cipher"
	"crypto/subtle"
	"errors"
)

// ErrAuthFailed is returned by Open when the synthetic IV recomputed from
// the decrypted plaintext does not match the one carried alongside the
// ciphertext.
var ErrAuthFailed = errors.New("siv: authentication failed")

// BlockFactory constructs the underlying 128-bit block cipher from a key.
// Each GCM-SIV suite in aef supplies its own (aes.NewCipher, twofish.NewCipher, ...).
type BlockFactory func(key []byte) (cipher.Block, error)

// Engine is a keyed S2V+CTR construction over one block cipher family. The
// key is split into two equal halves: the first authenticates via CMAC,
// the second encrypts via CTR, mirroring RFC 5297's AES-SIV key convention
// generalized to any block cipher of the caller's choosing.
type Engine struct {
	macBlock cipher.Block
	ctrBlock cipher.Block
}

// NewEngine builds an Engine over the given block cipher family. key must
// be exactly twice the cipher's native key size for the chosen algorithm
// (e.g. 64 bytes for AES-256 halves).
func NewEngine(newBlock BlockFactory, key []byte) (*Engine, error) {
	if len(key)%2 != 0 {
		return nil, errors.New("siv: key must have even length")
	}
	half := len(key) / 2
	macBlock, err := newBlock(key[:half])
	if err != nil {
		return nil, err
	}
	ctrBlock, err := newBlock(key[half:])
	if err != nil {
		return nil, err
	}
	if macBlock.BlockSize() != blockSize || ctrBlock.BlockSize() != blockSize {
		return nil, errors.New("siv: only 128-bit block ciphers are supported")
	}
	return &Engine{macBlock: macBlock, ctrBlock: ctrBlock}, nil
}

// Seal encrypts plaintext and returns (ciphertext, tag). nonce is folded
// into the S2V computation as an extra associated-data element, per RFC
// 5297 §3's nonce-based AEAD construction; ad is the caller's associated
// data (may be empty but not nil-checked specially).
func (e *Engine) Seal(nonce, ad, plaintext []byte) (ciphertext, tag []byte) {
	tag = e.s2v(ad, nonce, plaintext)
	ciphertext = make([]byte, len(plaintext))
	e.ctr(tag, plaintext, ciphertext)
	return ciphertext, tag
}

// Open verifies tag and decrypts ciphertext, or returns ErrAuthFailed.
func (e *Engine) Open(nonce, ad, ciphertext, tag []byte) ([]byte, error) {
	if len(tag) != blockSize {
		return nil, ErrAuthFailed
	}
	plaintext := make([]byte, len(ciphertext))
	e.ctr(tag, ciphertext, plaintext)

	expected := e.s2v(ad, nonce, plaintext)
	if subtle.ConstantTimeCompare(expected, tag) != 1 {
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}

// s2v implements RFC 5297's S2V over the associated-data vector followed by
// the (nonce, plaintext) elements, using the mac half of the key.
func (e *Engine) s2v(ad, nonce, plaintext []byte) []byte {
	d := cmac(e.macBlock, make([]byte, blockSize))

	for _, elem := range [][]byte{ad, nonce} {
		d = xorBytes(dbl(d), cmac(e.macBlock, elem))
	}

	var t []byte
	if len(plaintext) >= blockSize {
		t = make([]byte, len(plaintext))
		copy(t, plaintext)
		xorInto(t[len(t)-blockSize:], d)
	} else {
		t = xorBytes(dbl(d), pad(plaintext))
	}

	return cmac(e.macBlock, t)
}

// ctr runs CTR mode keyed by the ctr half of the key, with bits 31 and 63
// of the synthetic IV cleared per RFC 5297 §2.5 before use as the counter.
func (e *Engine) ctr(siv, src, dst []byte) {
	counter := make([]byte, blockSize)
	copy(counter, siv)
	counter[8] &= 0x7f
	counter[12] &= 0x7f

	stream := cipher.NewCTR(e.ctrBlock, counter)
	stream.XORKeyStream(dst, src)
}
