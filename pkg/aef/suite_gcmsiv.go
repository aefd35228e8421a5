package aef

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/andreburgaud/crypt2go/serpent"
	"golang.org/x/crypto/camellia"
	"golang.org/x/crypto/twofish"

	"github.com/wraithcrypt/aef/internal/siv"
)

func aesBlockFactory(key []byte) (cipher.Block, error)      { return aes.NewCipher(key) }
func twofishBlockFactory(key []byte) (cipher.Block, error)  { return twofish.NewCipher(key) }
func serpentBlockFactory(key []byte) (cipher.Block, error)  { return serpent.NewCipher(key) }
func camelliaBlockFactory(key []byte) (cipher.Block, error) { return camellia.NewCipher(key) }

// gcmSIVSuite implements suites 1-4 (AES/Twofish/Serpent/Camellia-GCM-SIV)
// as a 12-byte-nonce RFC 5297 S2V+CTR construction (internal/siv),
// generalized from absfs/encryptfs's AES-only SIVEngine to any 128-bit
// block cipher supplied by newBlock. The 32-byte DataKey/MetaKey is split
// into two 16-byte halves for the CMAC and CTR sub-keys.
type gcmSIVSuite struct {
	newBlock siv.BlockFactory
}

func (gcmSIVSuite) nonceSize() int { return 12 }

func (s gcmSIVSuite) seal(key, nonce, ad, plaintext []byte) ([]byte, []byte, error) {
	engine, err := siv.NewEngine(s.newBlock, key)
	if err != nil {
		return nil, nil, err
	}
	ct, tag := engine.Seal(nonce, ad, plaintext)
	return ct, tag, nil
}

func (s gcmSIVSuite) open(key, nonce, ad, ciphertext, tag []byte) ([]byte, error) {
	engine, err := siv.NewEngine(s.newBlock, key)
	if err != nil {
		return nil, err
	}
	plaintext, err := engine.Open(nonce, ad, ciphertext, tag)
	if err != nil {
		return nil, ErrAuthFailure
	}
	return plaintext, nil
}
