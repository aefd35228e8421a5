package aef

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKeySession_DerivesThreeDistinctKeys(t *testing.T) {
	salt := make([]byte, SaltSize)
	for i := range salt {
		salt[i] = byte(i)
	}
	kdf := KDFParams{MemoryKiB: 8 * 1024, Time: 1, Parallelism: 1}

	sess, err := newKeySession([]byte("correct horse battery staple"), salt, kdf, SuiteXChaCha20Poly1305)
	require.NoError(t, err)
	defer sess.Close()

	assert.Len(t, sess.MasterKey(), MasterKeySize)
	assert.Len(t, sess.MetaKey(), SubkeySize)
	assert.Len(t, sess.DataKey(), SubkeySize)
	assert.NotEqual(t, sess.MetaKey(), sess.DataKey())
	assert.NotEqual(t, sess.MasterKey(), sess.MetaKey())
}

func TestNewKeySession_DeterministicForSamePasswordSaltSuite(t *testing.T) {
	salt := make([]byte, SaltSize)
	kdf := KDFParams{MemoryKiB: 8 * 1024, Time: 1, Parallelism: 1}

	s1, err := newKeySession([]byte("pw"), salt, kdf, SuiteAESGCMSIV)
	require.NoError(t, err)
	defer s1.Close()

	s2, err := newKeySession([]byte("pw"), salt, kdf, SuiteAESGCMSIV)
	require.NoError(t, err)
	defer s2.Close()

	assert.Equal(t, s1.MasterKey(), s2.MasterKey())
	assert.Equal(t, s1.MetaKey(), s2.MetaKey())
	assert.Equal(t, s1.DataKey(), s2.DataKey())
}

func TestNewKeySession_DifferentSuitesYieldDifferentSubkeys(t *testing.T) {
	salt := make([]byte, SaltSize)
	kdf := KDFParams{MemoryKiB: 8 * 1024, Time: 1, Parallelism: 1}

	s1, err := newKeySession([]byte("pw"), salt, kdf, SuiteAESGCMSIV)
	require.NoError(t, err)
	defer s1.Close()

	s2, err := newKeySession([]byte("pw"), salt, kdf, SuiteTwofishGCMSIV)
	require.NoError(t, err)
	defer s2.Close()

	assert.Equal(t, s1.MasterKey(), s2.MasterKey())
	assert.NotEqual(t, s1.MetaKey(), s2.MetaKey())
	assert.NotEqual(t, s1.DataKey(), s2.DataKey())
}

func TestNewKeySession_RejectsZeroKDFParams(t *testing.T) {
	salt := make([]byte, SaltSize)
	_, err := newKeySession([]byte("pw"), salt, KDFParams{}, SuiteXChaCha20Poly1305)
	assert.ErrorIs(t, err, ErrKdfFailure)
}
