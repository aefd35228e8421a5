package aef

import "github.com/awnumar/memguard"

// keySession holds the three ephemeral keys derived for one file
// operation — MasterKey, MetaKey, DataKey — in memguard.LockedBuffers so
// their backing memory is wiped on Close, following
// pkg/core/v1/crypto.KeyManager's pattern generalized from one key to the
// full three-key hierarchy of §4.1.
type keySession struct {
	master *memguard.LockedBuffer
	meta   *memguard.LockedBuffer
	data   *memguard.LockedBuffer
}

// newKeySession derives MasterKey from (password, salt, kdf) and, from it,
// MetaKey/DataKey under suite-specific labels (§4.1).
func newKeySession(password, salt []byte, kdf KDFParams, suite CipherSuite) (*keySession, error) {
	master, err := deriveMaster(password, salt, kdf)
	if err != nil {
		return nil, err
	}
	defer memguard.WipeBytes(master)

	masterBuf := memguard.NewBufferFromBytes(master)

	metaKey := deriveSubkey(masterBuf.Bytes(), metaLabel(suite))
	dataKey := deriveSubkey(masterBuf.Bytes(), dataLabel(suite))
	defer memguard.WipeBytes(metaKey)
	defer memguard.WipeBytes(dataKey)

	return &keySession{
		master: masterBuf,
		meta:   memguard.NewBufferFromBytes(metaKey),
		data:   memguard.NewBufferFromBytes(dataKey),
	}, nil
}

func (s *keySession) MasterKey() []byte { return s.master.Bytes() }
func (s *keySession) MetaKey() []byte   { return s.meta.Bytes() }
func (s *keySession) DataKey() []byte   { return s.data.Bytes() }

// Close wipes and releases all three keys. Safe to call once per session,
// at the end of the writer/reader pipeline or on any early error return.
func (s *keySession) Close() {
	s.master.Destroy()
	s.meta.Destroy()
	s.data.Destroy()
}
