package aef

import (
	"encoding/binary"
	"os"
	"time"
)

// packMetadata implements the metadata codec (§4.5): 8-byte LE mtime in
// seconds since epoch, followed by a 2-byte LE bitfield over the nine
// POSIX permission bits (user/group/other x read/write/execute).
func packMetadata(m FileMetadata) []byte {
	buf := make([]byte, MetaBlobSize)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(m.ModTime.Unix()))
	binary.LittleEndian.PutUint16(buf[8:10], m.Permissions&0x1ff)
	return buf
}

func unpackMetadata(raw []byte) (FileMetadata, error) {
	if len(raw) != MetaBlobSize {
		return FileMetadata{}, ErrBadFormat
	}
	sec := binary.LittleEndian.Uint64(raw[0:8])
	perm := binary.LittleEndian.Uint16(raw[8:10]) & 0x1ff
	return FileMetadata{
		ModTime:     time.Unix(int64(sec), 0),
		Permissions: perm,
	}, nil
}

// permissionBits extracts the nine POSIX permission bits from a file mode,
// in the codec's bit order (user r/w/x, group r/w/x, other r/w/x).
func permissionBits(mode os.FileMode) uint16 {
	return uint16(mode.Perm())
}

// applyMetadata restores mtime and permissions best-effort, per the
// asymmetric guard in Design Note 2: mtime is only restored when nonzero,
// permissions are applied unconditionally whenever metadata was present.
func applyMetadata(path string, m FileMetadata) {
	if !m.ModTime.IsZero() && m.ModTime.Unix() != 0 {
		_ = os.Chtimes(path, m.ModTime, m.ModTime)
	}
	_ = os.Chmod(path, os.FileMode(m.Permissions))
}
