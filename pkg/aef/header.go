package aef

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// HeaderSize is the fixed length of the container's leading section
// (§4.4), before the variable-length filename material begins.
const HeaderSize = 81

// Header is the container's fixed 81-byte prefix, serialized in the exact
// field order of §4.4. It doubles as the base Associated Data for the
// filename AEAD unit.
type Header struct {
	Suite      CipherSuite
	Flags      uint8
	KDF        KDFParams
	Salt       [SaltSize]byte
	NonceBase  [NonceBaseSize]byte
	ChunkSize  uint32
	NameLength uint16
}

func (h *Header) hasName() bool { return h.Flags&FlagHasName != 0 }
func (h *Header) hasMeta() bool { return h.Flags&FlagHasMeta != 0 }

// Bytes serializes the fixed header per §4.4's byte layout. This is the
// AD used to seal/open the filename unit.
func (h *Header) Bytes() []byte {
	buf := make([]byte, 0, HeaderSize)
	w := bytes.NewBuffer(buf)

	w.Write(magicBytes[:])
	w.WriteByte(FormatVersion)
	w.WriteByte(byte(h.Suite))
	w.WriteByte(h.Flags)
	writeU32(w, h.KDF.MemoryKiB)
	writeU32(w, h.KDF.Time)
	writeU32(w, h.KDF.Parallelism)
	w.Write(h.Salt[:])
	w.Write(h.NonceBase[:])
	writeU32(w, h.ChunkSize)
	writeU16(w, h.NameLength)

	out := w.Bytes()
	if len(out) != HeaderSize {
		panic(fmt.Sprintf("aef: header serialization produced %d bytes, want %d", len(out), HeaderSize))
	}
	return out
}

// parseHeader decodes the fixed 81-byte prefix, validating magic and
// version. suite validity is not checked here; callers must check it
// separately so an UnknownSuite error can be distinguished from BadFormat.
func parseHeader(raw []byte) (*Header, error) {
	if len(raw) != HeaderSize {
		return nil, ErrBadFormat
	}
	if !bytes.Equal(raw[0:4], magicBytes[:]) {
		return nil, ErrBadFormat
	}
	if raw[4] != FormatVersion {
		return nil, ErrBadFormat
	}

	h := &Header{
		Suite: CipherSuite(raw[5]),
		Flags: raw[6],
	}
	h.KDF.MemoryKiB = binary.LittleEndian.Uint32(raw[7:11])
	h.KDF.Time = binary.LittleEndian.Uint32(raw[11:15])
	h.KDF.Parallelism = binary.LittleEndian.Uint32(raw[15:19])
	copy(h.Salt[:], raw[19:51])
	copy(h.NonceBase[:], raw[51:75])
	h.ChunkSize = binary.LittleEndian.Uint32(raw[75:79])
	h.NameLength = binary.LittleEndian.Uint16(raw[79:81])

	if !h.hasName() {
		return nil, ErrBadFormat
	}

	return h, nil
}

func writeU32(w *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

func putU32(b []byte, v uint32) {
	binary.LittleEndian.PutUint32(b, v)
}

func writeU16(w *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.Write(b[:])
}

func writeU64(w *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.Write(b[:])
}

// chunkAD builds the per-chunk associated data: prefix (header ‖ fnCT ‖
// fnTag ‖ [metaCT ‖ metaTag]) followed by LE64(index) ‖ LE32(length), per
// invariant 4.
func chunkAD(prefix []byte, index uint64, length uint32) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, len(prefix)+12))
	buf.Write(prefix)
	writeU64(buf, index)
	writeU32(buf, length)
	return buf.Bytes()
}
