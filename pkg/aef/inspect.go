package aef

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// HeaderView is the read-only, exported projection of a container's fixed
// header, safe to print without ever touching a password — every field
// here is public by construction.
type HeaderView struct {
	Version    uint8
	Suite      CipherSuite
	Flags      uint8
	KDF        KDFParams
	Salt       [SaltSize]byte
	NonceBase  [NonceBaseSize]byte
	ChunkSize  uint32
	NameLength uint16
}

func (h HeaderView) FlagsString() string {
	var flags []string
	if h.Flags&FlagHasName != 0 {
		flags = append(flags, "HasName")
	}
	if h.Flags&FlagHasMeta != 0 {
		flags = append(flags, "HasMeta")
	}
	return strings.Join(flags, "|")
}

// InspectHeader reads and parses a container's fixed 81-byte header
// without deriving any keys, for the CLI's read-only "inspect" subcommand.
func InspectHeader(path string) (*HeaderView, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("aef: open container: %w", err)
	}
	defer f.Close()

	raw := make([]byte, HeaderSize)
	if _, err := io.ReadFull(f, raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}

	h, err := parseHeader(raw)
	if err != nil {
		return nil, err
	}

	return &HeaderView{
		Version:    FormatVersion,
		Suite:      h.Suite,
		Flags:      h.Flags,
		KDF:        h.KDF,
		Salt:       h.Salt,
		NonceBase:  h.NonceBase,
		ChunkSize:  h.ChunkSize,
		NameLength: h.NameLength,
	}, nil
}
