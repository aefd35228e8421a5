package aef

import "time"

// CipherSuite identifies one of the six interchangeable AEAD constructions
// a container may be sealed with. The tag is persisted verbatim in the
// header and drives dispatch on both encrypt and decrypt.
type CipherSuite uint8

const (
	SuiteXChaCha20Poly1305 CipherSuite = 0
	SuiteAESGCMSIV         CipherSuite = 1
	SuiteTwofishGCMSIV     CipherSuite = 2
	SuiteSerpentGCMSIV     CipherSuite = 3
	SuiteCamelliaGCMSIV    CipherSuite = 4
	SuiteAuroraSIV         CipherSuite = 50
)

// suiteName is the exact ASCII label baked into every derived subkey. It
// must never change for a given suite tag or existing containers stop
// decrypting.
func (s CipherSuite) suiteName() string {
	switch s {
	case SuiteXChaCha20Poly1305:
		return "xchacha20"
	case SuiteAESGCMSIV:
		return "aes-gcm-siv"
	case SuiteTwofishGCMSIV:
		return "twofish-gcm-siv"
	case SuiteSerpentGCMSIV:
		return "serpent-gcm-siv"
	case SuiteCamelliaGCMSIV:
		return "camellia-gcm-siv"
	case SuiteAuroraSIV:
		return "aurora-ctr"
	default:
		return ""
	}
}

// String renders the CLI-facing spelling of the suite, distinct from the
// suiteName used in key derivation labels for suite 50.
func (s CipherSuite) String() string {
	switch s {
	case SuiteAuroraSIV:
		return "aurora-siv"
	default:
		return s.suiteName()
	}
}

func (s CipherSuite) valid() bool {
	switch s {
	case SuiteXChaCha20Poly1305, SuiteAESGCMSIV, SuiteTwofishGCMSIV, SuiteSerpentGCMSIV, SuiteCamelliaGCMSIV, SuiteAuroraSIV:
		return true
	default:
		return false
	}
}

// ParseSuite accepts the CLI's case-insensitive spellings and common
// aliases for a cipher suite name.
func ParseSuite(name string) (CipherSuite, error) {
	switch normalizeSuiteName(name) {
	case "xchacha20", "xchacha20poly1305", "xchacha20-poly1305":
		return SuiteXChaCha20Poly1305, nil
	case "aes-gcm-siv", "aesgcmsiv", "aes":
		return SuiteAESGCMSIV, nil
	case "twofish-gcm-siv", "twofishgcmsiv", "twofish":
		return SuiteTwofishGCMSIV, nil
	case "serpent-gcm-siv", "serpentgcmsiv", "serpent":
		return SuiteSerpentGCMSIV, nil
	case "camellia-gcm-siv", "camelliagcmsiv", "camellia":
		return SuiteCamelliaGCMSIV, nil
	case "aurora-siv", "aurorasiv", "aurora", "aurora-ctr":
		return SuiteAuroraSIV, nil
	default:
		return 0, ErrUnknownSuite
	}
}

func normalizeSuiteName(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c == '_' {
			c = '-'
		}
		out = append(out, c)
	}
	return string(out)
}

const (
	// MagicSize is the length of the ASCII container magic.
	MagicSize = 4
	// FormatVersion is the only version this implementation writes or accepts.
	FormatVersion uint8 = 3
	// TagSize is the fixed AEAD authentication tag length for every unit.
	TagSize = 16
	// MasterKeySize, SubkeySize are the sizes of every derived key.
	MasterKeySize = 32
	SubkeySize    = 32
	// SaltSize and NonceBaseSize are the sizes of the per-file random material.
	SaltSize      = 32
	NonceBaseSize = 24
	// MaxFilenameLen is the largest basename an encrypted container can carry.
	MaxFilenameLen = 65535
	// MetaBlobSize is the packed size of the metadata block (mtime + perm bits).
	MetaBlobSize = 10

	// FlagHasName must always be set in version 3 containers.
	FlagHasName uint8 = 1 << 0
	// FlagHasMeta indicates a metadata block follows the filename section.
	FlagHasMeta uint8 = 1 << 1

	// nonce index namespace reserved for the filename and metadata units.
	nameNonceIndex uint64 = 0
	metaNonceIndex uint64 = ^uint64(0)

	// DefaultChunkSize is used by the writer when the caller doesn't override it.
	DefaultChunkSize uint32 = 1 << 20 // 1 MiB

	// DefaultKDFMemoryKiB, DefaultKDFTime, DefaultKDFParallelism are the
	// Argon2id defaults applied unless the caller overrides them.
	DefaultKDFMemoryKiB uint32 = 65536
	DefaultKDFTime      uint32 = 3
	DefaultKDFParallelism uint32 = 1
)

var magicBytes = [MagicSize]byte{'A', 'E', 'F', '1'}

// KDFParams bundles the Argon2id cost parameters persisted in the header.
type KDFParams struct {
	MemoryKiB   uint32
	Time        uint32
	Parallelism uint32
}

// Options configures one encrypt operation. DefaultOptions returns the
// spec's baseline; callers override individual fields.
type Options struct {
	Suite     CipherSuite
	ChunkSize uint32
	KDF       KDFParams
	// PreserveMetadata controls whether mtime/permission bits are captured
	// at encrypt time (setting FlagHasMeta). DecryptFile does not read it:
	// it restores metadata whenever the container's header has FlagHasMeta.
	PreserveMetadata bool
	// Progress, if non-nil, is invoked once per chunk processed.
	Progress ProgressReporter
}

// DefaultOptions returns the baseline parameters named in the external
// interface section: 1 MiB chunks, Argon2id at 64 MiB/3/1, XChaCha20-Poly1305.
func DefaultOptions() Options {
	return Options{
		Suite:     SuiteXChaCha20Poly1305,
		ChunkSize: DefaultChunkSize,
		KDF: KDFParams{
			MemoryKiB:   DefaultKDFMemoryKiB,
			Time:        DefaultKDFTime,
			Parallelism: DefaultKDFParallelism,
		},
		PreserveMetadata: true,
	}
}

// ProgressReporter is notified after each data chunk is written or
// verified, with unit "chunk" and the chunk's plaintext length; the
// filename and metadata units are not reported. Implementations must not
// block indefinitely.
type ProgressReporter interface {
	Advance(unit string, bytes int)
}

// NoopProgress discards all progress notifications.
type NoopProgress struct{}

func (NoopProgress) Advance(string, int) {}

// FileMetadata is the decoded form of the metadata codec (§4.5): a
// modification time and the nine POSIX permission bits.
type FileMetadata struct {
	ModTime     time.Time
	Permissions uint16
}
