package aef

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// EncryptFile implements the Container Writer pipeline (§4.6): it reads
// srcPath, produces a sibling container named by containerName (§4.8), and
// on success unlinks srcPath. On any failure the partially written
// container is left on disk and srcPath is untouched, per §4.6 step 11 and
// invariant 5.
//
// Once the container's name has been computed it returns that path, even
// on error, so callers can log or clean up a partial file if desired;
// errors that occur before that point return an empty path.
func EncryptFile(ctx context.Context, srcPath, password string, opts Options) (containerPath string, err error) {
	if !opts.Suite.valid() {
		return "", ErrUnknownSuite
	}

	info, err := os.Stat(srcPath)
	if err != nil {
		return "", fmt.Errorf("aef: stat source: %w", err)
	}

	basename := filepath.Base(srcPath)
	if len(basename) > MaxFilenameLen {
		return "", ErrNameTooLong
	}

	salt, err := randomBytes(SaltSize)
	if err != nil {
		return "", err
	}
	var nonceBase [NonceBaseSize]byte
	nb, err := randomBytes(NonceBaseSize)
	if err != nil {
		return "", err
	}
	copy(nonceBase[:], nb)

	flags := FlagHasName
	if opts.PreserveMetadata {
		flags |= FlagHasMeta
	}

	header := &Header{
		Suite:      opts.Suite,
		Flags:      flags,
		KDF:        opts.KDF,
		NonceBase:  nonceBase,
		ChunkSize:  chunkSizeOrDefault(opts.ChunkSize),
		NameLength: uint16(len(basename)),
	}
	copy(header.Salt[:], salt)

	keys, err := newKeySession([]byte(password), salt, opts.KDF, opts.Suite)
	if err != nil {
		return "", err
	}
	defer keys.Close()

	headerBytes := header.Bytes()

	nameNonce := deriveNonce(opts.Suite, nonceBase, nameNonceIndex)
	fnCT, fnTag, err := seal(opts.Suite, keys.MetaKey(), nameNonce, headerBytes, []byte(basename))
	if err != nil {
		return "", err
	}

	name := containerName(keys.MasterKey(), nonceBase, fnCT)
	containerPath = filepath.Join(filepath.Dir(srcPath), name)

	out, err := os.OpenFile(containerPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return containerPath, fmt.Errorf("aef: create container: %w", err)
	}
	defer out.Close()

	if _, err := out.Write(headerBytes); err != nil {
		return containerPath, fmt.Errorf("%w: %v", ErrIO, err)
	}
	if _, err := out.Write(fnCT); err != nil {
		return containerPath, fmt.Errorf("%w: %v", ErrIO, err)
	}
	if _, err := out.Write(fnTag); err != nil {
		return containerPath, fmt.Errorf("%w: %v", ErrIO, err)
	}

	adPrefix := make([]byte, 0, len(headerBytes)+len(fnCT)+len(fnTag))
	adPrefix = append(adPrefix, headerBytes...)
	adPrefix = append(adPrefix, fnCT...)
	adPrefix = append(adPrefix, fnTag...)

	if header.hasMeta() {
		meta := FileMetadata{
			ModTime:     info.ModTime(),
			Permissions: permissionBits(info.Mode()),
		}
		metaNonce := deriveNonce(opts.Suite, nonceBase, metaNonceIndex)
		metaCT, metaTag, err := seal(opts.Suite, keys.MetaKey(), metaNonce, headerBytes, packMetadata(meta))
		if err != nil {
			return containerPath, err
		}
		if err := writeLenPrefixed(out, metaCT, metaTag); err != nil {
			return containerPath, err
		}
		adPrefix = append(adPrefix, metaCT...)
		adPrefix = append(adPrefix, metaTag...)
	}

	if err := streamEncrypt(ctx, out, srcPath, opts.Suite, keys.DataKey(), nonceBase, adPrefix, header.ChunkSize, opts.Progress); err != nil {
		return containerPath, err
	}

	if err := out.Sync(); err != nil {
		return containerPath, fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := out.Close(); err != nil {
		return containerPath, fmt.Errorf("%w: %v", ErrIO, err)
	}

	if err := os.Remove(srcPath); err != nil {
		return containerPath, fmt.Errorf("aef: remove source after encrypt: %w", err)
	}

	return containerPath, nil
}

func streamEncrypt(ctx context.Context, out io.Writer, srcPath string, suite CipherSuite, dataKey []byte, nonceBase [NonceBaseSize]byte, adPrefix []byte, chunkSize uint32, progress ProgressReporter) error {
	if progress == nil {
		progress = NoopProgress{}
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("aef: open source: %w", err)
	}
	defer src.Close()

	buf := make([]byte, chunkSize)
	var index uint64 = 1

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, rerr := io.ReadFull(src, buf)
		if n > 0 {
			nonce := deriveNonce(suite, nonceBase, index)
			ad := chunkAD(adPrefix, index, uint32(n))
			ct, tag, serr := seal(suite, dataKey, nonce, ad, buf[:n])
			if serr != nil {
				return serr
			}
			if err := writeLenPrefixed(out, ct, tag); err != nil {
				return err
			}
			progress.Advance("chunk", n)
			index++
		}

		switch rerr {
		case nil:
			continue
		case io.EOF, io.ErrUnexpectedEOF:
			return nil
		default:
			return fmt.Errorf("%w: %v", ErrIO, rerr)
		}
	}
}

func writeLenPrefixed(out io.Writer, ct, tag []byte) error {
	var lenBuf [4]byte
	putU32(lenBuf[:], uint32(len(ct)))
	if _, err := out.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if _, err := out.Write(ct); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if _, err := out.Write(tag); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

func chunkSizeOrDefault(v uint32) uint32 {
	if v == 0 {
		return DefaultChunkSize
	}
	return v
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, ErrRandomFailure
	}
	return b, nil
}
