package aef

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DecryptFile implements the Container Reader pipeline (§4.7): it parses
// containerPath, verifies every unit in order, and writes the recovered
// plaintext as a sibling file named by the decrypted basename. On success
// the container is unlinked; on any verification failure the partial
// output (if created) is left on disk, per §4.7 step 9.
func DecryptFile(ctx context.Context, containerPath, password string, opts Options) (outputPath string, err error) {
	in, err := os.Open(containerPath)
	if err != nil {
		return "", fmt.Errorf("aef: open container: %w", err)
	}
	defer in.Close()

	headerBytes := make([]byte, HeaderSize)
	if _, err := io.ReadFull(in, headerBytes); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTruncated, err)
	}

	header, err := parseHeader(headerBytes)
	if err != nil {
		return "", err
	}
	if !header.Suite.valid() {
		return "", ErrUnknownSuite
	}

	keys, err := newKeySession([]byte(password), header.Salt[:], header.KDF, header.Suite)
	if err != nil {
		return "", err
	}
	defer keys.Close()

	fnCT := make([]byte, header.NameLength)
	if _, err := io.ReadFull(in, fnCT); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	fnTag := make([]byte, TagSize)
	if _, err := io.ReadFull(in, fnTag); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTruncated, err)
	}

	nameNonce := deriveNonce(header.Suite, header.NonceBase, nameNonceIndex)
	basenameBytes, err := open(header.Suite, keys.MetaKey(), nameNonce, headerBytes, fnCT, fnTag)
	if err != nil {
		return "", authFailure("filename")
	}
	basename := string(basenameBytes)

	adPrefix := make([]byte, 0, len(headerBytes)+len(fnCT)+len(fnTag))
	adPrefix = append(adPrefix, headerBytes...)
	adPrefix = append(adPrefix, fnCT...)
	adPrefix = append(adPrefix, fnTag...)

	var meta FileMetadata
	haveMeta := false
	if header.hasMeta() {
		var lenBuf [4]byte
		if _, err := io.ReadFull(in, lenBuf[:]); err != nil {
			return "", fmt.Errorf("%w: %v", ErrTruncated, err)
		}
		metaLen := binary.LittleEndian.Uint32(lenBuf[:])
		metaCT := make([]byte, metaLen)
		if _, err := io.ReadFull(in, metaCT); err != nil {
			return "", fmt.Errorf("%w: %v", ErrTruncated, err)
		}
		metaTag := make([]byte, TagSize)
		if _, err := io.ReadFull(in, metaTag); err != nil {
			return "", fmt.Errorf("%w: %v", ErrTruncated, err)
		}

		metaNonce := deriveNonce(header.Suite, header.NonceBase, metaNonceIndex)
		metaPlain, err := open(header.Suite, keys.MetaKey(), metaNonce, headerBytes, metaCT, metaTag)
		if err != nil {
			return "", authFailure("metadata")
		}
		meta, err = unpackMetadata(metaPlain)
		if err != nil {
			return "", err
		}
		haveMeta = true

		adPrefix = append(adPrefix, metaCT...)
		adPrefix = append(adPrefix, metaTag...)
	}

	outputPath = filepath.Join(filepath.Dir(containerPath), basename)
	out, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return "", fmt.Errorf("aef: create output: %w", err)
	}
	defer out.Close()

	if err := streamDecrypt(ctx, out, in, header.Suite, keys.DataKey(), header.NonceBase, adPrefix, opts.Progress); err != nil {
		return outputPath, err
	}

	if err := out.Sync(); err != nil {
		return outputPath, fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := out.Close(); err != nil {
		return outputPath, fmt.Errorf("%w: %v", ErrIO, err)
	}

	if haveMeta {
		applyMetadata(outputPath, meta)
	}

	if err := in.Close(); err != nil {
		return outputPath, fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := os.Remove(containerPath); err != nil {
		return outputPath, fmt.Errorf("aef: remove container after decrypt: %w", err)
	}

	return outputPath, nil
}

func streamDecrypt(ctx context.Context, out io.Writer, in io.Reader, suite CipherSuite, dataKey []byte, nonceBase [NonceBaseSize]byte, adPrefix []byte, progress ProgressReporter) error {
	if progress == nil {
		progress = NoopProgress{}
	}

	var index uint64 = 1
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var lenBuf [4]byte
		n, rerr := io.ReadFull(in, lenBuf[:])
		if n == 0 && rerr == io.EOF {
			return nil // clean end of container
		}
		if rerr != nil {
			return ErrTruncated
		}

		length := binary.LittleEndian.Uint32(lenBuf[:])
		ct := make([]byte, length)
		if _, err := io.ReadFull(in, ct); err != nil {
			return ErrTruncated
		}
		tag := make([]byte, TagSize)
		if _, err := io.ReadFull(in, tag); err != nil {
			return ErrTruncated
		}

		nonce := deriveNonce(suite, nonceBase, index)
		ad := chunkAD(adPrefix, index, length)
		plaintext, err := open(suite, dataKey, nonce, ad, ct, tag)
		if err != nil {
			return authFailureChunk(index)
		}

		if _, err := out.Write(plaintext); err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
		progress.Advance("chunk", len(plaintext))
		index++
	}
}
