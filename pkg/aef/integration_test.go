package aef_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wraithcrypt/aef/pkg/aef"
)

func fastKDF() aef.KDFParams {
	return aef.KDFParams{MemoryKiB: 8 * 1024, Time: 1, Parallelism: 1}
}

func writeSource(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

var allSuites = []aef.CipherSuite{
	aef.SuiteXChaCha20Poly1305,
	aef.SuiteAESGCMSIV,
	aef.SuiteTwofishGCMSIV,
	aef.SuiteSerpentGCMSIV,
	aef.SuiteCamelliaGCMSIV,
	aef.SuiteAuroraSIV,
}

func TestRoundTrip_AllSuites(t *testing.T) {
	content := []byte("the quick brown fox jumps over the lazy dog, several times over")
	for _, suite := range allSuites {
		suite := suite
		t.Run(suite.String(), func(t *testing.T) {
			dir := t.TempDir()
			src := writeSource(t, dir, "greeting.txt", content)

			opts := aef.Options{Suite: suite, ChunkSize: 16, KDF: fastKDF(), PreserveMetadata: true}

			containerPath, err := aef.EncryptFile(context.Background(), src, "hunter2", opts)
			require.NoError(t, err)
			assert.NoFileExists(t, src)
			assert.FileExists(t, containerPath)

			outPath, err := aef.DecryptFile(context.Background(), containerPath, "hunter2", opts)
			require.NoError(t, err)
			assert.NoFileExists(t, containerPath)

			got, err := os.ReadFile(outPath)
			require.NoError(t, err)
			assert.Equal(t, content, got)
			assert.Equal(t, "greeting.txt", filepath.Base(outPath))
		})
	}
}

func TestRoundTrip_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "empty.txt", nil)

	opts := aef.Options{Suite: aef.SuiteXChaCha20Poly1305, ChunkSize: aef.DefaultChunkSize, KDF: fastKDF(), PreserveMetadata: true}
	containerPath, err := aef.EncryptFile(context.Background(), src, "hunter2", opts)
	require.NoError(t, err)

	outPath, err := aef.DecryptFile(context.Background(), containerPath, "hunter2", opts)
	require.NoError(t, err)

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRoundTrip_ExactChunkBoundary(t *testing.T) {
	dir := t.TempDir()
	content := bytes.Repeat([]byte{0x00}, 2*1024*1024)
	src := writeSource(t, dir, "a.bin", content)

	opts := aef.Options{Suite: aef.SuiteAESGCMSIV, ChunkSize: 1 << 20, KDF: fastKDF(), PreserveMetadata: false}
	containerPath, err := aef.EncryptFile(context.Background(), src, "pw", opts)
	require.NoError(t, err)

	outPath, err := aef.DecryptFile(context.Background(), containerPath, "pw", opts)
	require.NoError(t, err)

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestDecryptFile_WrongPasswordFailsAtFilename(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "secret.txt", []byte("payload"))

	opts := aef.Options{Suite: aef.SuiteXChaCha20Poly1305, ChunkSize: aef.DefaultChunkSize, KDF: fastKDF(), PreserveMetadata: false}
	containerPath, err := aef.EncryptFile(context.Background(), src, "correct", opts)
	require.NoError(t, err)

	_, err = aef.DecryptFile(context.Background(), containerPath, "wrong", opts)
	require.Error(t, err)
	var authErr *aef.AuthFailureError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "filename", authErr.Context)
}

func TestDecryptFile_TamperedHeaderFails(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "data.txt", []byte("payload"))

	opts := aef.Options{Suite: aef.SuiteXChaCha20Poly1305, ChunkSize: aef.DefaultChunkSize, KDF: fastKDF(), PreserveMetadata: false}
	containerPath, err := aef.EncryptFile(context.Background(), src, "pw", opts)
	require.NoError(t, err)

	flipByte(t, containerPath, 60) // inside nonce_base, leaves KDF params intact

	_, err = aef.DecryptFile(context.Background(), containerPath, "pw", opts)
	assert.Error(t, err)
}

func TestDecryptFile_TamperedChunkFails(t *testing.T) {
	dir := t.TempDir()
	content := bytes.Repeat([]byte("A"), 100)
	src := writeSource(t, dir, "data.txt", content)

	opts := aef.Options{Suite: aef.SuiteXChaCha20Poly1305, ChunkSize: 16, KDF: fastKDF(), PreserveMetadata: false}
	containerPath, err := aef.EncryptFile(context.Background(), src, "pw", opts)
	require.NoError(t, err)

	raw, err := os.ReadFile(containerPath)
	require.NoError(t, err)
	flipByte(t, containerPath, len(raw)-1)

	_, err = aef.DecryptFile(context.Background(), containerPath, "pw", opts)
	require.Error(t, err)
	var authErr *aef.AuthFailureError
	require.ErrorAs(t, err, &authErr)
}

func TestDecryptFile_TruncatedContainerFails(t *testing.T) {
	dir := t.TempDir()
	content := bytes.Repeat([]byte("A"), 100)
	src := writeSource(t, dir, "data.txt", content)

	opts := aef.Options{Suite: aef.SuiteXChaCha20Poly1305, ChunkSize: 16, KDF: fastKDF(), PreserveMetadata: false}
	containerPath, err := aef.EncryptFile(context.Background(), src, "pw", opts)
	require.NoError(t, err)

	raw, err := os.ReadFile(containerPath)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(containerPath, raw[:len(raw)-3], 0o644))

	_, err = aef.DecryptFile(context.Background(), containerPath, "pw", opts)
	assert.Error(t, err)
}

func TestDecryptFile_SwappedChunksFail(t *testing.T) {
	dir := t.TempDir()
	content := []byte("hello!\n") // 7 bytes, chunk size 2 -> 4 chunks: 2,2,2,1
	src := writeSource(t, dir, "lorem.txt", content)

	opts := aef.Options{Suite: aef.SuiteAuroraSIV, ChunkSize: 2, KDF: fastKDF(), PreserveMetadata: false}
	containerPath, err := aef.EncryptFile(context.Background(), src, "pw", opts)
	require.NoError(t, err)

	raw, err := os.ReadFile(containerPath)
	require.NoError(t, err)

	units, headerLen := splitUnits(t, raw)
	require.GreaterOrEqual(t, len(units), 2)

	swapped := append([]byte{}, raw[:headerLen]...)
	units[0], units[1] = units[1], units[0]
	for _, u := range units {
		swapped = append(swapped, u...)
	}
	require.NoError(t, os.WriteFile(containerPath, swapped, 0o644))

	_, err = aef.DecryptFile(context.Background(), containerPath, "pw", opts)
	require.Error(t, err)
	var authErr *aef.AuthFailureError
	require.ErrorAs(t, err, &authErr)
}

func TestInspectHeader_ReadsPublicFields(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "peekaboo.txt", []byte("payload"))

	opts := aef.Options{Suite: aef.SuiteCamelliaGCMSIV, ChunkSize: aef.DefaultChunkSize, KDF: fastKDF(), PreserveMetadata: false}
	containerPath, err := aef.EncryptFile(context.Background(), src, "pw", opts)
	require.NoError(t, err)

	view, err := aef.InspectHeader(containerPath)
	require.NoError(t, err)
	assert.Equal(t, aef.SuiteCamelliaGCMSIV, view.Suite)
	assert.Equal(t, aef.FormatVersion, view.Version)
}

func flipByte(t *testing.T, path string, offset int) {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(raw), offset)
	raw[offset] ^= 0xff
	require.NoError(t, os.WriteFile(path, raw, 0o644))
}

// splitUnits parses only the chunk section of a container written without
// metadata, returning each chunk's raw (len‖ct‖tag) bytes plus the offset
// where the chunk section begins.
func splitUnits(t *testing.T, raw []byte) (units [][]byte, headerLen int) {
	t.Helper()
	// fixed header (81) + fn_len (from header bytes 79:81) + fnCT + 16 tag,
	// no metadata section in these tests.
	nameLen := int(binary.LittleEndian.Uint16(raw[79:81]))
	offset := 81 + nameLen + 16
	headerLen = offset

	for offset < len(raw) {
		length := int(binary.LittleEndian.Uint32(raw[offset : offset+4]))
		unitLen := 4 + length + 16
		units = append(units, raw[offset:offset+unitLen])
		offset += unitLen
	}
	return units, headerLen
}
