package aef

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackUnpackMetadata_RoundTrip(t *testing.T) {
	m := FileMetadata{
		ModTime:     time.Unix(1700000000, 0),
		Permissions: 0o640,
	}
	raw := packMetadata(m)
	assert.Len(t, raw, MetaBlobSize)

	got, err := unpackMetadata(raw)
	require.NoError(t, err)
	assert.Equal(t, m.ModTime.Unix(), got.ModTime.Unix())
	assert.Equal(t, m.Permissions, got.Permissions)
}

func TestPackMetadata_MasksPermissionBitsTo9Bits(t *testing.T) {
	m := FileMetadata{ModTime: time.Unix(1, 0), Permissions: 0xffff}
	raw := packMetadata(m)
	got, err := unpackMetadata(raw)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1ff), got.Permissions)
}

func TestUnpackMetadata_RejectsWrongLength(t *testing.T) {
	_, err := unpackMetadata(make([]byte, MetaBlobSize-1))
	assert.ErrorIs(t, err, ErrBadFormat)
}

func TestPermissionBits_ExtractsPermFromMode(t *testing.T) {
	assert.Equal(t, uint16(0o755), permissionBits(0o100755))
}
