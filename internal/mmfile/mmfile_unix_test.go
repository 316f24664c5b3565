//go:build linux || freebsd || darwin

package mmfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_ReadsImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heap.img")
	want := []byte{0xff, 0xff, 0xff, 0xff, 0x12, 0x00, 0x00, 0x00}
	require.NoError(t, os.WriteFile(path, want, 0o644))

	data, unmap, err := Map(path)
	require.NoError(t, err)
	assert.Equal(t, want, data)

	require.NoError(t, unmap())
	require.NoError(t, unmap(), "second unmap is a no-op")
}

func TestMap_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.img")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	data, unmap, err := Map(path)
	require.NoError(t, err)
	assert.Empty(t, data)
	require.NotNil(t, unmap)
	require.NoError(t, unmap())
}

func TestMap_Missing(t *testing.T) {
	_, _, err := Map(filepath.Join(t.TempDir(), "missing.img"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
