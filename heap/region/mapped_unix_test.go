//go:build linux || freebsd || darwin

package region

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/dirty"
)

func TestMapped_ExtendAndClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heap.img")
	m, err := OpenMapped(path, &MappedConfig{GrowChunk: 4096})
	require.NoError(t, err)

	off, err := m.Extend(4)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), off)

	off, err = m.Extend(5000)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), off)
	copy(m.Bytes()[4:], "mapped")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(8192), info.Size(), "file grows in whole chunks")

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, data, 5004, "close truncates to the break")
	assert.Equal(t, "mapped", string(data[4:10]))
}

func TestMapped_Exhausted(t *testing.T) {
	m, err := OpenMapped(filepath.Join(t.TempDir(), "heap.img"), &MappedConfig{MaxSize: 8192})
	require.NoError(t, err)
	defer m.Close()

	_, err = m.Extend(8192)
	require.NoError(t, err)
	_, err = m.Extend(8)
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestMapped_FlushDirtyRanges(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping msync test in short mode")
	}
	m, err := OpenMapped(filepath.Join(t.TempDir(), "heap.img"), nil)
	require.NoError(t, err)
	defer m.Close()

	_, err = m.Extend(3 * 4096)
	require.NoError(t, err)

	m.Tracker().Add(10, 4)
	m.Tracker().Add(2*4096+8, 4)
	assert.Len(t, m.Tracker().Ranges(), 2)

	require.NoError(t, m.Flush(context.Background(), dirty.FlushAuto))
	assert.Equal(t, 0, m.Tracker().Len())
}

func TestMapped_ClosedExtend(t *testing.T) {
	m, err := OpenMapped(filepath.Join(t.TempDir(), "heap.img"), nil)
	require.NoError(t, err)
	require.NoError(t, m.Close())

	_, err = m.Extend(8)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, m.Flush(context.Background(), dirty.FlushDataOnly), ErrClosed)
}
