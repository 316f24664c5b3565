package dirty

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSource is an in-memory Source with no file behind it.
type memSource struct {
	data []byte
}

func (m *memSource) Bytes() []byte { return m.data }
func (m *memSource) FD() int       { return -1 }

func newTestTracker(size int) *Tracker {
	return NewTracker(&memSource{data: make([]byte, size)})
}

func Test_DirtyTracker_PageAlignment(t *testing.T) {
	tracker := newTestTracker(8192)

	// offset 100, length 200 rounds out to the first page
	tracker.Add(100, 200)

	coalesced := tracker.coalesce()
	require.Len(t, coalesced, 1)
	assert.Equal(t, int64(0), coalesced[0].Off)
	assert.Equal(t, int64(4096), coalesced[0].Len)
}

func Test_DirtyTracker_Coalesce_Adjacent(t *testing.T) {
	tracker := newTestTracker(16384)

	tracker.Add(4096, 4096)
	tracker.Add(8192, 4096)

	coalesced := tracker.coalesce()
	require.Len(t, coalesced, 1)
	assert.Equal(t, Range{Off: 4096, Len: 8192}, coalesced[0])
}

func Test_DirtyTracker_Coalesce_Gaps(t *testing.T) {
	tracker := newTestTracker(0x8000)

	// pages 5, 0, 6, 1, 2 added out of order
	for _, page := range []int{5, 0, 6, 1, 2} {
		tracker.Add(page*4096+8, 4)
	}

	coalesced := tracker.Ranges()
	require.Len(t, coalesced, 2)
	assert.Equal(t, Range{Off: 0, Len: 0x3000}, coalesced[0])
	assert.Equal(t, Range{Off: 0x5000, Len: 0x2000}, coalesced[1])
}

func Test_DirtyTracker_ResetAndDebugRanges(t *testing.T) {
	tracker := newTestTracker(4096)
	tracker.Add(8, 4)
	tracker.Add(16, 4)

	raw := tracker.DebugRanges()
	require.Len(t, raw, 2)
	raw[0].Off = 999
	assert.Equal(t, int64(8), tracker.DebugRanges()[0].Off, "DebugRanges must return a copy")

	tracker.Reset()
	assert.Equal(t, 0, tracker.Len())
	assert.Nil(t, tracker.Ranges())
}

func Test_DirtyTracker_FlushCancelled(t *testing.T) {
	tracker := newTestTracker(4096)
	tracker.Add(0, 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := tracker.Flush(ctx, FlushDataOnly)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, tracker.Len(), "cancelled flush keeps ranges")
}

func Test_DirtyTracker_FlushEmpty(t *testing.T) {
	tracker := newTestTracker(0)
	require.NoError(t, tracker.Flush(context.Background(), FlushDataOnly))
}

func Test_Clamp(t *testing.T) {
	start, end, ok := clamp(Range{Off: 4096, Len: 4096}, 6000)
	require.True(t, ok)
	assert.Equal(t, 4096, start)
	assert.Equal(t, 6000, end)

	_, _, ok = clamp(Range{Off: 8192, Len: 4096}, 6000)
	assert.False(t, ok)
}
