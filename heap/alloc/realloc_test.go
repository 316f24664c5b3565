package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/region"
)

func TestRealloc_NilIsMalloc(t *testing.T) {
	a, _ := newTestAllocator(t, 0, plain())
	p, err := a.Realloc(Nil, 40)
	require.NoError(t, err)
	require.NotEqual(t, Nil, p)
	assert.GreaterOrEqual(t, a.UsableSize(p), uint32(40))
}

func TestRealloc_ZeroFrees(t *testing.T) {
	a, _ := newTestAllocator(t, 0, plain())
	p := mustMalloc(t, a, 40)

	q, err := a.Realloc(p, 0)
	require.NoError(t, err)
	assert.Equal(t, Nil, q)
	assert.Equal(t, []Ptr{p}, a.FreeBlocks())
	assertInvariants(t, a)
}

func TestRealloc_ShrinkIsNoop(t *testing.T) {
	a, r := newTestAllocator(t, 0, nil)
	p := mustMalloc(t, a, 200)
	fill(a, p, 3)
	size := blockSize(a, p)
	brk := r.Len()

	for _, n := range []uint32{1, 100, 200, a.UsableSize(p)} {
		q, err := a.Realloc(p, n)
		require.NoError(t, err)
		assert.Equal(t, p, q)
	}
	assert.Equal(t, size, blockSize(a, p))
	assert.Equal(t, brk, r.Len())
	requireFilled(t, a, p, 3, 200)
	assert.Equal(t, 4, a.Stats().ReallocShrink)
}

func TestRealloc_GrowInPlace(t *testing.T) {
	a, r := newTestAllocator(t, 0, plain())

	pa := mustMalloc(t, a, 16)
	pb := mustMalloc(t, a, 100)
	pc := mustMalloc(t, a, 16)
	fill(a, pa, 9)
	a.Free(pb)
	brk := r.Len()

	q, err := a.Realloc(pa, 60)
	require.NoError(t, err)
	assert.Equal(t, pa, q)
	assert.Equal(t, uint32(24+104), blockSize(a, pa))
	assert.True(t, a.m.getTag(pc).PrevAlloc)
	assert.Empty(t, a.FreeBlocks())
	assert.Equal(t, brk, r.Len())
	requireFilled(t, a, pa, 9, 20)
	assert.Equal(t, 1, a.Stats().ReallocInPlace)
	assertInvariants(t, a)
}

func TestRealloc_GrowInPlaceAbsorbsTail(t *testing.T) {
	a, _ := newTestAllocator(t, 0, plain())

	pa := mustMalloc(t, a, 16)
	pb := mustMalloc(t, a, 100)
	a.Free(pb)

	q, err := a.Realloc(pa, 60)
	require.NoError(t, err)
	assert.Equal(t, pa, q)
	tail, alloc := a.Tail()
	assert.Equal(t, pa, tail)
	assert.True(t, alloc)
	assertInvariants(t, a)
}

func TestRealloc_TailMoves(t *testing.T) {
	a, _ := newTestAllocator(t, 0, plain())

	mustMalloc(t, a, 16)
	pb := mustMalloc(t, a, 16)
	fill(a, pb, 1)

	q, err := a.Realloc(pb, 100)
	require.NoError(t, err)
	assert.NotEqual(t, pb, q)
	requireFilled(t, a, q, 1, 20)
	assert.Equal(t, 1, a.Stats().ReallocMoved)
	assertInvariants(t, a)
}

func TestRealloc_MovePadsToFloor(t *testing.T) {
	a, _ := newTestAllocator(t, 0, nil)

	pa := mustMalloc(t, a, 16)
	mustMalloc(t, a, 16)
	fill(a, pa, 5)

	q, err := a.Realloc(pa, 100)
	require.NoError(t, err)
	assert.NotEqual(t, pa, q)
	assert.GreaterOrEqual(t, a.UsableSize(q), DefaultConfig.ReallocFloor)
	requireFilled(t, a, q, 5, 20)
	assert.Contains(t, a.FreeBlocks(), pa)
	assertInvariants(t, a)

	// the padding lets the next growth steps stay put
	for _, n := range []uint32{1000, 5000, DefaultConfig.ReallocFloor} {
		r, err := a.Realloc(q, n)
		require.NoError(t, err)
		assert.Equal(t, q, r)
	}
}

func TestRealloc_MovePadsToCeiling(t *testing.T) {
	a, _ := newTestAllocator(t, 0, nil)

	pa := mustMalloc(t, a, 16)
	mustMalloc(t, a, 16)

	q, err := a.Realloc(pa, DefaultConfig.ReallocFloor+1)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, a.UsableSize(q), DefaultConfig.ReallocCeiling)
}

func TestRealloc_AboveCeilingNotPadded(t *testing.T) {
	a, _ := newTestAllocator(t, 0, nil)

	pa := mustMalloc(t, a, 16)
	mustMalloc(t, a, 16)

	want := DefaultConfig.ReallocCeiling + 4096
	q, err := a.Realloc(pa, want)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, a.UsableSize(q), want)
	assert.Less(t, a.UsableSize(q), want+16)
}

func TestRealloc_FailureKeepsOriginal(t *testing.T) {
	a, r := newTestAllocator(t, 128, plain())

	pa := mustMalloc(t, a, 40)
	mustMalloc(t, a, 8)
	fill(a, pa, 11)
	brk := r.Len()

	q, err := a.Realloc(pa, 200)
	require.ErrorIs(t, err, ErrOutOfMemory)
	require.ErrorIs(t, err, region.ErrExhausted)
	assert.Equal(t, Nil, q)
	assert.Equal(t, brk, r.Len())
	requireFilled(t, a, pa, 11, 40)
	assert.NotContains(t, a.FreeBlocks(), pa)
	assertInvariants(t, a)
}
