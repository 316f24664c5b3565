package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/region"
)

// newTestAllocator builds an allocator over a fresh slice region.
func newTestAllocator(t testing.TB, maxHeap uint32, cfg *Config) (*Allocator, *region.Slice) {
	t.Helper()
	r := region.NewSlice(maxHeap)
	a, err := New(r, nil, cfg)
	require.NoError(t, err)
	return a, r
}

func plain() *Config {
	c := ConfigPlain
	return &c
}

// assertInvariants fails the test when the heap is inconsistent.
func assertInvariants(t testing.TB, a *Allocator) {
	t.Helper()
	require.NoError(t, a.Check())
}

func mustMalloc(t testing.TB, a *Allocator, size uint32) Ptr {
	t.Helper()
	p, err := a.Malloc(size)
	require.NoError(t, err)
	require.NotEqual(t, Nil, p)
	return p
}

// blockSize returns the whole size of the block at p.
func blockSize(a *Allocator, p Ptr) uint32 {
	return a.m.getTag(p).Size
}

func blocks(a *Allocator) []Block {
	var out []Block
	a.Walk(func(b Block) bool {
		out = append(out, b)
		return true
	})
	return out
}

func fill(a *Allocator, p Ptr, seed byte) {
	buf := a.Payload(p)
	for i := range buf {
		buf[i] = seed + byte(i)
	}
}

func requireFilled(t testing.TB, a *Allocator, p Ptr, seed byte, n uint32) {
	t.Helper()
	buf := a.Payload(p)
	require.GreaterOrEqual(t, uint32(len(buf)), n)
	for i := range n {
		if buf[i] != seed+byte(i) {
			t.Fatalf("payload at %d corrupted at byte %d: got %#x want %#x", p, i, buf[i], seed+byte(i))
		}
	}
}

// recordingTracker collects dirty ranges.
type recordingTracker struct {
	ranges [][2]int
}

func (r *recordingTracker) Add(off, length int) {
	r.ranges = append(r.ranges, [2]int{off, length})
}

func (r *recordingTracker) covers(off int) bool {
	for _, rg := range r.ranges {
		if off >= rg[0] && off < rg[0]+rg[1] {
			return true
		}
	}
	return false
}

