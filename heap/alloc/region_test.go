package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/region"
)

func TestWasmRegion_RandomOps(t *testing.T) {
	ctx := t.Context()
	r, err := region.NewWasm(ctx, &region.WasmConfig{MaxPages: 256})
	require.NoError(t, err)
	defer r.Close(ctx)

	a, err := New(r, nil, plain())
	require.NoError(t, err)
	runRandomOps(t, a, 7, 1500, 512)
}

func TestWasmRegion_OutOfMemory(t *testing.T) {
	ctx := t.Context()
	r, err := region.NewWasm(ctx, &region.WasmConfig{MaxPages: 1})
	require.NoError(t, err)
	defer r.Close(ctx)

	a, err := New(r, nil, plain())
	require.NoError(t, err)

	p := mustMalloc(t, a, 1000)
	_, err = a.Malloc(region.WasmPageSize)
	require.ErrorIs(t, err, ErrOutOfMemory)
	require.ErrorIs(t, err, region.ErrExhausted)
	require.NoError(t, a.Check())
	a.Free(p)
}
