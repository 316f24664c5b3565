package region

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// WasmPageSize is the size of one WebAssembly memory page.
const WasmPageSize = 1 << 16

// DefaultWasmPages bounds a Wasm region at 320 pages (20 MiB).
const DefaultWasmPages = DefaultMaxHeap / WasmPageSize

// heapModule is a minimal module exporting one memory with a minimum of one page
// and no declared maximum; the runtime's page limit caps growth.
var heapModule = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic "\0asm"
	0x01, 0x00, 0x00, 0x00, // version 1
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: 1 memory, min 1 page
	0x07, 0x0a, 0x01, // export section: 1 export
	0x06, 'm', 'e', 'm', 'o', 'r', 'y', // name "memory"
	0x02, 0x00, // kind memory, index 0
}

// WasmConfig configures a Wasm region.
type WasmConfig struct {
	// MaxPages caps the linear memory (0 = DefaultWasmPages).
	MaxPages uint32
}

// Wasm is a Region backed by the linear memory of a wazero module instance.
// Linear memory only ever grows, which is exactly the region contract.
type Wasm struct {
	rt  wazero.Runtime
	mod api.Module
	mem api.Memory
	brk uint32
	max uint32 // in bytes
}

// NewWasm starts a wazero runtime and instantiates a module whose exported memory
// backs the region.
func NewWasm(ctx context.Context, cfg *WasmConfig) (*Wasm, error) {
	pages := uint32(DefaultWasmPages)
	if cfg != nil && cfg.MaxPages != 0 {
		pages = cfg.MaxPages
	}

	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithMemoryLimitPages(pages))
	mod, err := rt.InstantiateWithConfig(ctx, heapModule, wazero.NewModuleConfig().WithName("heap"))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("region: instantiate heap module: %w", err)
	}
	mem := mod.ExportedMemory("memory")
	if mem == nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("region: heap module does not export memory")
	}

	limit := uint64(pages) * WasmPageSize
	if limit > 1<<32-1 {
		limit = 1<<32 - 1
	}
	return &Wasm{rt: rt, mod: mod, mem: mem, max: uint32(limit)}, nil
}

// Extend grows the break by n bytes, growing linear memory by whole pages when
// the break crosses the current memory size.
func (w *Wasm) Extend(n uint32) (uint32, error) {
	if w.mem == nil {
		return 0, ErrClosed
	}
	if !checkExtend(w.brk, n, w.max) {
		return 0, fmt.Errorf("%w: brk=%d grow=%d max=%d", ErrExhausted, w.brk, n, w.max)
	}
	old := w.brk
	end := uint64(old) + uint64(n)
	if size := uint64(w.mem.Size()); end > size {
		delta := (end - size + WasmPageSize - 1) / WasmPageSize
		if _, ok := w.mem.Grow(uint32(delta)); !ok {
			return 0, fmt.Errorf("%w: memory.grow by %d pages refused", ErrExhausted, delta)
		}
	}
	w.brk = uint32(end)
	return old, nil
}

// Hi returns the offset of the last byte in use.
func (w *Wasm) Hi() uint32 { return hi(w.brk) }

// Len returns the current break.
func (w *Wasm) Len() uint32 { return w.brk }

// Bytes returns a view into linear memory. Growing the memory may move it.
func (w *Wasm) Bytes() []byte {
	if w.mem == nil {
		return nil
	}
	b, ok := w.mem.Read(0, w.brk)
	if !ok {
		return nil
	}
	return b
}

// Pages returns the current size of linear memory in pages.
func (w *Wasm) Pages() uint32 {
	if w.mem == nil {
		return 0
	}
	return w.mem.Size() / WasmPageSize
}

// Close shuts down the runtime.
func (w *Wasm) Close(ctx context.Context) error {
	if w.rt == nil {
		return nil
	}
	err := w.rt.Close(ctx)
	w.rt, w.mod, w.mem = nil, nil, nil
	return err
}
