package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joshuapare/heapkit/heap/dirty"
	"github.com/joshuapare/heapkit/heap/region"
	"github.com/joshuapare/heapkit/internal/logger"
)

// heapRegion bundles a region with its tracker and teardown.
type heapRegion struct {
	region.Region
	tracker dirty.DirtyTracker
	close   func(context.Context) error
}

// openRegion creates an empty region of the given kind. Mapped regions are
// backed by <dir>/<name>.heap.
func openRegion(ctx context.Context, kind string, maxHeap uint32, dir, name string) (*heapRegion, error) {
	switch kind {
	case "slice":
		return &heapRegion{
			Region: region.NewSlice(maxHeap),
			close:  func(context.Context) error { return nil },
		}, nil

	case "mapped":
		path := filepath.Join(dir, name+".heap")
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("remove stale heap file: %w", err)
		}
		m, err := region.OpenMapped(path, &region.MappedConfig{MaxSize: maxHeap})
		if err != nil {
			return nil, err
		}
		logger.Debug("mapped region", "path", path, "max", maxHeap)
		return &heapRegion{
			Region:  m,
			tracker: m.Tracker(),
			close: func(ctx context.Context) error {
				if err := m.Flush(ctx, dirty.FlushAuto); err != nil {
					m.Close()
					return fmt.Errorf("flush %s: %w", path, err)
				}
				return m.Close()
			},
		}, nil

	case "wasm":
		pages := (maxHeap + region.WasmPageSize - 1) / region.WasmPageSize
		w, err := region.NewWasm(ctx, &region.WasmConfig{MaxPages: pages})
		if err != nil {
			return nil, err
		}
		return &heapRegion{Region: w, close: w.Close}, nil

	default:
		return nil, fmt.Errorf("unknown region %q (want slice, mapped, or wasm)", kind)
	}
}
