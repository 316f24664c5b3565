package alloc

import "errors"

var (
	// ErrOutOfMemory indicates the region could not be extended. It wraps the
	// region's own error.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrRegionInUse indicates New was handed a region that already holds data.
	ErrRegionInUse = errors.New("alloc: region is not empty")

	// ErrCorrupt is returned by Check when allocator bookkeeping disagrees with
	// the heap image.
	ErrCorrupt = errors.New("alloc: heap corrupt")
)
