package alloc

import "github.com/joshuapare/heapkit/internal/format"

// Config tunes placement and growth. A nil *Config passed to New selects
// DefaultConfig.
type Config struct {
	// PatternPadding enables the two-request history heuristic.
	PatternPadding bool

	// MinSplit is how many bytes beyond the request a free block must have
	// before it is split. Values below the minimum block size are raised.
	MinSplit uint32

	// MinExtend is the smallest region extension.
	MinExtend uint32

	// ReallocFloor and ReallocCeiling size the replacement block when Realloc
	// has to move: requests up to the floor get the floor, requests up to the
	// ceiling get the ceiling. Zero for both disables realloc padding.
	ReallocFloor   uint32
	ReallocCeiling uint32

	// Checked runs the heap checker after every public operation and panics on
	// the first violation.
	Checked bool
}

// DefaultConfig matches the tuning the allocator was designed with.
var DefaultConfig = Config{
	PatternPadding: true,
	MinSplit:       16,
	MinExtend:      16,
	ReallocFloor:   0x6FFF,
	ReallocCeiling: 0x96180,
}

// ConfigPlain disables both request heuristics. Every block is as small as the
// request allows, which makes heap layouts easy to predict in tests.
var ConfigPlain = Config{
	MinSplit:  16,
	MinExtend: 16,
}

func (c Config) normalized() Config {
	c.MinSplit = max(c.MinSplit, format.MinBlockSize)
	c.MinExtend = format.Align8(max(c.MinExtend, format.MinBlockSize))
	if c.ReallocCeiling < c.ReallocFloor {
		c.ReallocCeiling = c.ReallocFloor
	}
	return c
}

// reallocSize returns the size a moving Realloc allocates for a request.
func (c *Config) reallocSize(size uint32) uint32 {
	switch {
	case size <= c.ReallocFloor:
		return c.ReallocFloor
	case size <= c.ReallocCeiling:
		return c.ReallocCeiling
	default:
		return size
	}
}
