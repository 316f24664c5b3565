package region

// DefaultGrowChunk is the step in which a Mapped region grows its file (64 KiB).
const DefaultGrowChunk = 64 << 10

// MappedConfig configures a file-backed region.
type MappedConfig struct {
	// MaxSize is the largest break the region accepts (0 = DefaultMaxHeap).
	MaxSize uint32
	// GrowChunk is the file growth step; it is rounded up to a 4KB multiple
	// (0 = DefaultGrowChunk).
	GrowChunk uint32
}

func (c *MappedConfig) withDefaults() MappedConfig {
	var out MappedConfig
	if c != nil {
		out = *c
	}
	if out.MaxSize == 0 {
		out.MaxSize = DefaultMaxHeap
	}
	if out.GrowChunk == 0 {
		out.GrowChunk = DefaultGrowChunk
	}
	out.GrowChunk = (out.GrowChunk + 4095) &^ 4095
	return out
}

// roundChunk rounds n up to a multiple of chunk without passing limit.
func roundChunk(n, chunk, limit uint32) uint32 {
	r := uint64(n) + uint64(chunk) - 1
	r -= r % uint64(chunk)
	if r > uint64(limit) {
		return limit
	}
	return uint32(r)
}
