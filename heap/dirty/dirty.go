package dirty

import (
	"context"
	"sort"
)

const (
	// defaultRangeCapacity is the pre-allocated capacity for dirty ranges.
	defaultRangeCapacity = 64

	// standardPageSize is the typical OS page size (4KB).
	standardPageSize = 4096
)

// FlushMode controls durability guarantees of Flush.
type FlushMode int

const (
	// FlushAuto msyncs dirty pages, then fdatasyncs the file.
	FlushAuto FlushMode = iota

	// FlushDataOnly only msyncs dirty pages.
	// The caller is responsible for syncing the file descriptor later.
	FlushDataOnly

	// FlushFull msyncs dirty pages and fdatasyncs, using F_FULLFSYNC on macOS.
	FlushFull
)

// Range represents a dirty byte range.
type Range struct {
	Off int64
	Len int64
}

// Tracker accumulates dirty ranges and flushes them efficiently.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type Tracker struct {
	src      Source
	ranges   []Range // raw ranges, coalesced at flush time
	pageSize int64
}

// NewTracker creates a dirty tracker for the given source.
func NewTracker(src Source) *Tracker {
	return &Tracker{
		src:      src,
		ranges:   make([]Range, 0, defaultRangeCapacity),
		pageSize: standardPageSize,
	}
}

// Add records a dirty range. It only appends; alignment and merging happen at
// flush time.
func (t *Tracker) Add(off, length int) {
	t.ranges = append(t.ranges, Range{
		Off: int64(off),
		Len: int64(length),
	})
}

// Len returns the number of raw ranges recorded since the last flush or reset.
func (t *Tracker) Len() int {
	return len(t.ranges)
}

// Flush writes all dirty pages back to the backing file.
//
// The context is checked before msync and again before fdatasync. When it is
// cancelled between the two, data pages may be on disk without the file sync.
func (t *Tracker) Flush(ctx context.Context, mode FlushMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data := t.src.Bytes()
	if len(t.ranges) > 0 && len(data) > 0 {
		if err := t.flushRanges(data); err != nil {
			return err
		}
	}
	t.ranges = t.ranges[:0]

	if mode == FlushDataOnly {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return fdatasync(t.src.FD(), mode == FlushFull)
}

// Reset clears all tracked ranges.
func (t *Tracker) Reset() {
	t.ranges = t.ranges[:0]
}

// DebugRanges returns a copy of the raw, uncoalesced ranges.
func (t *Tracker) DebugRanges() []Range {
	result := make([]Range, len(t.ranges))
	copy(result, t.ranges)
	return result
}

// Ranges returns the page-aligned, sorted and merged ranges that Flush would write.
func (t *Tracker) Ranges() []Range {
	return t.coalesce()
}

// coalesce page-aligns all ranges, sorts them, and merges overlapping/adjacent ranges.
func (t *Tracker) coalesce() []Range {
	if len(t.ranges) == 0 {
		return nil
	}

	aligned := make([]Range, len(t.ranges))
	for i, r := range t.ranges {
		start := (r.Off / t.pageSize) * t.pageSize

		end := r.Off + r.Len
		if end%t.pageSize != 0 {
			end = ((end / t.pageSize) + 1) * t.pageSize
		}

		aligned[i] = Range{
			Off: start,
			Len: end - start,
		}
	}

	sort.Slice(aligned, func(i, j int) bool {
		return aligned[i].Off < aligned[j].Off
	})

	merged := make([]Range, 0, len(aligned))
	current := aligned[0]

	for i := 1; i < len(aligned); i++ {
		next := aligned[i]

		if next.Off <= current.Off+current.Len {
			end := current.Off + current.Len
			nextEnd := next.Off + next.Len
			if nextEnd > end {
				end = nextEnd
			}
			current.Len = end - current.Off
		} else {
			merged = append(merged, current)
			current = next
		}
	}

	merged = append(merged, current)

	return merged
}

// clamp trims r to the first n bytes of the image. ok is false when nothing is left.
func clamp(r Range, n int) (start, end int, ok bool) {
	start = int(r.Off)
	end = int(r.Off + r.Len)
	if start >= n {
		return 0, 0, false
	}
	if end > n {
		end = n
	}
	return start, end, true
}
