// Package dirty provides page-level dirty tracking for file-backed heaps.
//
// # Overview
//
// The allocator reports every word it writes into the heap image (tags, free-list
// links, the prologue) through the DirtyTracker interface. A Tracker records
// those ranges and, at flush time, page-aligns and coalesces them and flushes
// each resulting range with msync, followed by an optional fdatasync.
//
// # Usage
//
//	m, _ := region.OpenMapped("heap.img", nil)
//	a, _ := alloc.New(m, m.Tracker(), nil)
//	p, _ := a.Malloc(128)
//	_ = m.Flush(ctx, dirty.FlushAuto)
//
// # Page-Level Granularity
//
// Ranges are rounded to 4KB pages when flushed. Consecutive dirty pages are
// merged:
//
//	Dirty pages: [0, 1, 2, 5, 6] → Ranges: [0x0-0x3000, 0x5000-0x7000]
//
// # Thread Safety
//
// Trackers are not thread-safe, like the allocator that feeds them.
package dirty
