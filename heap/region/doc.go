// Package region provides growable memory regions for the heap allocator.
//
// # Overview
//
// A Region is a single contiguous span of bytes with a break pointer (brk).
// Extend moves the break up by n bytes and returns the offset where the new span
// starts; a region never shrinks while an allocator is using it. Offsets, not
// addresses, are the currency: a region may move its backing storage when it
// grows, so callers must re-fetch Bytes after every Extend.
//
// # Implementations
//
// Slice: in-process byte slice with a fixed maximum size
//
//   - Default maximum is 20 MiB (DefaultMaxHeap)
//   - Reset rewinds the break for reuse between runs
//
// Mapped: heap image backed by a file mapped MAP_SHARED (linux, freebsd, darwin)
//
//   - Grows the file in GrowChunk steps and remaps
//   - Every write reported to its dirty tracker can be flushed with Flush
//   - Close truncates the file to the break so the file is the heap image
//
// Wasm: heap backed by a WebAssembly linear memory hosted by wazero
//
//   - Grows in 64 KiB pages up to a page limit
//
// # Thread Safety
//
// Regions are not thread-safe. They are owned by exactly one allocator.
package region
