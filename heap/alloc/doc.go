// Package alloc implements an explicit free-list allocator over a growable
// region.
//
// # Overview
//
// The allocator manages one contiguous region that only grows. Every block
// carries a 4-byte boundary tag (size, allocated bit, prev-allocated bit) in
// front of its payload; free blocks also carry a footer copy of the tag and two
// free-list links inside their payload. Allocated blocks have no footer: the
// prev-allocated bit of the following block stands in for it.
//
//	offset 0   [prologue: head of free list]
//	offset 4   [hdr|payload .............][hdr|next|prev| ... |ftr][hdr|payload]
//	                 ^ 8-aligned                ^ free block
//
// # Placement
//
// Malloc scans the free list from the head and takes the first block that fits,
// splitting it when the remainder can hold another block. When nothing fits the
// region is extended by exactly the block that is needed.
//
// Two request-pattern heuristics trade space for fewer moves:
//   - when a request plus the previous request equals the one before that, the
//     request is padded to the larger size (PatternPadding)
//   - Realloc that has to move pads the new block to ReallocFloor or
//     ReallocCeiling so the next few growth steps stay in place
//
// # Coalescing
//
// Free merges the block with free physical neighbours in O(1) using the
// prev-allocated bit and the predecessor's footer. Two free blocks are never
// adjacent after any public call returns.
//
// # Misuse
//
// Freeing a pointer this allocator did not return, freeing twice, or
// reallocating a foreign pointer is undefined behaviour and is not detected.
// Set HEAPKIT_CHECK_ALLOC=1 or Config.Checked to run the heap checker after
// every operation.
//
// # Thread Safety
//
// Allocator is not safe for concurrent use.
package alloc
