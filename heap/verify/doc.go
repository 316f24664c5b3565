// Package verify checks the structural invariants of a heap image.
//
// # Overview
//
// A heap image is the byte range [0, brk) of a region managed by heap/alloc.
// The checks need nothing but the bytes: the prologue word anchors the free
// list and blocks tile the image from offset 4 to the break.
//
// Validation categories:
//   - Blocks: tiling, 8-byte alignment, minimum size, prev-allocated bits,
//     header/footer equality, no two adjacent free blocks
//   - FreeList: every free block is on the list exactly once, every list node is
//     a free block, and prev links mirror next links
//
// # Quick Start
//
//	if err := verify.AllInvariants(region.Bytes()); err != nil {
//	    fmt.Printf("heap corrupt: %v\n", err)
//	}
//
// # ValidationError
//
// All validation functions return *ValidationError on failure:
//
//	var verr *verify.ValidationError
//	if errors.As(err, &verr) {
//	    fmt.Printf("%s at 0x%X: %s\n", verr.Type, verr.Offset, verr.Message)
//	}
//
// The allocator itself never validates caller input; these checks are for tests,
// the trace driver, and post-mortem inspection of mapped heap files.
package verify
