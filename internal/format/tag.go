package format

import "fmt"

// Tag is the decoded form of a boundary tag word.
//
// On the heap image a tag is packed as size | prevAlloc<<1 | alloc. Size is the
// whole block size in bytes, including the header, and is always a multiple of
// 8, which leaves the low three bits for flags.
type Tag struct {
	Size      uint32
	PrevAlloc bool // the physically preceding block is allocated
	Alloc     bool
}

// Encode packs t into a tag word. Size must already be 8-byte aligned.
func (t Tag) Encode() uint32 {
	w := t.Size &^ tagFlagMask
	if t.PrevAlloc {
		w |= tagPrevAllocBit
	}
	if t.Alloc {
		w |= tagAllocBit
	}
	return w
}

// DecodeTag unpacks a tag word.
func DecodeTag(w uint32) Tag {
	return Tag{
		Size:      w &^ tagFlagMask,
		PrevAlloc: w&tagPrevAllocBit != 0,
		Alloc:     w&tagAllocBit != 0,
	}
}

func (t Tag) String() string {
	state := "free"
	if t.Alloc {
		state = "alloc"
	}
	prev := "prev-free"
	if t.PrevAlloc {
		prev = "prev-alloc"
	}
	return fmt.Sprintf("%d/%s/%s", t.Size, state, prev)
}

// ReadTag decodes the tag word stored at off.
func ReadTag(b []byte, off uint32) Tag {
	return DecodeTag(ReadU32(b, int(off)))
}

// PutTag encodes t and stores it at off.
func PutTag(b []byte, off uint32, t Tag) {
	PutU32(b, int(off), t.Encode())
}

// HeaderOffset returns the header offset of the block whose payload starts at bp.
func HeaderOffset(bp uint32) uint32 {
	return bp - HeaderSize
}

// FooterOffset returns the footer offset of a free block of the given size.
func FooterOffset(bp, size uint32) uint32 {
	return bp + size - 2*WordSize
}

// NextBlock returns the payload offset of the block physically following bp.
func NextBlock(bp, size uint32) uint32 {
	return bp + size
}

// PrevFooterOffset returns the offset of the word just before bp's header, which
// is the footer of the preceding block when that block is free.
func PrevFooterOffset(bp uint32) uint32 {
	return bp - 2*WordSize
}
