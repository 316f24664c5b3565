package format

// Heap image layout.
//
//	offset 0        4          4+size0                 brk
//	       [prologue][block 0 ][block 1 ] ... [tail block]
//
// The prologue word holds the payload offset of the first free block or
// EndOfList. A block starts with a header tag; the payload ("block pointer")
// begins one word later and is 8-byte aligned because the prologue occupies
// exactly one word and every block size is a multiple of 8.
const (
	// WordSize is the size of a tag, link, or prologue word.
	WordSize = 4

	// HeaderSize is the per-block overhead of an allocated block.
	HeaderSize = WordSize

	// Alignment is the block and payload alignment.
	Alignment = 8

	// AlignmentMask is the bitmask used for aligning to 8-byte boundaries (Alignment - 1).
	AlignmentMask = Alignment - 1

	// MinBlockSize is header + next + prev + footer.
	MinBlockSize = 4 * WordSize

	// PrologueOffset is where the free-list anchor lives.
	PrologueOffset = 0

	// PrologueSize is the number of bytes claimed at heap initialization.
	PrologueSize = WordSize

	// FirstBlockOffset is the header offset of the physically first block.
	FirstBlockOffset = PrologueOffset + PrologueSize

	// EndOfList terminates the free list.
	EndOfList = 0xFFFFFFFF
)

// Free-list node layout, relative to the block pointer (payload start).
const (
	NextLinkOffset = 0
	PrevLinkOffset = WordSize
)

// Tag bits.
const (
	tagAllocBit     = 0x1
	tagPrevAllocBit = 0x2
	tagFlagMask     = AlignmentMask
)
