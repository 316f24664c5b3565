package verify

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

// ValidationError describes an invariant violation.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
	Details map[string]interface{}
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Block is one physical block found while walking an image.
type Block struct {
	Ptr uint32 // payload offset
	format.Tag
}

// HeapSummary aggregates block statistics of an image.
type HeapSummary struct {
	HeapSize      int     `json:"heap_size"`
	Blocks        int     `json:"blocks"`
	AllocBlocks   int     `json:"alloc_blocks"`
	FreeBlocks    int     `json:"free_blocks"`
	AllocBytes    int64   `json:"alloc_bytes"` // including headers
	FreeBytes     int64   `json:"free_bytes"`
	LargestFree   uint32  `json:"largest_free"`
	FreeListLen   int     `json:"free_list_len"`
	Fragmentation float64 `json:"fragmentation"` // 1 - largest free / total free
}

// AllInvariants runs every check.
func AllInvariants(data []byte) error {
	if err := Blocks(data); err != nil {
		return err
	}
	return FreeList(data)
}

// Blocks walks the image block by block.
func Blocks(data []byte) error {
	_, err := walk(data)
	return err
}

// FreeList checks the explicit free list against the blocks found by walking.
func FreeList(data []byte) error {
	blocks, err := walk(data)
	if err != nil {
		return err
	}

	free := make(map[uint32]bool)
	for _, b := range blocks {
		if !b.Alloc {
			free[b.Ptr] = false
		}
	}

	prev := uint32(format.PrologueOffset)
	cur := format.ReadU32(data, format.PrologueOffset)
	steps := 0
	for cur != format.EndOfList {
		visited, ok := free[cur]
		if !ok {
			return &ValidationError{
				Type:    "FreeList",
				Message: "list node is not a free block",
				Offset:  int(cur),
				Details: map[string]interface{}{"prev": prev},
			}
		}
		if visited {
			return &ValidationError{
				Type:    "FreeList",
				Message: "free block reached twice (cycle)",
				Offset:  int(cur),
			}
		}
		free[cur] = true
		steps++

		if back := format.ReadU32(data, int(cur)+format.PrevLinkOffset); back != prev {
			return &ValidationError{
				Type:    "FreeList",
				Message: "prev link does not point at predecessor",
				Offset:  int(cur),
				Details: map[string]interface{}{"prev": back, "expected": prev},
			}
		}
		prev = cur
		cur = format.ReadU32(data, int(cur)+format.NextLinkOffset)
	}

	if steps != len(free) {
		for ptr, visited := range free {
			if !visited {
				return &ValidationError{
					Type:    "FreeList",
					Message: "free block not on free list",
					Offset:  int(ptr),
					Details: map[string]interface{}{"listed": steps, "free": len(free)},
				}
			}
		}
	}
	return nil
}

// Summary walks the image and reports block statistics.
func Summary(data []byte) (HeapSummary, error) {
	blocks, err := walk(data)
	if err != nil {
		return HeapSummary{}, err
	}
	s := HeapSummary{HeapSize: len(data), Blocks: len(blocks)}
	for _, b := range blocks {
		if b.Alloc {
			s.AllocBlocks++
			s.AllocBytes += int64(b.Size)
			continue
		}
		s.FreeBlocks++
		s.FreeBytes += int64(b.Size)
		s.LargestFree = max(s.LargestFree, b.Size)
	}
	if s.FreeBytes > 0 {
		s.Fragmentation = 1 - float64(s.LargestFree)/float64(s.FreeBytes)
	}
	for cur := format.ReadU32(data, format.PrologueOffset); cur != format.EndOfList && s.FreeListLen <= s.FreeBlocks; {
		s.FreeListLen++
		cur = format.ReadU32(data, int(cur)+format.NextLinkOffset)
	}
	return s, nil
}

// Walk returns every block of the image in address order.
func Walk(data []byte) ([]Block, error) {
	return walk(data)
}

// walk tiles the image and checks per-block invariants along the way.
func walk(data []byte) ([]Block, error) {
	if len(data) < format.PrologueSize {
		return nil, &ValidationError{
			Type:    "Layout",
			Message: fmt.Sprintf("image of %d bytes has no prologue", len(data)),
			Offset:  -1,
		}
	}

	var blocks []Block
	prevAlloc := true // the prologue counts as allocated
	hdr := uint32(format.FirstBlockOffset)
	end := uint32(len(data))

	for hdr < end {
		if end-hdr < format.WordSize {
			return nil, &ValidationError{Type: "Layout", Message: "trailing bytes after last block", Offset: int(hdr)}
		}
		t := format.ReadTag(data, hdr)
		bp := hdr + format.HeaderSize

		switch {
		case bp%format.Alignment != 0:
			return nil, &ValidationError{Type: "Alignment", Message: "payload not 8-byte aligned", Offset: int(hdr)}
		case t.Size < format.MinBlockSize:
			return nil, &ValidationError{
				Type:    "Block",
				Message: fmt.Sprintf("block size %d below minimum %d", t.Size, format.MinBlockSize),
				Offset:  int(hdr),
			}
		case t.Size > end-hdr:
			return nil, &ValidationError{
				Type:    "Block",
				Message: fmt.Sprintf("block of %d bytes overruns heap end 0x%X", t.Size, end),
				Offset:  int(hdr),
			}
		case t.PrevAlloc != prevAlloc:
			return nil, &ValidationError{
				Type:    "PrevAlloc",
				Message: fmt.Sprintf("prev-allocated bit is %v, preceding block allocated=%v", t.PrevAlloc, prevAlloc),
				Offset:  int(hdr),
			}
		}

		if !t.Alloc {
			if !prevAlloc {
				return nil, &ValidationError{Type: "Coalesce", Message: "two adjacent free blocks", Offset: int(hdr)}
			}
			head := format.ReadU32(data, int(hdr))
			foot := format.ReadU32(data, int(format.FooterOffset(bp, t.Size)))
			if head != foot {
				return nil, &ValidationError{
					Type:    "Footer",
					Message: "free block header and footer differ",
					Offset:  int(hdr),
					Details: map[string]interface{}{"header": head, "footer": foot},
				}
			}
		}

		blocks = append(blocks, Block{Ptr: bp, Tag: t})
		prevAlloc = t.Alloc
		hdr += t.Size
	}
	return blocks, nil
}
