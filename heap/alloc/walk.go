package alloc

import (
	"errors"
	"fmt"

	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/format"
)

// Block describes one physical block.
type Block struct {
	Ptr Ptr
	format.Tag
}

// Usable returns the payload capacity of the block.
func (b Block) Usable() uint32 { return b.Size - format.HeaderSize }

// Walk calls fn for every block in address order until fn returns false.
func (a *Allocator) Walk(fn func(Block) bool) {
	brk := a.m.r.Len()
	for hdr := uint32(format.FirstBlockOffset); hdr < brk; {
		t := format.ReadTag(a.m.data, hdr)
		if t.Size == 0 || !fn(Block{Ptr: Ptr(hdr + format.HeaderSize), Tag: t}) {
			return
		}
		hdr += t.Size
	}
}

// FreeBlocks returns the free list in list order.
func (a *Allocator) FreeBlocks() []Ptr {
	var out []Ptr
	// a corrupt list may cycle; there cannot be more nodes than minimum blocks
	limit := int(a.m.r.Len()/format.MinBlockSize) + 1
	for bp := a.list.head(); bp != endOfList && len(out) < limit; bp = a.list.next(bp) {
		out = append(out, bp)
	}
	return out
}

// Payload returns the usable bytes of the block at p. The slice is invalidated
// by the next Malloc or Realloc that grows the region.
func (a *Allocator) Payload(p Ptr) []byte {
	n := a.UsableSize(p)
	return a.m.data[p : uint32(p)+n : uint32(p)+n]
}

// UsableSize returns the payload capacity of the allocated block at p.
func (a *Allocator) UsableSize(p Ptr) uint32 {
	return a.m.getTag(p).Size - format.HeaderSize
}

// HeapSize returns the region's break.
func (a *Allocator) HeapSize() uint32 {
	return a.m.r.Len()
}

// Tail returns the physically last block and whether it is allocated. The
// pointer is Nil while the heap is empty.
func (a *Allocator) Tail() (Ptr, bool) {
	return a.tail, a.tailAlloc
}

// Check validates the heap image and the allocator's own bookkeeping.
func (a *Allocator) Check() error {
	if err := verify.AllInvariants(a.m.data); err != nil {
		return err
	}

	var last Block
	found := false
	a.Walk(func(b Block) bool {
		last, found = b, true
		return true
	})

	switch {
	case !found && a.tail != Nil:
		return fmt.Errorf("%w: tail is %d on an empty heap", ErrCorrupt, a.tail)
	case !found && !a.tailAlloc:
		return fmt.Errorf("%w: empty heap with free tail", ErrCorrupt)
	case found && last.Ptr != a.tail:
		return fmt.Errorf("%w: tail is %d, last block is %d", ErrCorrupt, a.tail, last.Ptr)
	case found && last.Alloc != a.tailAlloc:
		return fmt.Errorf("%w: tail allocated=%v, block says %v", ErrCorrupt, a.tailAlloc, last.Alloc)
	}
	return nil
}

// afterOp runs the checker when enabled.
func (a *Allocator) afterOp(op string) {
	if !a.cfg.Checked {
		return
	}
	if err := a.Check(); err != nil {
		var verr *verify.ValidationError
		if errors.As(err, &verr) {
			debugLogf("%s: %s at 0x%X (%v)", op, verr.Type, verr.Offset, verr.Details)
		}
		panic(fmt.Sprintf("alloc: heap check failed after %s: %v", op, err))
	}
}
