package alloc

import (
	"fmt"

	"github.com/joshuapare/heapkit/heap/dirty"
	"github.com/joshuapare/heapkit/heap/region"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/logger"
)

// Ptr is the offset of a payload inside the region.
type Ptr uint32

// Nil is never a payload offset: offset 0 holds the prologue.
const Nil Ptr = 0

// maxRequest bounds a single request so size arithmetic cannot wrap.
const maxRequest = 1 << 31

// Allocator hands out blocks from a single region.
type Allocator struct {
	m    memory
	list freeList
	cfg  Config

	// tail is the physically last block, Nil while the heap is empty.
	// tailAlloc is its allocated state and becomes the prev-allocated bit of
	// the next block carved from the region.
	tail      Ptr
	tailAlloc bool

	// request history for PatternPadding: last is the most recent size, older
	// the one before it
	older, last uint32

	stats Stats
}

// New claims the prologue word from an empty region and returns an allocator
// with an empty heap. dt may be nil.
func New(r region.Region, dt dirty.DirtyTracker, cfg *Config) (*Allocator, error) {
	c := DefaultConfig
	if cfg != nil {
		c = *cfg
	}
	if checkAlloc {
		c.Checked = true
	}

	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: brk=%d", ErrRegionInUse, r.Len())
	}
	if _, err := r.Extend(format.PrologueSize); err != nil {
		return nil, fmt.Errorf("%w: prologue: %w", ErrOutOfMemory, err)
	}

	a := &Allocator{
		m:         memory{r: r, dt: dt},
		cfg:       c.normalized(),
		tail:      Nil,
		tailAlloc: true,
	}
	a.list = freeList{m: &a.m}
	a.m.refresh()
	a.list.setNext(prologue, endOfList)

	if logAlloc {
		logger.Debug("heap init", "prologue", format.PrologueOffset, "brk", r.Len())
	}
	return a, nil
}

// Malloc returns a block with at least size usable bytes. The payload is
// 8-byte aligned and its contents are undefined. Malloc(0) returns Nil.
func (a *Allocator) Malloc(size uint32) (Ptr, error) {
	a.stats.AllocCalls++
	if size == 0 {
		return Nil, nil
	}
	if size > maxRequest {
		a.stats.OutOfMemory++
		return Nil, fmt.Errorf("%w: request of %d bytes", ErrOutOfMemory, size)
	}

	size = a.recordRequest(size)
	need := size + format.HeaderSize
	asize := max(format.Align8(need), format.MinBlockSize)

	for bp := a.list.head(); bp != endOfList; bp = a.list.next(bp) {
		a.stats.ScanSteps++
		t := a.m.getTag(bp)
		switch {
		case t.Size >= need+a.cfg.MinSplit && t.Size-asize >= format.MinBlockSize:
			a.split(bp, t, asize)
			a.afterOp("malloc")
			return bp, nil
		case t.Size >= need:
			a.takeWhole(bp, t)
			a.afterOp("malloc")
			return bp, nil
		}
	}

	bp, err := a.extend(max(asize, a.cfg.MinExtend))
	if err != nil {
		return Nil, err
	}
	a.afterOp("malloc")
	return bp, nil
}

// recordRequest applies the history heuristic and records the outcome.
func (a *Allocator) recordRequest(size uint32) uint32 {
	if a.cfg.PatternPadding && size+a.last == a.older && size != a.last {
		padded := max(a.last, a.older)
		if logAlloc {
			logger.Debug("request padded", "size", size, "padded", padded)
		}
		size = padded
		a.stats.PaddedRequests++
	}
	a.older, a.last = a.last, size
	return size
}

// split carves an allocated block of asize bytes off the front of the free
// block bp. The remainder stays free and takes bp's place in the list.
func (a *Allocator) split(bp Ptr, t format.Tag, asize uint32) {
	rest := bp + Ptr(asize)
	a.list.replace(bp, rest)
	a.m.putTag(bp, format.Tag{Size: asize, PrevAlloc: t.PrevAlloc, Alloc: true})
	a.m.putFree(rest, t.Size-asize)
	if bp == a.tail {
		a.tail = rest
	}
	a.stats.Splits++
}

// takeWhole allocates the free block bp without splitting it.
func (a *Allocator) takeWhole(bp Ptr, t format.Tag) {
	a.list.remove(bp)
	t.Alloc = true
	a.m.putTag(bp, t)
	if bp == a.tail {
		a.tailAlloc = true
	} else {
		a.m.setPrevAlloc(bp+Ptr(t.Size), true)
	}
	a.stats.WholeFits++
}

// extend grows the region by size bytes and formats them as one allocated
// block that becomes the new tail.
func (a *Allocator) extend(size uint32) (Ptr, error) {
	off, err := a.m.r.Extend(size)
	if err != nil {
		a.stats.OutOfMemory++
		if logAlloc {
			logger.Warn("heap grow failed", "bytes", size, "brk", a.m.r.Len(), "error", err)
		}
		return Nil, fmt.Errorf("%w: grow by %d: %w", ErrOutOfMemory, size, err)
	}
	a.m.refresh()

	bp := Ptr(off + format.HeaderSize)
	a.m.putTag(bp, format.Tag{Size: size, PrevAlloc: a.tailAlloc, Alloc: true})
	a.tail = bp
	a.tailAlloc = true

	a.stats.GrowCalls++
	a.stats.GrowBytes += int64(size)
	if logAlloc {
		logger.Debug("heap grow", "bytes", size, "block", uint32(bp), "brk", a.m.r.Len())
	}
	return bp, nil
}

// Free returns p to the heap, merging it with free neighbours. Free(Nil) does
// nothing. p must have come from this allocator and not been freed since.
func (a *Allocator) Free(p Ptr) {
	if p == Nil {
		return
	}
	a.stats.FreeCalls++
	a.free(p)
	a.afterOp("free")
}

func (a *Allocator) free(p Ptr) {
	t := a.m.getTag(p)
	size := t.Size
	prevFree := !t.PrevAlloc

	next := p + Ptr(size)
	var nt format.Tag
	nextFree := false
	if p != a.tail {
		nt = a.m.getTag(next)
		nextFree = !nt.Alloc
	}

	switch {
	case !prevFree && !nextFree:
		a.m.putFree(p, size)
		if p == a.tail {
			a.tailAlloc = false
		} else {
			a.m.setPrevAlloc(next, false)
		}
		a.list.pushFront(p)
		a.stats.CoalesceNone++

	case !prevFree && nextFree:
		a.list.remove(next)
		a.m.putFree(p, size+nt.Size)
		if next == a.tail {
			a.tail = p
		}
		a.list.pushFront(p)
		a.stats.CoalesceNext++

	case prevFree && !nextFree:
		pt := a.m.prevFooter(p)
		prev := p - Ptr(pt.Size)
		a.list.remove(prev)
		a.m.putFree(prev, pt.Size+size)
		if p == a.tail {
			a.tail = prev
			a.tailAlloc = false
		} else {
			a.m.setPrevAlloc(next, false)
		}
		a.list.pushFront(prev)
		a.stats.CoalescePrev++

	default:
		pt := a.m.prevFooter(p)
		prev := p - Ptr(pt.Size)
		a.list.remove(prev)
		a.list.remove(next)
		a.m.putFree(prev, pt.Size+size+nt.Size)
		if next == a.tail {
			a.tail = prev
		}
		a.list.pushFront(prev)
		a.stats.CoalesceBoth++
	}
}

// Realloc resizes the block at p to hold at least size bytes and returns its
// possibly new location. The first min(old, new) usable bytes are preserved.
// Realloc(Nil, n) is Malloc(n); Realloc(p, 0) frees p and returns Nil. On
// error p is untouched and still owned by the caller.
func (a *Allocator) Realloc(p Ptr, size uint32) (Ptr, error) {
	if p == Nil {
		return a.Malloc(size)
	}
	if size == 0 {
		a.Free(p)
		return Nil, nil
	}
	a.stats.ReallocCalls++

	t := a.m.getTag(p)
	usable := t.Size - format.HeaderSize
	if size <= usable {
		a.stats.ReallocShrink++
		return p, nil
	}
	if size > maxRequest {
		a.stats.OutOfMemory++
		return Nil, fmt.Errorf("%w: request of %d bytes", ErrOutOfMemory, size)
	}
	padded := a.cfg.reallocSize(size)

	if p != a.tail {
		next := p + Ptr(t.Size)
		nt := a.m.getTag(next)
		if !nt.Alloc && usable+nt.Size >= padded {
			a.list.remove(next)
			t.Size += nt.Size
			a.m.putTag(p, t)
			if next == a.tail {
				a.tail = p
				a.tailAlloc = true
			} else {
				a.m.setPrevAlloc(p+Ptr(t.Size), true)
			}
			a.stats.ReallocInPlace++
			a.afterOp("realloc")
			return p, nil
		}
	}

	q, err := a.Malloc(padded)
	if err != nil {
		return Nil, err
	}
	n := min(usable, padded)
	copy(a.m.data[q:uint32(q)+n], a.m.data[p:uint32(p)+n])
	a.stats.FreeCalls++
	a.free(p)
	a.stats.ReallocMoved++
	a.afterOp("realloc")
	return q, nil
}
