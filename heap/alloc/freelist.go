package alloc

import "github.com/joshuapare/heapkit/internal/format"

// prologue is the list anchor at offset 0. It has a next link only.
const prologue Ptr = format.PrologueOffset

// endOfList terminates the list.
const endOfList Ptr = format.EndOfList

// freeList is the doubly linked, unordered list of free blocks. Links live in
// the payload of each free block: next at bp+0, prev at bp+4. The first node's
// prev link is the prologue. Membership is never checked; the alloc bit in the
// block tag is authoritative.
type freeList struct {
	m *memory
}

func (l freeList) head() Ptr { return l.next(prologue) }

func (l freeList) next(bp Ptr) Ptr {
	return Ptr(l.m.word(uint32(bp) + format.NextLinkOffset))
}

func (l freeList) prev(bp Ptr) Ptr {
	return Ptr(l.m.word(uint32(bp) + format.PrevLinkOffset))
}

func (l freeList) setNext(node, v Ptr) {
	l.m.putWord(uint32(node)+format.NextLinkOffset, uint32(v))
}

func (l freeList) setPrev(node, v Ptr) {
	l.m.putWord(uint32(node)+format.PrevLinkOffset, uint32(v))
}

// insert splices bp between prev (the prologue or a node) and next (a node or
// endOfList).
func (l freeList) insert(prev, bp, next Ptr) {
	l.setNext(prev, bp)
	l.setNext(bp, next)
	l.setPrev(bp, prev)
	if next != endOfList {
		l.setPrev(next, bp)
	}
}

func (l freeList) remove(bp Ptr) {
	prev, next := l.prev(bp), l.next(bp)
	l.setNext(prev, next)
	if next != endOfList {
		l.setPrev(next, prev)
	}
}

func (l freeList) pushFront(bp Ptr) {
	l.insert(prologue, bp, l.head())
}

// replace puts bp where old was. old's links must still be intact.
func (l freeList) replace(old, bp Ptr) {
	l.insert(l.prev(old), bp, l.next(old))
}
