package alloc

import (
	"github.com/joshuapare/heapkit/heap/dirty"
	"github.com/joshuapare/heapkit/heap/region"
	"github.com/joshuapare/heapkit/internal/format"
)

// memory is the allocator's view of the region. Every word written through it
// is reported to the dirty tracker.
type memory struct {
	r    region.Region
	data []byte
	dt   dirty.DirtyTracker
}

// refresh re-reads the region view. Extend invalidates the previous one.
func (m *memory) refresh() {
	m.data = m.r.Bytes()
}

func (m *memory) word(off uint32) uint32 {
	return format.ReadU32(m.data, int(off))
}

func (m *memory) putWord(off, v uint32) {
	format.PutU32(m.data, int(off), v)
	if m.dt != nil {
		m.dt.Add(int(off), format.WordSize)
	}
}

// getTag reads the header of the block at bp.
func (m *memory) getTag(bp Ptr) format.Tag {
	return format.ReadTag(m.data, format.HeaderOffset(uint32(bp)))
}

// putTag writes the header of the block at bp.
func (m *memory) putTag(bp Ptr, t format.Tag) {
	m.putWord(format.HeaderOffset(uint32(bp)), t.Encode())
}

// putFree writes header and footer of a free block.
func (m *memory) putFree(bp Ptr, size uint32) {
	t := format.Tag{Size: size, PrevAlloc: true}
	w := t.Encode()
	m.putWord(format.HeaderOffset(uint32(bp)), w)
	m.putWord(format.FooterOffset(uint32(bp), size), w)
}

// prevFooter reads the footer of the block physically before bp. Only valid
// when bp's prev-allocated bit is clear.
func (m *memory) prevFooter(bp Ptr) format.Tag {
	return format.ReadTag(m.data, format.PrevFooterOffset(uint32(bp)))
}

// setPrevAlloc updates the prev-allocated bit of the block at bp.
func (m *memory) setPrevAlloc(bp Ptr, v bool) {
	t := m.getTag(bp)
	if t.PrevAlloc == v {
		return
	}
	t.PrevAlloc = v
	m.putTag(bp, t)
	// a free block's footer mirrors its header
	if !t.Alloc {
		m.putWord(format.FooterOffset(uint32(bp), t.Size), t.Encode())
	}
}
