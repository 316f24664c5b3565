package region

import "fmt"

// Slice is a Region backed by a Go byte slice.
type Slice struct {
	buf []byte
	brk uint32
	max uint32
}

// NewSlice creates a Slice region that can grow up to maxSize bytes.
// A maxSize of 0 selects DefaultMaxHeap.
func NewSlice(maxSize uint32) *Slice {
	if maxSize == 0 {
		maxSize = DefaultMaxHeap
	}
	return &Slice{max: maxSize}
}

// Extend grows the break by n bytes.
func (s *Slice) Extend(n uint32) (uint32, error) {
	if !checkExtend(s.brk, n, s.max) {
		return 0, fmt.Errorf("%w: brk=%d grow=%d max=%d", ErrExhausted, s.brk, n, s.max)
	}
	old := s.brk
	need := int(old) + int(n)
	if need > cap(s.buf) {
		newCap := max(2*cap(s.buf), need, 4096)
		newCap = min(newCap, int(s.max))
		buf := make([]byte, len(s.buf), newCap)
		copy(buf, s.buf)
		s.buf = buf
	}
	s.buf = s.buf[:need]
	s.brk = uint32(need)
	return old, nil
}

// Hi returns the offset of the last byte in use.
func (s *Slice) Hi() uint32 { return hi(s.brk) }

// Len returns the current break.
func (s *Slice) Len() uint32 { return s.brk }

// Bytes returns a view of the bytes in use.
func (s *Slice) Bytes() []byte { return s.buf[:s.brk] }

// Max returns the capacity limit.
func (s *Slice) Max() uint32 { return s.max }

// Reset rewinds the break to zero. Any allocator using the region must be
// discarded first.
func (s *Slice) Reset() {
	s.brk = 0
	s.buf = s.buf[:0]
}
