package region

import "errors"

// DefaultMaxHeap is the default capacity of a Slice region (20 MiB).
const DefaultMaxHeap = 20 * (1 << 20)

var (
	// ErrExhausted indicates the region cannot grow by the requested amount.
	ErrExhausted = errors.New("region: exhausted")

	// ErrClosed indicates an operation on a closed region.
	ErrClosed = errors.New("region: closed")

	// ErrUnsupported indicates the region kind is not available on this platform.
	ErrUnsupported = errors.New("region: unsupported on this platform")
)

// Region is a contiguous, extend-only span of memory.
type Region interface {
	// Extend grows the region by n bytes and returns the offset of the first new
	// byte (the previous break). The new bytes are not guaranteed to be zero.
	Extend(n uint32) (uint32, error)

	// Hi returns the offset of the last byte in use, or 0 when the region is empty.
	Hi() uint32

	// Len returns the current break.
	Len() uint32

	// Bytes returns a view of [0, Len()). The view is invalidated by Extend.
	Bytes() []byte
}

// hi computes the high address for a break.
func hi(brk uint32) uint32 {
	if brk == 0 {
		return 0
	}
	return brk - 1
}

// checkExtend reports whether brk can grow by n without passing limit.
func checkExtend(brk, n, limit uint32) bool {
	return n <= limit && brk <= limit-n
}
