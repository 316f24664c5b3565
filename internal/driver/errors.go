package driver

import (
	"errors"
	"fmt"

	"github.com/joshuapare/heapkit/internal/trace"
)

var (
	ErrNilBlock      = errors.New("driver: allocator returned nil for a non-zero request")
	ErrMisaligned    = errors.New("driver: payload not 8-byte aligned")
	ErrOutOfRange    = errors.New("driver: payload outside the heap")
	ErrOverlap       = errors.New("driver: payloads overlap")
	ErrCorrupted     = errors.New("driver: payload contents changed")
	ErrDeadID        = errors.New("driver: operation on an id that is not live")
	ErrShortCapacity = errors.New("driver: usable size smaller than request")
)

// OpError wraps a failure with the operation that caused it.
type OpError struct {
	Trace string
	Index int
	Op    trace.Op
	Err   error
}

func (e *OpError) Error() string {
	name := e.Trace
	if name == "" {
		name = "trace"
	}
	return fmt.Sprintf("%s: op %d (%s): %v", name, e.Index, e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }
