package trace

import (
	"errors"
	"fmt"
)

// OpKind identifies a trace operation.
type OpKind byte

const (
	OpAlloc   OpKind = 'a'
	OpRealloc OpKind = 'r'
	OpFree    OpKind = 'f'
)

func (k OpKind) String() string {
	switch k {
	case OpAlloc:
		return "alloc"
	case OpRealloc:
		return "realloc"
	case OpFree:
		return "free"
	default:
		return fmt.Sprintf("OpKind(%q)", byte(k))
	}
}

// Op is one trace line. Size is unused for OpFree.
type Op struct {
	Kind OpKind
	ID   int
	Size uint32
}

func (o Op) String() string {
	if o.Kind == OpFree {
		return fmt.Sprintf("%c %d", byte(o.Kind), o.ID)
	}
	return fmt.Sprintf("%c %d %d", byte(o.Kind), o.ID, o.Size)
}

// Trace is a parsed trace file.
type Trace struct {
	Name          string // file base name, empty for in-memory traces
	SuggestedHeap int
	NumIDs        int
	Weight        int
	Ops           []Op
}

// ErrEmpty indicates a trace with no header.
var ErrEmpty = errors.New("trace: empty input")

// ParseError reports a malformed line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("trace: line %d: %s", e.Line, e.Msg)
}
