package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
)

// Open reads and parses a trace file, decompressing ".br" files.
func Open(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".br") {
		r = brotli.NewReader(f)
	}
	tr, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	tr.Name = strings.TrimSuffix(filepath.Base(path), ".br")
	return tr, nil
}

// Parse reads a trace. The number of operations must match the header and
// every id must be below the declared id count.
func Parse(r io.Reader) (*Trace, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var (
		tr      Trace
		header  [4]int
		nHeader int
		numOps  int
		lineNo  int
	)

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}

		if nHeader < len(header) {
			v, err := strconv.Atoi(line)
			if err != nil || v < 0 {
				return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("bad header value %q", line)}
			}
			header[nHeader] = v
			nHeader++
			if nHeader == len(header) {
				tr.SuggestedHeap, tr.NumIDs, numOps, tr.Weight = header[0], header[1], header[2], header[3]
				tr.Ops = make([]Op, 0, min(numOps, 1<<20))
			}
			continue
		}

		op, err := parseOp(line, tr.NumIDs)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Msg: err.Error()}
		}
		tr.Ops = append(tr.Ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("trace: read: %w", err)
	}

	if nHeader == 0 {
		return nil, ErrEmpty
	}
	if nHeader < len(header) {
		return nil, &ParseError{Line: lineNo, Msg: "truncated header"}
	}
	if len(tr.Ops) != numOps {
		return nil, &ParseError{
			Line: lineNo,
			Msg:  fmt.Sprintf("header declares %d ops, found %d", numOps, len(tr.Ops)),
		}
	}
	return &tr, nil
}

func parseOp(line string, numIDs int) (Op, error) {
	fields := strings.Fields(line)
	if len(fields[0]) != 1 {
		return Op{}, fmt.Errorf("unknown op %q", fields[0])
	}

	op := Op{Kind: OpKind(fields[0][0])}
	want := 3
	switch op.Kind {
	case OpAlloc, OpRealloc:
	case OpFree:
		want = 2
	default:
		return Op{}, fmt.Errorf("unknown op %q", fields[0])
	}
	if len(fields) != want {
		return Op{}, fmt.Errorf("%s takes %d fields, got %d", op.Kind, want, len(fields))
	}

	id, err := strconv.Atoi(fields[1])
	if err != nil {
		return Op{}, fmt.Errorf("bad id %q", fields[1])
	}
	if id < 0 || id >= numIDs {
		return Op{}, fmt.Errorf("id %d out of range [0, %d)", id, numIDs)
	}
	op.ID = id

	if want == 3 {
		size, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil {
			return Op{}, fmt.Errorf("bad size %q", fields[2])
		}
		op.Size = uint32(size)
	}
	return op, nil
}
