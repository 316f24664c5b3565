package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andybalholm/brotli"
)

// Write formats tr in the trace text format.
func Write(w io.Writer, tr *Trace) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n%d\n%d\n%d\n", tr.SuggestedHeap, tr.NumIDs, len(tr.Ops), tr.Weight)
	for _, op := range tr.Ops {
		bw.WriteString(op.String())
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Create writes tr to path, brotli-compressing it when path ends in ".br".
func Create(path string, tr *Trace) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trace: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close trace: %w", cerr)
		}
	}()

	if !strings.HasSuffix(path, ".br") {
		return Write(f, tr)
	}
	bw := brotli.NewWriterLevel(f, brotli.BestCompression)
	if err := Write(bw, tr); err != nil {
		return err
	}
	return bw.Close()
}
