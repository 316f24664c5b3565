package alloc

import (
	"fmt"
	"io"
)

// Stats counts allocator activity since New.
type Stats struct {
	AllocCalls   int `json:"alloc_calls"`
	FreeCalls    int `json:"free_calls"`
	ReallocCalls int `json:"realloc_calls"`

	GrowCalls   int   `json:"grow_calls"`
	GrowBytes   int64 `json:"grow_bytes"`
	OutOfMemory int   `json:"out_of_memory"`

	ScanSteps      int64 `json:"scan_steps"` // free-list nodes visited by Malloc
	Splits         int   `json:"splits"`
	WholeFits      int   `json:"whole_fits"`
	PaddedRequests int   `json:"padded_requests"`

	CoalesceNone int `json:"coalesce_none"`
	CoalesceNext int `json:"coalesce_next"`
	CoalescePrev int `json:"coalesce_prev"`
	CoalesceBoth int `json:"coalesce_both"`

	ReallocShrink  int `json:"realloc_shrink"`
	ReallocInPlace int `json:"realloc_in_place"`
	ReallocMoved   int `json:"realloc_moved"`
}

// Stats returns a snapshot of the counters.
func (a *Allocator) Stats() Stats {
	return a.stats
}

// PrintStats writes a human-readable report of the counters and the current
// heap shape to w.
func (a *Allocator) PrintStats(w io.Writer) {
	s := a.stats
	fmt.Fprintf(w, "\n=== ALLOCATOR STATISTICS ===\n")
	fmt.Fprintf(w, "Heap size:          %d bytes\n", a.HeapSize())
	fmt.Fprintf(w, "Grow calls:         %d (%d KB added)\n", s.GrowCalls, s.GrowBytes/1024)
	fmt.Fprintf(w, "Alloc calls:        %d (split: %d, whole: %d, padded: %d)\n",
		s.AllocCalls, s.Splits, s.WholeFits, s.PaddedRequests)
	if s.AllocCalls > 0 {
		fmt.Fprintf(w, "Scan steps:         %d (%.2f per alloc)\n",
			s.ScanSteps, float64(s.ScanSteps)/float64(s.AllocCalls))
	}
	fmt.Fprintf(w, "Free calls:         %d\n", s.FreeCalls)
	fmt.Fprintf(w, "Coalesce:           none=%d next=%d prev=%d both=%d\n",
		s.CoalesceNone, s.CoalesceNext, s.CoalescePrev, s.CoalesceBoth)
	fmt.Fprintf(w, "Realloc calls:      %d (shrink: %d, in place: %d, moved: %d)\n",
		s.ReallocCalls, s.ReallocShrink, s.ReallocInPlace, s.ReallocMoved)
	fmt.Fprintf(w, "Out of memory:      %d\n", s.OutOfMemory)

	var allocBlocks, freeBlocks int
	var freeBytes int64
	a.Walk(func(b Block) bool {
		if b.Alloc {
			allocBlocks++
		} else {
			freeBlocks++
			freeBytes += int64(b.Size)
		}
		return true
	})
	fmt.Fprintf(w, "Blocks:             %d allocated, %d free (%d bytes free)\n",
		allocBlocks, freeBlocks, freeBytes)
	fmt.Fprintf(w, "============================\n\n")
}
