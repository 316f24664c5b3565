package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/region"
	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/driver"
	"github.com/joshuapare/heapkit/internal/trace"
)

var (
	dumpOps   int
	dumpPlain bool
)

func init() {
	cmd := newDumpCmd()
	cmd.Flags().IntVar(&dumpOps, "ops", -1, "Replay only the first N operations (default: all)")
	cmd.Flags().BoolVar(&dumpPlain, "plain", false, "Disable request padding heuristics")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <trace>",
		Short: "Replay a trace and print the block map",
		Long: `The dump command replays a trace (or a prefix of it) on an in-memory
heap and prints every block in address order followed by the free list.

Example:
  mmctl dump short.rep
  mmctl dump --ops 10 short.rep
  mmctl dump --json short.rep`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args[0])
		},
	}
	return cmd
}

type dumpBlock struct {
	Ptr       uint32 `json:"ptr"`
	Size      uint32 `json:"size"`
	Alloc     bool   `json:"alloc"`
	PrevAlloc bool   `json:"prev_alloc"`
}

type dumpReport struct {
	Trace    string             `json:"trace"`
	Ops      int                `json:"ops"`
	HeapSize uint32             `json:"heap_size"`
	Blocks   []dumpBlock        `json:"blocks"`
	FreeList []uint32           `json:"free_list"`
	Summary  verify.HeapSummary `json:"summary"`
}

func runDump(path string) error {
	tr, err := trace.Open(path)
	if err != nil {
		return err
	}
	if dumpOps > len(tr.Ops) {
		return errorf("--ops %d exceeds the %d operations in %s", dumpOps, len(tr.Ops), path)
	}
	if dumpOps >= 0 {
		tr.Ops = tr.Ops[:dumpOps]
	}

	r := region.NewSlice(0)
	cfg := &driver.Config{}
	if dumpPlain {
		c := alloc.ConfigPlain
		cfg.Alloc = &c
	}
	_, a, err := driver.Run(tr, r, cfg)
	if err != nil {
		return err
	}

	rep := dumpReport{Trace: tr.Name, Ops: len(tr.Ops), HeapSize: a.HeapSize()}
	a.Walk(func(b alloc.Block) bool {
		rep.Blocks = append(rep.Blocks, dumpBlock{
			Ptr:       uint32(b.Ptr),
			Size:      b.Size,
			Alloc:     b.Alloc,
			PrevAlloc: b.PrevAlloc,
		})
		return true
	})
	for _, p := range a.FreeBlocks() {
		rep.FreeList = append(rep.FreeList, uint32(p))
	}
	if rep.Summary, err = verify.Summary(r.Bytes()); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(rep)
	}
	printDump(rep)
	return nil
}

func printDump(rep dumpReport) {
	printInfo("%s after %d ops, heap %d bytes\n\n", rep.Trace, rep.Ops, rep.HeapSize)
	printInfo("%-10s %10s  %-5s  %s\n", "ptr", "size", "state", "prev")
	for _, b := range rep.Blocks {
		state, prev := "free", "free"
		if b.Alloc {
			state = "alloc"
		}
		if b.PrevAlloc {
			prev = "alloc"
		}
		printInfo("0x%08x %10d  %-5s  %s\n", b.Ptr, b.Size, state, prev)
	}

	printInfo("\nfree list:")
	if len(rep.FreeList) == 0 {
		printInfo(" (empty)")
	}
	for _, p := range rep.FreeList {
		printInfo(" 0x%x", p)
	}
	printInfo("\n")

	s := rep.Summary
	printInfo("\n%d blocks (%d allocated, %d free), %d free bytes, largest free %d, fragmentation %.1f%%\n",
		s.Blocks, s.AllocBlocks, s.FreeBlocks, s.FreeBytes, s.LargestFree, 100*s.Fragmentation)
	printVerbose("free list length %d, alloc bytes %d\n", s.FreeListLen, s.AllocBytes)
}
