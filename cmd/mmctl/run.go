package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/region"
	"github.com/joshuapare/heapkit/internal/driver"
	"github.com/joshuapare/heapkit/internal/trace"
)

var (
	runRegion  string
	runMaxHeap uint32
	runHeapDir string
	runCheck   bool
	runStats   bool
	runPlain   bool
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().StringVar(&runRegion, "region", "slice", "Region backing the heap: slice, mapped, or wasm")
	cmd.Flags().Uint32Var(&runMaxHeap, "max-heap", region.DefaultMaxHeap, "Maximum heap size in bytes")
	cmd.Flags().StringVar(&runHeapDir, "heap-dir", "", "Directory for mapped heap files (default: temporary)")
	cmd.Flags().BoolVar(&runCheck, "check", false, "Check heap invariants after every operation")
	cmd.Flags().BoolVar(&runStats, "stats", false, "Print allocator statistics after each trace")
	cmd.Flags().BoolVar(&runPlain, "plain", false, "Disable request padding heuristics")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <trace>...",
		Short: "Replay traces and report utilization and throughput",
		Long: `The run command replays each trace against a fresh allocator, checks
every returned block (alignment, bounds, overlap, preserved contents), and
prints a utilization and throughput report.

Example:
  mmctl run traces/*.rep
  mmctl run --region wasm --check short.rep.br
  mmctl run --json --stats traces/binary.rep`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraces(cmd.Context(), args)
		},
	}
	return cmd
}

type runReport struct {
	Results []*driver.Result `json:"results"`
	Summary driver.Summary   `json:"summary"`
}

func runTraces(ctx context.Context, paths []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	dir := runHeapDir
	if runRegion == "mapped" && dir == "" {
		tmp, err := os.MkdirTemp("", "mmctl-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	}

	cfg := &driver.Config{Verify: runCheck}
	if runPlain {
		c := alloc.ConfigPlain
		cfg.Alloc = &c
	}

	var results []*driver.Result
	for _, path := range paths {
		printVerbose("Replaying %s on %s region\n", path, runRegion)
		res, err := runOne(ctx, path, dir, cfg)
		if err != nil {
			return err
		}
		results = append(results, res)
	}

	summary := driver.Summarize(results)
	if jsonOut {
		return printJSON(runReport{Results: results, Summary: summary})
	}
	if !quiet {
		driver.WriteReport(os.Stdout, results, summary)
	}
	return nil
}

func runOne(ctx context.Context, path, dir string, cfg *driver.Config) (res *driver.Result, err error) {
	tr, err := trace.Open(path)
	if err != nil {
		return nil, err
	}
	hr, err := openRegion(ctx, runRegion, runMaxHeap, dir, tr.Name)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := hr.close(ctx); err == nil && cerr != nil {
			err = cerr
		}
	}()

	c := *cfg
	c.Tracker = hr.tracker
	res, a, err := driver.Run(tr, hr, &c)
	if err != nil {
		return nil, err
	}
	if runStats && !jsonOut {
		printInfo("%s:", tr.Name)
		a.PrintStats(os.Stdout)
	}
	return res, nil
}

// errorf keeps command errors prefixed consistently.
func errorf(format string, args ...any) error {
	return fmt.Errorf("mmctl: "+format, args...)
}
