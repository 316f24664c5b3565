package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/mmfile"
)

func init() {
	rootCmd.AddCommand(newCheckCmd())
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <heap-file>...",
		Short: "Verify persisted heap images",
		Long: `The check command maps heap files written by the mapped region
(mmctl run --region mapped --heap-dir DIR) and verifies every block and the
free list.

Example:
  mmctl check heaps/short.rep.heap
  mmctl check --json heaps/*.heap`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckFiles(args)
		},
	}
	return cmd
}

type checkResult struct {
	File    string              `json:"file"`
	Valid   bool                `json:"valid"`
	Error   string              `json:"error,omitempty"`
	Summary *verify.HeapSummary `json:"summary,omitempty"`
}

var errInvalidHeap = errors.New("invalid heap image")

func runCheckFiles(paths []string) error {
	var results []checkResult
	failed := 0
	for _, path := range paths {
		res, err := checkFile(path)
		if err != nil {
			return err
		}
		if !res.Valid {
			failed++
		}
		results = append(results, res)
	}

	if jsonOut {
		if err := printJSON(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if !r.Valid {
				printInfo("%s: INVALID: %s\n", r.File, r.Error)
				continue
			}
			s := r.Summary
			printInfo("%s: ok, %d bytes, %d blocks (%d free, largest %d)\n",
				r.File, s.HeapSize, s.Blocks, s.FreeBlocks, s.LargestFree)
		}
	}
	if failed > 0 {
		return errorf("%d of %d files: %w", failed, len(paths), errInvalidHeap)
	}
	return nil
}

func checkFile(path string) (checkResult, error) {
	data, unmap, err := mmfile.Map(path)
	if err != nil {
		return checkResult{}, err
	}
	defer unmap()

	res := checkResult{File: path}
	if err := verify.AllInvariants(data); err != nil {
		res.Error = err.Error()
		return res, nil
	}
	s, err := verify.Summary(data)
	if err != nil {
		res.Error = err.Error()
		return res, nil
	}
	res.Valid = true
	res.Summary = &s
	printVerbose("%s: free list has %d nodes\n", path, s.FreeListLen)
	return res, nil
}
