package main

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/joshuapare/heapkit/heap/region"
	"github.com/joshuapare/heapkit/internal/trace"
)

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	// drain concurrently so large outputs cannot block the writer
	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.Bytes()
	}()

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout
	return string(<-done), fnErr
}

// execute runs the root command with args and fresh flag values.
func executeArgs(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	rootCmd.SetArgs(args)
	return captureOutput(t, rootCmd.Execute)
}

func resetFlags() {
	verbose, quiet, jsonOut, logDir = false, false, false, ""

	runRegion = "slice"
	runMaxHeap = region.DefaultMaxHeap
	runHeapDir = ""
	runCheck, runStats, runPlain = false, false, false

	genOps = trace.DefaultGenConfig.Ops
	genIDs = 0
	genSeed = 1
	genMaxSize = trace.DefaultGenConfig.MaxSize
	genRealloc = trace.DefaultGenConfig.ReallocRatio
	genOut = ""

	dumpOps = -1
	dumpPlain = false
}

// assertJSON checks that output is valid JSON and decodes it into v
func assertJSON(t *testing.T, output string, v interface{}) {
	t.Helper()
	if err := json.Unmarshal([]byte(output), v); err != nil {
		t.Fatalf("output is not valid JSON: %v\nOutput: %s", err, output)
	}
}
