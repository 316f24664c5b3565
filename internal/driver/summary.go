package driver

import (
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// UtilWeight is the share of the performance index given to utilization.
	UtilWeight = 0.60

	// ReferenceThroughput is the ops/sec at which throughput stops adding to
	// the performance index.
	ReferenceThroughput = 600_000
)

// Summary aggregates several replays.
type Summary struct {
	Traces      int           `json:"traces"`
	Ops         int           `json:"ops"`
	Elapsed     time.Duration `json:"elapsed_ns"`
	AvgUtil     float64       `json:"avg_utilization"`
	OpsPerSec   float64       `json:"ops_per_sec"`
	PerfIndex   float64       `json:"perf_index"` // 0..100
	GrowBytes   int64         `json:"grow_bytes"`
	OutOfMemory int           `json:"out_of_memory"`
}

// Summarize averages utilization over the results and computes the combined
// throughput and performance index.
func Summarize(results []*Result) Summary {
	var s Summary
	var util float64
	for _, r := range results {
		s.Traces++
		s.Ops += r.Ops
		s.Elapsed += r.Elapsed
		s.GrowBytes += r.Stats.GrowBytes
		s.OutOfMemory += r.Stats.OutOfMemory
		util += r.Utilization
	}
	if s.Traces == 0 {
		return s
	}
	s.AvgUtil = util / float64(s.Traces)
	if s.Elapsed > 0 {
		s.OpsPerSec = float64(s.Ops) / s.Elapsed.Seconds()
	}
	s.PerfIndex = 100 * (UtilWeight*s.AvgUtil + (1-UtilWeight)*min(1, s.OpsPerSec/ReferenceThroughput))
	return s
}

// WriteReport prints a per-trace table followed by the summary line.
func WriteReport(w io.Writer, results []*Result, s Summary) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "%-24s %10s %12s %12s %7s %14s\n", "trace", "ops", "peak", "heap", "util", "ops/sec")
	for _, r := range results {
		name := r.Trace
		if name == "" {
			name = "-"
		}
		p.Fprintf(w, "%-24s %10d %12d %12d %6.1f%% %14.0f\n",
			name, r.Ops, r.PeakPayload, r.HeapSize, 100*r.Utilization, r.OpsPerSec)
	}
	p.Fprintf(w, "%-24s %10d %12s %12s %6.1f%% %14.0f\n",
		"total", s.Ops, "", "", 100*s.AvgUtil, s.OpsPerSec)
	p.Fprintf(w, "perf index: %.1f/100 (util %.0f%%, throughput %.0f%%)\n",
		s.PerfIndex, 100*s.AvgUtil, 100*min(1, s.OpsPerSec/ReferenceThroughput))
}
