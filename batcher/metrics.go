package batcher

import "github.com/VictoriaMetrics/metrics"

// Package-level counters, in the same directly-instantiated idiom this
// codebase's kv package uses for its own instrumentation (no metrics
// server is started here; a consumer scrapes the default registry).
var (
	tuplesPushed = metrics.NewCounter("difftrace_tuples_pushed_total")
	tuplesSealed = metrics.NewCounter("difftrace_tuples_sealed_total")
	compactions  = metrics.NewCounter("difftrace_batcher_compactions_total")
	sealSizes    = metrics.GetOrCreateSummary("difftrace_batcher_seal_size")
)
