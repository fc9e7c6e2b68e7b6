package spine

import "github.com/VictoriaMetrics/metrics"

var (
	mergesTotal      = metrics.NewCounter("difftrace_spine_merges_total")
	mergedBatchSizes = metrics.GetOrCreateSummary("difftrace_spine_merged_batch_size")
)
