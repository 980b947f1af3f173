// Package orchestrator drives a full generation run: graph construction,
// planning, and batch-by-batch blueprint execution.
//
// Batches run strictly sequentially. Within a batch, modules are independent
// by construction and run as concurrent workers when the plan marks the
// batch parallel, each against its own private overlay. Overlays reach the
// disk only after a batch-wide path collision check; any collision aborts
// the batch with zero files written. A module failure aborts the run;
// already-flushed batches stay on disk unless rollback is enabled.
package orchestrator
