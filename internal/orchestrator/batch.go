package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/vk/modforge/internal/analyzer"
	"github.com/vk/modforge/internal/ctxlog"
	"github.com/vk/modforge/internal/executor"
	"github.com/vk/modforge/internal/expr"
	"github.com/vk/modforge/internal/model"
	"github.com/vk/modforge/internal/overlay"
	"github.com/vk/modforge/internal/planner"
)

// moduleRun is the per-module outcome within one batch.
type moduleRun struct {
	module  *model.Module
	overlay *overlay.Overlay
	result  *executor.Result

	// err records a hard pre-execution failure (resolution, analysis,
	// required-file validation). When set, result and overlay are nil.
	err error
}

func (r *moduleRun) failed() bool {
	return r.err != nil || (r.result != nil && !r.result.Success)
}

// executeBatch runs one batch to completion and flushes its overlays.
// It returns false when the run must stop.
func (o *Orchestrator) executeBatch(ctx context.Context, batch *planner.Batch, result *model.ExecutionResult, tracker *rollbackTracker) bool {
	logger := ctxlog.FromContext(ctx).With("batch", batch.BatchNumber)
	logger.Info("▶️ Executing batch",
		"modules", len(batch.Modules),
		"parallel", batch.CanExecuteInParallel,
	)

	runs := o.runModules(ctx, batch)

	// Critical failures bypass the collision check and the flush: nothing
	// from this batch reaches the disk, and no later step runs.
	for _, run := range runs {
		if run.failed() && run.module.Category.IsCritical() {
			o.recordRunErrors(result, run, model.ErrKindCritical)
			logger.Error("Critical module failed, aborting run.", "module", run.module.ID)
			return false
		}
	}

	// Path ownership is exclusive within a batch. Any overlap means two
	// modules disagree about a file, and neither side's write can be
	// trusted: abort with zero files written for the batch.
	overlays := make(map[string]*overlay.Overlay, len(runs))
	for _, run := range runs {
		if run.overlay != nil {
			overlays[run.module.ID] = run.overlay
		}
	}
	if collisions := overlay.DetectCollisions(overlays); len(collisions) > 0 {
		for _, c := range collisions {
			result.AppendError(&model.ExecutionError{
				Kind:    model.ErrKindConflict,
				Module:  strings.Join(c.Modules, ", "),
				Path:    c.Path,
				Message: fmt.Sprintf("create conflict: %s", c),
			})
		}
		logger.Error("Path collision inside batch, nothing flushed.", "collisions", len(collisions))
		return false
	}

	// Flush every overlay, including those of modules that recorded action
	// errors: the executor's best-effort policy writes whatever was staged
	// before the failure. Paths are disjoint, so flush order is irrelevant.
	flushFailed := false
	for _, run := range runs {
		if run.overlay == nil {
			continue
		}
		dirty := run.overlay.DirtyPaths()
		if err := run.overlay.Flush(ctx); err != nil {
			result.AppendError(&model.ExecutionError{
				Kind:    model.ErrKindModule,
				Module:  run.module.ID,
				Message: fmt.Sprintf("flushing overlay: %v", err),
			})
			flushFailed = true
			continue
		}
		tracker.add(dirty)
	}

	// Surface per-module outcomes after the flush decision is made.
	anyFailed := flushFailed
	for _, run := range runs {
		if !run.failed() {
			result.ModulesExecuted++
			continue
		}
		anyFailed = true
		o.recordRunErrors(result, run, model.ErrKindModule)
	}

	if anyFailed {
		logger.Error("Batch failed, aborting run.")
		return false
	}
	logger.Info("✅ Batch complete")
	return true
}

// runModules executes every module of a batch, concurrently when the plan
// marks the batch parallel, bounded by the configured worker count.
func (o *Orchestrator) runModules(ctx context.Context, batch *planner.Batch) []*moduleRun {
	runs := make([]*moduleRun, len(batch.Modules))

	if !batch.CanExecuteInParallel {
		for i, m := range batch.Modules {
			runs[i] = o.runModule(ctx, m)
		}
		return runs
	}

	sem := make(chan struct{}, o.opts.WorkerCount)
	var wg sync.WaitGroup
	for i, m := range batch.Modules {
		wg.Add(1)
		go func(i int, m *model.Module) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			runs[i] = o.runModule(ctx, m)
		}(i, m)
	}
	wg.Wait()
	return runs
}

// runModule takes one module through resolve, analyze, validate, seed and
// execute, against its own private overlay.
func (o *Orchestrator) runModule(ctx context.Context, m *model.Module) *moduleRun {
	logger := ctxlog.FromContext(ctx).With("module", m.ID)
	ctx = ctxlog.WithLogger(ctx, logger)
	run := &moduleRun{module: m}

	spec, err := o.source.Resolve(ctx, m.ID)
	if err != nil {
		run.err = err
		return run
	}

	ectx := expr.NewContext(o.opts.ProjectName, o.opts.ProjectRoot, m.Parameters)
	analysis, err := analyzer.Analyze(ctx, spec.Blueprint, ectx)
	if err != nil {
		run.err = fmt.Errorf("analyzing blueprint: %w", err)
		return run
	}

	if v := analyzer.ValidateRequiredFiles(analysis, o.opts.ProjectRoot); !v.Valid {
		run.err = fmt.Errorf("required files missing before execution: %s",
			strings.Join(v.MissingFiles, ", "))
		return run
	}

	ov := overlay.New(o.opts.ProjectRoot)
	if err := ov.SeedFromDisk(ctx, analysis.AllRequiredFiles); err != nil {
		run.err = fmt.Errorf("seeding overlay: %w", err)
		return run
	}

	run.overlay = ov
	run.result = o.exec.ExecuteBlueprint(ctx, spec.Blueprint, analysis, ectx, ov)
	return run
}

// recordRunErrors copies a failed run's errors into the result under the
// given kind.
func (o *Orchestrator) recordRunErrors(result *model.ExecutionResult, run *moduleRun, kind model.ErrorKind) {
	if run.err != nil {
		result.AppendError(&model.ExecutionError{
			Kind:    kind,
			Module:  run.module.ID,
			Message: run.err.Error(),
		})
		return
	}
	for _, e := range run.result.Errors {
		copied := *e
		if kind == model.ErrKindCritical {
			copied.Kind = model.ErrKindCritical
		}
		result.AppendError(&copied)
	}
	result.Warnings = append(result.Warnings, run.result.Warnings...)
}
