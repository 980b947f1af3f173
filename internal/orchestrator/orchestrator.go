package orchestrator

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/vk/modforge/internal/ctxlog"
	"github.com/vk/modforge/internal/executor"
	"github.com/vk/modforge/internal/graph"
	"github.com/vk/modforge/internal/marketplace"
	"github.com/vk/modforge/internal/model"
	"github.com/vk/modforge/internal/planner"
)

// Options configures one orchestrator instance. It is constructed once at
// process start and passed by reference; there is no package-level mutable
// state.
type Options struct {
	ProjectName string
	ProjectRoot string

	// WorkerCount bounds concurrent module execution within a batch.
	WorkerCount int

	// ScaffoldTimeout bounds each scaffolding subprocess.
	ScaffoldTimeout time.Duration

	// RollbackOnFailure removes every file this run flushed when the run
	// fails. Off by default: a partially generated project is often more
	// useful for diagnosis than an empty directory.
	RollbackOnFailure bool

	// InstallCommand, when set, runs once in the project root after all
	// batches succeed (the dependency-installation step). A failed run never
	// reaches it.
	InstallCommand string
}

// Orchestrator executes a module set against a project root.
type Orchestrator struct {
	source marketplace.Source
	exec   *executor.Executor
	opts   Options
}

// New creates an orchestrator over the given module source.
func New(source marketplace.Source, opts Options) *Orchestrator {
	if opts.WorkerCount <= 0 {
		opts.WorkerCount = 4
	}
	return &Orchestrator{
		source: source,
		exec:   executor.New(opts.ScaffoldTimeout),
		opts:   opts,
	}
}

// Execute runs the whole pipeline for the given module list and returns the
// structured result. The result's trace id tags every log line of the run.
func (o *Orchestrator) Execute(ctx context.Context, modules []*model.Module) *model.ExecutionResult {
	traceID := uuid.NewString()
	logger := ctxlog.FromContext(ctx).With("trace_id", traceID)
	ctx = ctxlog.WithLogger(ctx, logger)

	result := &model.ExecutionResult{Success: true, TraceID: traceID}
	logger.Info("🚀 Starting generation run", "modules", len(modules), "project", o.opts.ProjectName)

	// A fresh project starts from an empty root; scaffolding commands and the
	// overlay flush both need the directory to exist.
	if err := os.MkdirAll(o.opts.ProjectRoot, 0o755); err != nil {
		result.AppendError(&model.ExecutionError{
			Kind:    model.ErrKindModule,
			Message: fmt.Sprintf("creating project root: %v", err),
		})
		return result
	}

	g, err := graph.Build(ctx, modules)
	if err != nil {
		result.AppendError(&model.ExecutionError{Kind: model.ErrKindGraph, Message: err.Error()})
		return result
	}

	plan, err := planner.CreatePlan(ctx, g)
	if err != nil {
		result.AppendError(&model.ExecutionError{Kind: model.ErrKindPlanning, Message: err.Error()})
		return result
	}
	logger.Info("Execution plan computed.", "batches", plan.TotalBatches)

	tracker := newRollbackTracker(o.opts.ProjectRoot)
	for _, batch := range plan.Batches {
		if !o.executeBatch(ctx, batch, result, tracker) {
			o.maybeRollback(ctx, tracker)
			return result
		}
	}

	if o.opts.InstallCommand != "" {
		logger.Info("Running dependency installation.", "command", o.opts.InstallCommand)
		if err := o.exec.RunShell(ctx, o.opts.InstallCommand, o.opts.ProjectRoot); err != nil {
			result.AppendError(&model.ExecutionError{
				Kind:    model.ErrKindModule,
				Message: fmt.Sprintf("dependency installation failed: %v", err),
			})
			o.maybeRollback(ctx, tracker)
			return result
		}
	}

	logger.Info("🏁 Generation run finished", "modules_executed", result.ModulesExecuted)
	return result
}

func (o *Orchestrator) maybeRollback(ctx context.Context, tracker *rollbackTracker) {
	if !o.opts.RollbackOnFailure {
		return
	}
	if err := tracker.rollback(ctx); err != nil {
		ctxlog.FromContext(ctx).Error("Rollback incomplete.", "error", err)
	}
}
