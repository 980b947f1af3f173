package executor

import (
	"context"
	"time"

	"github.com/vk/modforge/internal/analyzer"
	"github.com/vk/modforge/internal/ctxlog"
	"github.com/vk/modforge/internal/expr"
	"github.com/vk/modforge/internal/model"
	"github.com/vk/modforge/internal/modifier"
	"github.com/vk/modforge/internal/overlay"
)

// Result is the outcome of executing one blueprint.
type Result struct {
	Success  bool
	Files    []string
	Errors   []*model.ExecutionError
	Warnings []string
}

// Executor dispatches blueprint actions to their handlers.
type Executor struct {
	registry         *Registry
	modifiers        *modifier.Registry
	scaffoldTimeout  time.Duration
	scaffoldExcludes []string
}

// New creates an executor with the built-in action handlers and modifiers.
// scaffoldTimeout bounds each scaffolding subprocess; zero means no bound.
func New(scaffoldTimeout time.Duration) *Executor {
	e := &Executor{
		modifiers:        modifier.NewRegistry(),
		scaffoldTimeout:  scaffoldTimeout,
		scaffoldExcludes: defaultScaffoldExcludes,
	}
	e.registry = NewRegistry(e)
	return e
}

// ExecuteBlueprint runs an analyzed blueprint against the given overlay in
// two phases: scaffolding commands first, everything else after. Action
// failures are collected rather than aborting, so the returned result can
// name every broken action; Success is false if anything failed.
func (e *Executor) ExecuteBlueprint(ctx context.Context, bp *model.Blueprint, analysis *analyzer.Analysis, ectx *expr.Context, ov *overlay.Overlay) *Result {
	logger := ctxlog.FromContext(ctx).With("blueprint", bp.ID)
	logger.Info("▶️ Executing blueprint", "actions", len(analysis.Actions))

	result := &Result{Success: true}
	st := &actionState{blueprint: bp, overlay: ov, ectx: ectx}

	// Phase 1: scaffolding commands against the real filesystem.
	scaffolded := false
	for i, action := range analysis.Actions {
		if action.Type != model.ActionRunCommand || !IsScaffoldCommand(action.Command) {
			continue
		}
		if skipped := e.checkCondition(ctx, action, st, result, i); skipped {
			continue
		}
		logger.Debug("Running scaffolding command.", "command", action.Command)
		if err := e.runScaffold(ctx, action.Command, ov.Root()); err != nil {
			e.recordFailure(ctx, result, bp, action, err)
			continue
		}
		scaffolded = true
	}

	// The generator wrote files the overlay has never seen; pull them in
	// before the enhancement phase.
	if scaffolded {
		if err := ov.ResyncFromDisk(ctx, e.scaffoldExcludes); err != nil {
			e.recordFailure(ctx, result, bp, model.Action{Type: model.ActionRunCommand}, err)
		}
	}

	// Phase 2: enhancement actions against the overlay.
	for i, action := range analysis.Actions {
		if action.Type == model.ActionRunCommand && IsScaffoldCommand(action.Command) {
			continue
		}
		if skipped := e.checkCondition(ctx, action, st, result, i); skipped {
			continue
		}

		handler, err := e.registry.Get(action.Type)
		if err != nil {
			e.recordFailure(ctx, result, bp, action, err)
			continue
		}
		logger.Debug("Dispatching action.", "index", i, "type", action.Type, "path", action.Path)
		if err := handler(ctx, action, st); err != nil {
			e.recordFailure(ctx, result, bp, action, err)
		}
	}

	for _, vf := range ov.Files() {
		if vf.State != overlay.StateRead {
			result.Files = append(result.Files, vf.Path)
		}
	}

	if result.Success {
		logger.Info("✅ Blueprint finished", "files_staged", len(result.Files))
	} else {
		logger.Error("Blueprint finished with errors.", "error_count", len(result.Errors))
	}
	return result
}

// checkCondition evaluates an action's condition. A false condition skips
// the action without error; a condition that fails to evaluate is an action
// error.
func (e *Executor) checkCondition(ctx context.Context, action model.Action, st *actionState, result *Result, index int) bool {
	if action.Condition == "" {
		return false
	}
	ok, err := expr.EvalCondition(action.Condition, st.ectx)
	if err != nil {
		e.recordFailure(ctx, result, st.blueprint, action, err)
		return true
	}
	if !ok {
		ctxlog.FromContext(ctx).Debug("Condition false, skipping action.",
			"index", index, "type", action.Type, "condition", action.Condition)
		return true
	}
	return false
}

func (e *Executor) recordFailure(ctx context.Context, result *Result, bp *model.Blueprint, action model.Action, err error) {
	ctxlog.FromContext(ctx).Error("Action failed.", "type", action.Type, "path", action.Path, "error", err)
	result.Success = false
	result.Errors = append(result.Errors, &model.ExecutionError{
		Kind:    model.ErrKindAction,
		Module:  bp.ID,
		Action:  action.Type,
		Path:    action.Path,
		Message: err.Error(),
	})
}
