package executor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vk/modforge/internal/expr"
	"github.com/vk/modforge/internal/model"
	"github.com/vk/modforge/internal/overlay"
)

// actionState is the per-blueprint state a handler operates on.
type actionState struct {
	blueprint *model.Blueprint
	overlay   *overlay.Overlay
	ectx      *expr.Context
}

// HandlerFunc executes one concrete (already expanded and rendered) action.
type HandlerFunc func(ctx context.Context, action model.Action, st *actionState) error

// Registry maps action-type tags to their handlers. Registering a handler
// for a new tag is how the action vocabulary is extended without growing a
// switch statement.
type Registry struct {
	handlers map[model.ActionType]HandlerFunc
}

// NewRegistry returns a registry pre-populated with handlers for the closed
// action set.
func NewRegistry(e *Executor) *Registry {
	r := &Registry{handlers: make(map[model.ActionType]HandlerFunc)}
	r.Register(model.ActionCreateFile, e.handleCreateFile)
	r.Register(model.ActionEnhanceFile, e.handleEnhanceFile)
	r.Register(model.ActionRunCommand, e.handleRunCommand)
	r.Register(model.ActionInstallPackages, e.handleInstallPackages)
	r.Register(model.ActionAddScript, e.handleAddScript)
	r.Register(model.ActionAddEnvVar, e.handleAddEnvVar)
	r.Register(model.ActionMergeJSON, e.handleMergeJSON)
	r.Register(model.ActionAppendToFile, e.handleAppendToFile)
	r.Register(model.ActionPrependToFile, e.handlePrependToFile)
	r.Register(model.ActionAddTSImport, e.handleAddTSImport)
	r.Register(model.ActionExtendSchema, e.handleExtendSchema)
	r.Register(model.ActionWrapConfig, e.handleWrapConfig)
	return r
}

// Register adds a handler for an action type. Registering a duplicate tag is
// a programmer error.
func (r *Registry) Register(t model.ActionType, fn HandlerFunc) {
	if _, exists := r.handlers[t]; exists {
		panic(fmt.Sprintf("action handler for '%s' already registered", t))
	}
	slog.Debug("Registering action handler.", "type", t)
	r.handlers[t] = fn
}

// Get looks up the handler for an action type.
func (r *Registry) Get(t model.ActionType) (HandlerFunc, error) {
	fn, ok := r.handlers[t]
	if !ok {
		return nil, fmt.Errorf("no handler registered for action type %q", t)
	}
	return fn, nil
}
