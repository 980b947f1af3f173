package model

import "fmt"

// ErrorKind identifies where in the pipeline an execution error originated.
type ErrorKind string

const (
	ErrKindGraph    ErrorKind = "graph"
	ErrKindPlanning ErrorKind = "planning"
	ErrKindConflict ErrorKind = "conflict"
	ErrKindAction   ErrorKind = "action"
	ErrKindModule   ErrorKind = "module"
	ErrKindCritical ErrorKind = "critical_module"
)

// ExecutionError is the structured error record surfaced to callers. There is
// no separate error-code channel, so the record must be enough to identify
// the failing module and the specific action, path or cycle involved.
type ExecutionError struct {
	Kind    ErrorKind
	Module  string
	Action  ActionType
	Path    string
	Message string
}

func (e *ExecutionError) Error() string {
	switch {
	case e.Module != "" && e.Action != "":
		return fmt.Sprintf("%s: module %q, action %s: %s", e.Kind, e.Module, e.Action, e.Message)
	case e.Module != "":
		return fmt.Sprintf("%s: module %q: %s", e.Kind, e.Module, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

// ExecutionResult is returned to the invoking CLI layer after a run.
type ExecutionResult struct {
	Success         bool
	ModulesExecuted int
	TraceID         string
	Errors          []*ExecutionError
	Warnings        []string
}

// AppendError records a structured error and marks the result failed.
func (r *ExecutionResult) AppendError(err *ExecutionError) {
	r.Success = false
	r.Errors = append(r.Errors, err)
}
