package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCycle marks a circular dependency anywhere in the module set. A
	// single cycle aborts the entire graph; there is no "safe" subgraph.
	ErrCycle = errors.New("dependency cycle detected")

	// ErrMissingDependency marks a module referencing an id that is not part
	// of the supplied module set.
	ErrMissingDependency = errors.New("missing dependency")
)

// Error wraps a graph validation failure with its sentinel kind so callers
// can branch with errors.Is while users still get the full detail.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

func missingDepError(moduleID, depID string) error {
	return &Error{Kind: ErrMissingDependency, Msg: fmt.Sprintf("%q requires %q", moduleID, depID)}
}

func cycleError(path []string) error {
	return &Error{Kind: ErrCycle, Msg: strings.Join(path, " -> ")}
}
