package analyzer

import (
	"fmt"

	"github.com/vk/modforge/internal/expr"
	"github.com/vk/modforge/internal/model"
)

// ExpandActions turns a blueprint's raw action list into concrete actions:
// forEach actions become N copies with `each` bound during template
// resolution, and template placeholders in path, content, template, command,
// name and value fields are rendered against the execution context.
//
// Conditions are left verbatim; the executor evaluates them against the base
// context at dispatch time.
func ExpandActions(actions []model.Action, ctx *expr.Context) ([]model.Action, error) {
	var out []model.Action
	for i, action := range actions {
		if action.ForEach == "" {
			rendered, err := renderAction(action, ctx)
			if err != nil {
				return nil, fmt.Errorf("action %d (%s): %w", i, action.Type, err)
			}
			out = append(out, rendered)
			continue
		}

		elements, err := ctx.List(action.ForEach)
		if err != nil {
			return nil, fmt.Errorf("action %d (%s): %w", i, action.Type, err)
		}
		for _, elem := range elements {
			elemCtx := ctx.WithEach(elem)
			expanded := action
			expanded.ForEach = ""
			rendered, err := renderAction(expanded, elemCtx)
			if err != nil {
				return nil, fmt.Errorf("action %d (%s), forEach %q: %w", i, action.Type, action.ForEach, err)
			}
			out = append(out, rendered)
		}
	}
	return out, nil
}

// renderAction resolves the templated fields of one action.
func renderAction(action model.Action, ctx *expr.Context) (model.Action, error) {
	var err error
	if action.Path, err = expr.Render(action.Path, ctx); err != nil {
		return action, err
	}
	if action.Content, err = expr.Render(action.Content, ctx); err != nil {
		return action, err
	}
	if action.Template, err = expr.Render(action.Template, ctx); err != nil {
		return action, err
	}
	if action.Command, err = expr.Render(action.Command, ctx); err != nil {
		return action, err
	}
	if action.Name, err = expr.Render(action.Name, ctx); err != nil {
		return action, err
	}
	if action.Value, err = expr.Render(action.Value, ctx); err != nil {
		return action, err
	}
	return action, nil
}
