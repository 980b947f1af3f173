package expr

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// EvalCondition parses and evaluates a condition expression to a boolean.
// An empty expression is vacuously true.
func EvalCondition(condition string, ctx *Context) (bool, error) {
	if strings.TrimSpace(condition) == "" {
		return true, nil
	}

	parsed, diags := hclsyntax.ParseExpression([]byte(condition), "condition", hcl.InitialPos)
	if diags.HasErrors() {
		return false, fmt.Errorf("parsing condition %q: %w", condition, diags)
	}

	val, diags := parsed.Value(ctx.EvalContext())
	if diags.HasErrors() {
		return false, fmt.Errorf("evaluating condition %q: %w", condition, diags)
	}

	converted, err := convert.Convert(val, cty.Bool)
	if err != nil {
		return false, fmt.Errorf("condition %q is not boolean: %w", condition, err)
	}
	if converted.IsNull() {
		return false, fmt.Errorf("condition %q evaluated to null", condition)
	}
	return converted.True(), nil
}

// Render resolves HCL template placeholders (`${...}`) in a raw string
// against the context. Strings without placeholders pass through unchanged.
func Render(raw string, ctx *Context) (string, error) {
	if !strings.Contains(raw, "${") {
		return raw, nil
	}

	parsed, diags := hclsyntax.ParseTemplate([]byte(raw), "template", hcl.InitialPos)
	if diags.HasErrors() {
		return "", fmt.Errorf("parsing template %q: %w", raw, diags)
	}

	val, diags := parsed.Value(ctx.EvalContext())
	if diags.HasErrors() {
		return "", fmt.Errorf("evaluating template %q: %w", raw, diags)
	}

	converted, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("template %q did not produce a string: %w", raw, err)
	}
	if converted.IsNull() {
		return "", fmt.Errorf("template %q evaluated to null", raw)
	}
	return converted.AsString(), nil
}
