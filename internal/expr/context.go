package expr

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Context carries the variables visible to blueprint expressions: project
// metadata, the module's parameters, and any orchestrator-provided values.
type Context struct {
	ProjectName string
	ProjectRoot string
	Variables   map[string]cty.Value
}

// NewContext builds an execution context for one module run.
func NewContext(projectName, projectRoot string, params map[string]cty.Value) *Context {
	vars := make(map[string]cty.Value, len(params))
	for k, v := range params {
		vars[k] = v
	}
	return &Context{
		ProjectName: projectName,
		ProjectRoot: projectRoot,
		Variables:   vars,
	}
}

// WithEach returns a copy of the context with `each` bound to the given
// element. Used while expanding forEach actions.
func (c *Context) WithEach(element cty.Value) *Context {
	vars := make(map[string]cty.Value, len(c.Variables)+1)
	for k, v := range c.Variables {
		vars[k] = v
	}
	vars["each"] = element
	return &Context{
		ProjectName: c.ProjectName,
		ProjectRoot: c.ProjectRoot,
		Variables:   vars,
	}
}

// List resolves a named context variable as a list of elements for forEach
// expansion. Tuples and lists are both accepted.
func (c *Context) List(name string) ([]cty.Value, error) {
	val, ok := c.Variables[name]
	if !ok {
		return nil, fmt.Errorf("forEach variable %q not present in execution context", name)
	}
	if val.IsNull() {
		return nil, fmt.Errorf("forEach variable %q is null", name)
	}
	ty := val.Type()
	if !ty.IsListType() && !ty.IsTupleType() && !ty.IsSetType() {
		return nil, fmt.Errorf("forEach variable %q is %s, want a list", name, ty.FriendlyName())
	}
	var out []cty.Value
	for it := val.ElementIterator(); it.Next(); {
		_, v := it.Element()
		out = append(out, v)
	}
	return out, nil
}

// EvalContext materializes the hcl.EvalContext blueprint expressions are
// evaluated against. The project block is exposed as `project.name` and
// `project.root`; everything else is a flat variable.
func (c *Context) EvalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(c.Variables)+1)
	for k, v := range c.Variables {
		vars[k] = v
	}
	vars["project"] = cty.ObjectVal(map[string]cty.Value{
		"name": cty.StringVal(c.ProjectName),
		"root": cty.StringVal(c.ProjectRoot),
	})
	return &hcl.EvalContext{Variables: vars}
}
