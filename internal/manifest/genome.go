package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/modforge/internal/ctxlog"
	"github.com/vk/modforge/internal/model"
	"github.com/zclconf/go-cty/cty"
)

// Genome is a parsed genome file: project settings plus the selected module
// list in file order.
type Genome struct {
	ProjectName string
	ProjectRoot string
	Modules     []*model.Module
}

// genomeRoot decodes the top-level blocks of a genome file.
type genomeRoot struct {
	Project *projectBlock  `hcl:"project,block"`
	Modules []*moduleBlock `hcl:"module,block"`
}

type projectBlock struct {
	Name string `hcl:"name"`
	Root string `hcl:"root,optional"`
}

type moduleBlock struct {
	ID         string   `hcl:"id,label"`
	Category   string   `hcl:"category"`
	DependsOn  []string `hcl:"depends_on,optional"`
	Parameters hcl.Body `hcl:",remain"`
}

// LoadGenome parses a genome file into project settings and modules.
func LoadGenome(ctx context.Context, path string) (*Genome, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading genome file.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing genome %s: %w", path, diags)
	}

	var root genomeRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("decoding genome %s: %w", path, diags)
	}
	if root.Project == nil {
		return nil, fmt.Errorf("genome %s is missing a project block", path)
	}
	if root.Project.Name == "" {
		return nil, fmt.Errorf("genome %s: project name is required", path)
	}

	genome := &Genome{
		ProjectName: root.Project.Name,
		ProjectRoot: root.Project.Root,
	}
	if genome.ProjectRoot == "" {
		genome.ProjectRoot = root.Project.Name
	}

	for _, mb := range root.Modules {
		mod, err := mb.toModel()
		if err != nil {
			return nil, fmt.Errorf("genome %s: %w", path, err)
		}
		genome.Modules = append(genome.Modules, mod)
	}

	logger.Debug("Genome loaded.", "project", genome.ProjectName, "modules", len(genome.Modules))
	return genome, nil
}

func (mb *moduleBlock) toModel() (*model.Module, error) {
	params, err := decodeParameters(mb.Parameters)
	if err != nil {
		return nil, fmt.Errorf("module %q: %w", mb.ID, err)
	}
	return &model.Module{
		ID:           mb.ID,
		Category:     model.Category(mb.Category),
		Dependencies: mb.DependsOn,
		Parameters:   params,
	}, nil
}

// decodeParameters statically evaluates the remaining attributes of a module
// block into cty values. Genome parameters are plain literals; expressions
// referencing other modules are not part of the format.
func decodeParameters(body hcl.Body) (map[string]cty.Value, error) {
	if body == nil {
		return nil, nil
	}
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("reading parameters: %w", diags)
	}
	if len(attrs) == 0 {
		return nil, nil
	}
	params := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("evaluating parameter %q: %w", name, diags)
		}
		params[name] = val
	}
	return params, nil
}
