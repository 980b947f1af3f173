package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/modforge/internal/ctxlog"
	"github.com/vk/modforge/internal/model"
)

// moduleManifestRoot decodes the top-level blocks of a module manifest.
type moduleManifestRoot struct {
	Module          *manifestModuleBlock `hcl:"module,block"`
	ContextualFiles []string             `hcl:"contextual_files,optional"`
	Actions         []*actionBlock       `hcl:"action,block"`
}

type manifestModuleBlock struct {
	ID        string   `hcl:"id"`
	Name      string   `hcl:"name,optional"`
	Category  string   `hcl:"category"`
	DependsOn []string `hcl:"depends_on,optional"`
}

type actionBlock struct {
	Type      string   `hcl:"type,label"`
	Path      string   `hcl:"path,optional"`
	Content   string   `hcl:"content,optional"`
	Template  string   `hcl:"template,optional"`
	Command   string   `hcl:"command,optional"`
	Packages  []string `hcl:"packages,optional"`
	Name      string   `hcl:"name,optional"`
	Value     string   `hcl:"value,optional"`
	Condition string   `hcl:"condition,optional"`
	ForEach   string   `hcl:"for_each,optional"`
	Fallback  string   `hcl:"fallback,optional"`
}

// LoadModuleSpec parses one module manifest into its config + blueprint pair.
func LoadModuleSpec(ctx context.Context, path string) (*model.ModuleSpec, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading module manifest.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, diags)
	}

	var root moduleManifestRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("decoding manifest %s: %w", path, diags)
	}
	if root.Module == nil {
		return nil, fmt.Errorf("manifest %s is missing a module block", path)
	}
	if root.Module.ID == "" {
		return nil, fmt.Errorf("manifest %s: module id is required", path)
	}

	bp := &model.Blueprint{
		ID:              root.Module.ID,
		Name:            root.Module.Name,
		ContextualFiles: root.ContextualFiles,
	}
	for i, ab := range root.Actions {
		action, err := ab.toModel()
		if err != nil {
			return nil, fmt.Errorf("manifest %s: action %d: %w", path, i, err)
		}
		bp.Actions = append(bp.Actions, action)
	}

	spec := &model.ModuleSpec{
		Config: &model.Module{
			ID:           root.Module.ID,
			Category:     model.Category(root.Module.Category),
			Dependencies: root.Module.DependsOn,
		},
		Blueprint: bp,
	}
	logger.Debug("Module manifest loaded.", "id", spec.Config.ID, "actions", len(bp.Actions))
	return spec, nil
}

func (ab *actionBlock) toModel() (model.Action, error) {
	actionType, err := model.ParseActionType(ab.Type)
	if err != nil {
		return model.Action{}, err
	}
	return model.Action{
		Type:      actionType,
		Path:      ab.Path,
		Content:   ab.Content,
		Template:  ab.Template,
		Command:   ab.Command,
		Packages:  ab.Packages,
		Name:      ab.Name,
		Value:     ab.Value,
		Condition: ab.Condition,
		ForEach:   ab.ForEach,
		Fallback:  ab.Fallback,
	}, nil
}
