package analyzer

import (
	"context"
	"sort"

	"github.com/vk/modforge/internal/ctxlog"
	"github.com/vk/modforge/internal/expr"
	"github.com/vk/modforge/internal/model"
)

// packageManifest is the path implied by package-level actions.
const packageManifest = "package.json"

// Analysis is the computed file footprint of one blueprint.
type Analysis struct {
	// FilesToRead are paths the blueprint mutates in place and therefore
	// needs seeded from disk.
	FilesToRead []string

	// FilesToCreate are paths the blueprint creates from scratch.
	FilesToCreate []string

	// ContextualFiles are the blueprint's declared read-only context paths.
	ContextualFiles []string

	// AllRequiredFiles is the de-duplicated union of FilesToRead and
	// ContextualFiles. Every entry must exist on disk before execution
	// unless the same blueprint creates it.
	AllRequiredFiles []string

	// Actions is the expanded, template-resolved action list the analysis
	// was computed over. The executor runs exactly this list, so analysis
	// and execution cannot drift.
	Actions []model.Action
}

// Analyze expands and classifies a blueprint's actions.
func Analyze(ctx context.Context, bp *model.Blueprint, ectx *expr.Context) (*Analysis, error) {
	logger := ctxlog.FromContext(ctx)

	actions, err := ExpandActions(bp.Actions, ectx)
	if err != nil {
		return nil, err
	}

	reads := make(map[string]struct{})
	creates := make(map[string]struct{})

	for _, action := range actions {
		switch action.Type {
		case model.ActionCreateFile:
			creates[action.Path] = struct{}{}
		case model.ActionEnhanceFile:
			if action.Fallback == model.FallbackCreate {
				creates[action.Path] = struct{}{}
			} else {
				reads[action.Path] = struct{}{}
			}
		case model.ActionMergeJSON, model.ActionWrapConfig,
			model.ActionAppendToFile, model.ActionPrependToFile,
			model.ActionAddTSImport, model.ActionExtendSchema:
			reads[action.Path] = struct{}{}
		case model.ActionInstallPackages, model.ActionAddScript:
			reads[packageManifest] = struct{}{}
		case model.ActionRunCommand, model.ActionAddEnvVar:
			// No file access implied.
		}
	}

	required := make(map[string]struct{}, len(reads)+len(bp.ContextualFiles))
	for p := range reads {
		required[p] = struct{}{}
	}
	for _, p := range bp.ContextualFiles {
		required[p] = struct{}{}
	}

	analysis := &Analysis{
		FilesToRead:      sortedSet(reads),
		FilesToCreate:    sortedSet(creates),
		ContextualFiles:  append([]string(nil), bp.ContextualFiles...),
		AllRequiredFiles: sortedSet(required),
		Actions:          actions,
	}

	logger.Debug("Blueprint analyzed.",
		"blueprint", bp.ID,
		"actions", len(actions),
		"reads", len(analysis.FilesToRead),
		"creates", len(analysis.FilesToCreate),
	)
	return analysis, nil
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for p := range set {
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
