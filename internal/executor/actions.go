package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vk/modforge/internal/model"
	"github.com/vk/modforge/internal/modifier"
)

// resolveContent picks an action's payload: inline content wins, otherwise
// the named template from the blueprint's template set.
func resolveContent(action model.Action, st *actionState) (string, error) {
	if action.Content != "" {
		return action.Content, nil
	}
	if action.Template == "" {
		return "", fmt.Errorf("action requires content or template")
	}
	tmpl, ok := st.blueprint.Templates[action.Template]
	if !ok {
		return "", fmt.Errorf("template %q not found in blueprint %q", action.Template, st.blueprint.ID)
	}
	return tmpl, nil
}

func (e *Executor) handleCreateFile(_ context.Context, action model.Action, st *actionState) error {
	if action.Path == "" {
		return fmt.Errorf("CREATE_FILE requires a path")
	}
	content, err := resolveContent(action, st)
	if err != nil {
		return err
	}
	return st.overlay.CreateFile(action.Path, []byte(content))
}

func (e *Executor) handleEnhanceFile(_ context.Context, action model.Action, st *actionState) error {
	if action.Path == "" {
		return fmt.Errorf("ENHANCE_FILE requires a path")
	}
	content, err := resolveContent(action, st)
	if err != nil {
		return err
	}
	if !st.overlay.FileExists(action.Path) {
		if action.Fallback == model.FallbackCreate {
			return st.overlay.CreateFile(action.Path, []byte(content))
		}
		return fmt.Errorf("ENHANCE_FILE target %q is not staged and no fallback is set", action.Path)
	}
	return st.overlay.WriteFile(action.Path, []byte(content))
}

func (e *Executor) handleRunCommand(ctx context.Context, action model.Action, st *actionState) error {
	if action.Command == "" {
		return fmt.Errorf("RUN_COMMAND requires a command")
	}
	// Scaffolding commands were consumed by phase one; anything reaching
	// this handler is an ordinary project-local command.
	return e.runCommand(ctx, action.Command, st.overlay.Root())
}

func (e *Executor) handleInstallPackages(_ context.Context, action model.Action, st *actionState) error {
	if len(action.Packages) == 0 {
		return fmt.Errorf("INSTALL_PACKAGES requires a non-empty package list")
	}
	return e.applyModifier(st, packageManifestPath, modifier.PackageDependencies, modifier.Params{
		Packages: action.Packages,
	}, true)
}

func (e *Executor) handleAddScript(_ context.Context, action model.Action, st *actionState) error {
	if action.Name == "" {
		return fmt.Errorf("ADD_SCRIPT requires a script name")
	}
	return e.applyModifier(st, packageManifestPath, modifier.PackageScripts, modifier.Params{
		Key:   action.Name,
		Value: action.Value,
	}, true)
}

func (e *Executor) handleAddEnvVar(_ context.Context, action model.Action, st *actionState) error {
	if action.Name == "" {
		return fmt.Errorf("ADD_ENV_VAR requires a variable name")
	}
	return e.applyModifier(st, envFilePath, modifier.EnvFile, modifier.Params{
		Key:   action.Name,
		Value: action.Value,
	}, true)
}

func (e *Executor) handleMergeJSON(_ context.Context, action model.Action, st *actionState) error {
	if action.Path == "" {
		return fmt.Errorf("MERGE_JSON requires a path")
	}
	content, err := resolveContent(action, st)
	if err != nil {
		return err
	}
	var patch map[string]any
	if err := json.Unmarshal([]byte(content), &patch); err != nil {
		return fmt.Errorf("MERGE_JSON patch is not a JSON object: %w", err)
	}
	return e.applyModifier(st, action.Path, modifier.JSONMerge, modifier.Params{
		Merge: patch,
	}, action.Fallback == model.FallbackCreate)
}

func (e *Executor) handleWrapConfig(_ context.Context, action model.Action, st *actionState) error {
	if action.Path == "" {
		return fmt.Errorf("WRAP_CONFIG requires a path")
	}
	if action.Name == "" {
		return fmt.Errorf("WRAP_CONFIG requires a wrapper key")
	}
	params := modifier.Params{Wrapper: action.Name}
	if action.Content != "" {
		var extra map[string]any
		if err := json.Unmarshal([]byte(action.Content), &extra); err != nil {
			return fmt.Errorf("WRAP_CONFIG extra content is not a JSON object: %w", err)
		}
		params.Merge = extra
	}
	return e.applyModifier(st, action.Path, modifier.JSONWrap, params, false)
}

func (e *Executor) handleAppendToFile(_ context.Context, action model.Action, st *actionState) error {
	return e.editText(action, st, func(current, content string) string {
		if current != "" && !strings.HasSuffix(current, "\n") {
			current += "\n"
		}
		return current + content
	})
}

func (e *Executor) handlePrependToFile(_ context.Context, action model.Action, st *actionState) error {
	return e.editText(action, st, func(current, content string) string {
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		return content + current
	})
}

// handleAddTSImport inserts an import line after the last existing import.
// This is a line-oriented edit, not an AST transform; structural editing of
// JS/TS sources is out of scope.
func (e *Executor) handleAddTSImport(_ context.Context, action model.Action, st *actionState) error {
	if action.Path == "" {
		return fmt.Errorf("ADD_TS_IMPORT requires a path")
	}
	importLine := strings.TrimSpace(action.Content)
	if importLine == "" {
		return fmt.Errorf("ADD_TS_IMPORT requires the import statement as content")
	}

	raw, err := st.overlay.ReadFile(action.Path)
	if err != nil {
		return err
	}
	current := string(raw)
	if strings.Contains(current, importLine) {
		return nil // Already imported.
	}

	lines := strings.Split(current, "\n")
	insertAt := 0
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "import ") {
			insertAt = i + 1
		}
	}
	lines = append(lines[:insertAt], append([]string{importLine}, lines[insertAt:]...)...)
	return st.overlay.WriteFile(action.Path, []byte(strings.Join(lines, "\n")))
}

// handleExtendSchema appends a schema block unless an identical block is
// already present, keeping repeated runs stable.
func (e *Executor) handleExtendSchema(_ context.Context, action model.Action, st *actionState) error {
	if action.Path == "" {
		return fmt.Errorf("EXTEND_SCHEMA requires a path")
	}
	block, err := resolveContent(action, st)
	if err != nil {
		return err
	}

	raw, readErr := st.overlay.ReadFile(action.Path)
	if readErr != nil {
		return readErr
	}
	current := string(raw)
	if strings.Contains(current, strings.TrimSpace(block)) {
		return nil
	}
	if current != "" && !strings.HasSuffix(current, "\n") {
		current += "\n"
	}
	return st.overlay.WriteFile(action.Path, []byte(current+"\n"+strings.TrimSpace(block)+"\n"))
}

// editText is the shared body of the append/prepend handlers.
func (e *Executor) editText(action model.Action, st *actionState, edit func(current, content string) string) error {
	if action.Path == "" {
		return fmt.Errorf("%s requires a path", action.Type)
	}
	content, err := resolveContent(action, st)
	if err != nil {
		return err
	}
	if !st.overlay.FileExists(action.Path) {
		if action.Fallback == model.FallbackCreate {
			return st.overlay.CreateFile(action.Path, []byte(edit("", content)))
		}
		return fmt.Errorf("%s target %q is not staged", action.Type, action.Path)
	}
	raw, err := st.overlay.ReadFile(action.Path)
	if err != nil {
		return err
	}
	return st.overlay.WriteFile(action.Path, []byte(edit(string(raw), content)))
}

// applyModifier reads a staged file, routes it through a named modifier, and
// writes the result back. createIfMissing stages an empty file first when
// the target is absent, for manifests a fresh project may not have yet.
func (e *Executor) applyModifier(st *actionState, path, name string, params modifier.Params, createIfMissing bool) error {
	fn, err := e.modifiers.Get(name)
	if err != nil {
		return err
	}
	if !st.overlay.FileExists(path) {
		if !createIfMissing {
			return fmt.Errorf("modifier target %q is not staged", path)
		}
		if err := st.overlay.CreateFile(path, nil); err != nil {
			return err
		}
	}
	current, err := st.overlay.ReadFile(path)
	if err != nil {
		return err
	}
	next, err := fn(current, params)
	if err != nil {
		return fmt.Errorf("modifier %s on %q: %w", name, path, err)
	}
	return st.overlay.WriteFile(path, next)
}

const (
	packageManifestPath = "package.json"
	envFilePath         = ".env"
)
