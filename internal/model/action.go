package model

import "fmt"

// ActionType is the wire-format tag of a blueprint action. The set is closed:
// external blueprint authors depend on these exact tokens and semantics.
type ActionType string

const (
	ActionCreateFile      ActionType = "CREATE_FILE"
	ActionEnhanceFile     ActionType = "ENHANCE_FILE"
	ActionRunCommand      ActionType = "RUN_COMMAND"
	ActionInstallPackages ActionType = "INSTALL_PACKAGES"
	ActionAddScript       ActionType = "ADD_SCRIPT"
	ActionAddEnvVar       ActionType = "ADD_ENV_VAR"
	ActionMergeJSON       ActionType = "MERGE_JSON"
	ActionAppendToFile    ActionType = "APPEND_TO_FILE"
	ActionPrependToFile   ActionType = "PREPEND_TO_FILE"
	ActionAddTSImport     ActionType = "ADD_TS_IMPORT"
	ActionExtendSchema    ActionType = "EXTEND_SCHEMA"
	ActionWrapConfig      ActionType = "WRAP_CONFIG"

	// ActionAddDependency is an accepted alias for INSTALL_PACKAGES kept for
	// older blueprint manifests.
	ActionAddDependency ActionType = "ADD_DEPENDENCY"
)

// FallbackCreate is the only recognized fallback mode: an ENHANCE_FILE whose
// target does not exist is turned into a create instead of failing.
const FallbackCreate = "create"

// ParseActionType validates a raw manifest tag against the closed action set.
func ParseActionType(raw string) (ActionType, error) {
	switch t := ActionType(raw); t {
	case ActionCreateFile, ActionEnhanceFile, ActionRunCommand,
		ActionInstallPackages, ActionAddScript, ActionAddEnvVar,
		ActionMergeJSON, ActionAppendToFile, ActionPrependToFile,
		ActionAddTSImport, ActionExtendSchema, ActionWrapConfig:
		return t, nil
	case ActionAddDependency:
		return ActionInstallPackages, nil
	default:
		return "", fmt.Errorf("unknown action type %q", raw)
	}
}

// Action is one declarative or imperative step of a blueprint. Which fields
// are meaningful depends on Type; the executor validates per-action
// requirements at dispatch time.
type Action struct {
	Type ActionType

	// Path and Content/Template drive file-touching actions. Path, Content,
	// Template and Command may contain HCL template placeholders resolved
	// against the execution context.
	Path     string
	Content  string
	Template string

	// Command is the shell command for RUN_COMMAND.
	Command string

	// Packages is the package list for INSTALL_PACKAGES, as "name" or
	// "name@version" entries.
	Packages []string

	// Name and Value carry key/value payloads for ADD_SCRIPT and ADD_ENV_VAR.
	Name  string
	Value string

	// Condition is an optional HCL expression; when it evaluates to false
	// against the execution context the action is skipped without error.
	Condition string

	// ForEach names a list variable in the execution context. The action is
	// expanded into one concrete action per element, with `each` bound during
	// template resolution.
	ForEach string

	// Fallback softens ENHANCE_FILE when set to FallbackCreate.
	Fallback string
}

// Blueprint is the ordered action list a module executes, plus the file paths
// the module needs as read-only context even when no action touches them.
type Blueprint struct {
	ID              string
	Name            string
	Actions         []Action
	ContextualFiles []string

	// Templates maps template names referenced by actions to their raw
	// content. The marketplace source populates this from the module's
	// template files; the executor resolves Action.Template against it.
	Templates map[string]string
}
