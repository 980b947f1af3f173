// Package analyzer performs the static pre-pass over a module's blueprint.
//
// Without executing anything, it expands forEach actions into concrete ones,
// resolves template placeholders in paths, and classifies every action by the
// file access it implies. The result tells the orchestrator which paths to
// seed into the module's overlay and which files must already exist on disk
// before execution may start.
package analyzer
