package modifier

import (
	"fmt"
	"log/slog"
)

// Params carries the inputs a modifier may consume. Which fields matter
// depends on the modifier.
type Params struct {
	// Packages lists "name" or "name@version" entries for the dependency
	// modifier.
	Packages []string
	// Dev routes packages into devDependencies instead of dependencies.
	Dev bool

	// Key and Value carry single-pair payloads (scripts, env vars).
	Key   string
	Value string

	// Merge is an arbitrary JSON object for the deep-merge modifier.
	Merge map[string]any

	// Wrapper names the key the existing document is nested under for the
	// config-wrap modifier.
	Wrapper string
}

// Func is a single modifier implementation: current content in, new content
// out, no side effects.
type Func func(current []byte, params Params) ([]byte, error)

// Registry maps modifier names to implementations.
type Registry struct {
	modifiers map[string]Func
}

// Built-in modifier names.
const (
	PackageDependencies = "package-dependencies"
	PackageScripts      = "package-scripts"
	JSONMerge           = "json-merge"
	JSONWrap            = "json-wrap"
	EnvFile             = "env-file"
)

// NewRegistry returns a registry pre-populated with the built-in modifiers.
func NewRegistry() *Registry {
	r := &Registry{modifiers: make(map[string]Func)}
	r.Register(PackageDependencies, MergeDependencies)
	r.Register(PackageScripts, MergeScripts)
	r.Register(JSONMerge, DeepMergeJSON)
	r.Register(JSONWrap, WrapJSON)
	r.Register(EnvFile, MergeEnvFile)
	return r
}

// Register adds a named modifier. Registering a duplicate name is a
// programmer error.
func (r *Registry) Register(name string, fn Func) {
	if _, exists := r.modifiers[name]; exists {
		panic(fmt.Sprintf("modifier with name '%s' already registered", name))
	}
	slog.Debug("Registering modifier.", "name", name)
	r.modifiers[name] = fn
}

// Get looks up a modifier by name.
func (r *Registry) Get(name string) (Func, error) {
	fn, ok := r.modifiers[name]
	if !ok {
		return nil, fmt.Errorf("modifier %q not registered", name)
	}
	return fn, nil
}
