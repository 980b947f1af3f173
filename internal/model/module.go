package model

import (
	"github.com/zclconf/go-cty/cty"
)

// Category classifies a module within a genome. The category drives implicit
// dependency resolution: every non-framework module depends on the framework
// module of its run, discovered by category rather than by name.
type Category string

const (
	CategoryFramework      Category = "framework"
	CategoryDatabase       Category = "database"
	CategoryORM            Category = "orm"
	CategoryUI             Category = "ui"
	CategoryAuth           Category = "auth"
	CategoryTesting        Category = "testing"
	CategoryTooling        Category = "tooling"
	CategoryDeployment     Category = "deployment"
	CategoryObservability  Category = "observability"
	CategoryInfrastructure Category = "infrastructure"
)

// IsCritical reports whether a failure in a module of this category must
// abort the whole run immediately, skipping every later step including the
// final dependency install.
func (c Category) IsCritical() bool {
	return c == CategoryFramework || c == CategoryDatabase
}

// Module is a single unit of generated functionality selected by a genome.
// Identity is the ID, unique within a run. Dependencies holds only the
// explicitly declared prerequisites; implicit category dependencies are
// resolved during graph construction.
type Module struct {
	ID           string
	Category     Category
	Dependencies []string
	Parameters   map[string]cty.Value
}

// ModuleSpec is the resolved pair a marketplace source returns for a module
// id: its configuration and the blueprint it executes.
type ModuleSpec struct {
	Config    *Module
	Blueprint *Blueprint
}
