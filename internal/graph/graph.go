package graph

import (
	"github.com/vk/modforge/internal/model"
)

// Node is a single vertex in the dependency graph.
type Node struct {
	Module *model.Module

	// Deps holds the nodes this module depends on (predecessors), keyed by
	// module id. It includes both explicit and category-implied dependencies.
	Deps map[string]*Node

	// Dependents holds the inverse edges (successors).
	Dependents map[string]*Node

	// InDegree and OutDegree are diagnostic snapshots taken at build time.
	// The planner works on its own copy of the unresolved-dependency counts,
	// so these never mutate after Build returns.
	InDegree  int
	OutDegree int
}

// Graph is the validated dependency graph for one run. It remembers the order
// modules were supplied in, which the planner uses as its deterministic
// tie-break.
type Graph struct {
	Nodes map[string]*Node
	order []string
}

// Ordered returns the nodes in input-list order.
func (g *Graph) Ordered() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.Nodes[id])
	}
	return out
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int { return len(g.Nodes) }
