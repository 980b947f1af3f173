package graph

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/vk/modforge/internal/ctxlog"
	"github.com/vk/modforge/internal/model"
)

// Build constructs a complete, validated dependency graph from a module list.
func Build(ctx context.Context, modules []*model.Module) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.", "module_count", len(modules))

	graph := &Graph{Nodes: make(map[string]*Node, len(modules))}

	// First pass: create all nodes.
	for _, m := range modules {
		if _, exists := graph.Nodes[m.ID]; exists {
			logger.Warn("Duplicate module definition found, it will be overwritten.", "id", m.ID)
		} else {
			graph.order = append(graph.order, m.ID)
		}
		graph.Nodes[m.ID] = &Node{
			Module:     m,
			Deps:       make(map[string]*Node),
			Dependents: make(map[string]*Node),
		}
	}
	logger.Debug("Build: Node creation complete.", "node_count", len(graph.Nodes))

	// Second pass: link explicit and category-implied dependencies.
	if err := linkNodes(ctx, graph); err != nil {
		return nil, err
	}
	logger.Debug("Build: Node linking complete.")

	// Third pass: snapshot degree counters for diagnostics.
	for _, node := range graph.Nodes {
		node.InDegree = len(node.Dependents)
		node.OutDegree = len(node.Deps)
	}

	if err := graph.detectCycles(); err != nil {
		return nil, fmt.Errorf("error validating dependency graph: %w", err)
	}
	logger.Debug("Build: Cycle detection passed.")

	logger.Debug("Build: Graph construction successful.")
	return graph, nil
}

// linkNodes performs the second pass, establishing dependency links. Every
// missing reference is collected so a broken module set reports all of its
// problems in one go.
func linkNodes(ctx context.Context, g *Graph) error {
	logger := ctxlog.FromContext(ctx)

	framework := findFramework(g)
	if framework == nil {
		logger.Warn("No framework module in set, category-implied dependencies disabled.")
	}

	var linkErrs []error
	for _, node := range g.Ordered() {
		nodeLogger := logger.With("module_id", node.Module.ID)

		for _, depID := range node.Module.Dependencies {
			if depID == node.Module.ID {
				linkErrs = append(linkErrs, &Error{
					Kind: ErrCycle,
					Msg:  fmt.Sprintf("%q depends on itself", depID),
				})
				continue
			}
			depNode, ok := g.Nodes[depID]
			if !ok {
				nodeLogger.Error("Declared dependency does not exist in module set.", "dependency", depID)
				linkErrs = append(linkErrs, missingDepError(node.Module.ID, depID))
				continue
			}
			link(node, depNode)
			nodeLogger.Debug("Linked explicit dependency.", "dependency", depID)
		}

		// Every non-framework module implicitly depends on the framework
		// module once one is part of the batch set.
		if framework != nil && node.Module.Category != model.CategoryFramework && node != framework {
			if _, exists := node.Deps[framework.Module.ID]; !exists {
				link(node, framework)
				nodeLogger.Debug("Linked implicit framework dependency.", "dependency", framework.Module.ID)
			}
		}
	}

	return errors.Join(linkErrs...)
}

// link records that `node` depends on `dep`, with the inverse edge.
func link(node, dep *Node) {
	node.Deps[dep.Module.ID] = dep
	dep.Dependents[node.Module.ID] = node
}

// findFramework locates the framework module by category tag. If a genome
// somehow carries more than one, the first in input order wins.
func findFramework(g *Graph) *Node {
	for _, node := range g.Ordered() {
		if node.Module.Category == model.CategoryFramework {
			return node
		}
	}
	return nil
}

// detectCycles checks for circular dependencies using DFS with an explicit
// recursion stack, so the reported error carries the full cycle path.
func (g *Graph) detectCycles() error {
	visiting := make(map[string]bool)
	visited := make(map[string]bool)
	var stack []string

	var visit func(node *Node) error
	visit = func(node *Node) error {
		id := node.Module.ID
		visiting[id] = true
		stack = append(stack, id)

		for _, depID := range sortedKeys(node.Deps) {
			dep := node.Deps[depID]
			if visiting[dep.Module.ID] {
				// Close the loop for the error message: A -> B -> ... -> A.
				return cycleError(append(cyclePathFrom(stack, dep.Module.ID), dep.Module.ID))
			}
			if !visited[dep.Module.ID] {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		stack = stack[:len(stack)-1]
		delete(visiting, id)
		visited[id] = true
		return nil
	}

	for _, node := range g.Ordered() {
		if !visited[node.Module.ID] {
			if err := visit(node); err != nil {
				return err
			}
		}
	}
	return nil
}

// cyclePathFrom trims the recursion stack down to the segment that starts the
// cycle.
func cyclePathFrom(stack []string, start string) []string {
	for i, id := range stack {
		if id == start {
			out := make([]string, len(stack)-i)
			copy(out, stack[i:])
			return out
		}
	}
	out := make([]string, len(stack))
	copy(out, stack)
	return out
}

// sortedKeys keeps DFS traversal order stable so the same broken module set
// always reports the same cycle.
func sortedKeys(m map[string]*Node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
