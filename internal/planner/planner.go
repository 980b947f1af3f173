package planner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/vk/modforge/internal/ctxlog"
	"github.com/vk/modforge/internal/graph"
	"github.com/vk/modforge/internal/model"
)

// ErrStuck marks a topological sort that found no eligible node while nodes
// remain. Graph construction already rejects cycles, so hitting this is an
// internal invariant violation, not a user configuration error.
var ErrStuck = errors.New("planning stuck: no eligible modules remain")

// Batch is one rung of the plan: a set of modules with no dependency
// relationship among them.
type Batch struct {
	// BatchNumber is 1-based.
	BatchNumber int

	Modules []*model.Module

	// CanExecuteInParallel is true whenever the batch holds more than one
	// module. The orchestrator honors it at runtime rather than treating it
	// as metadata.
	CanExecuteInParallel bool

	// Dependencies is the de-duplicated set of module ids this batch relies
	// on, all satisfied by earlier batches.
	Dependencies []string

	// EstimatedDuration is advisory only and never used for correctness.
	EstimatedDuration time.Duration
}

// Plan is the complete batched execution order for a run.
type Plan struct {
	Batches      []*Batch
	TotalBatches int
	Warnings     []string
}

// CreatePlan computes the batched execution order using the batch variant of
// Kahn's algorithm. It works on its own copy of the unresolved-dependency
// counts; the graph itself is never mutated.
func CreatePlan(ctx context.Context, g *graph.Graph) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("CreatePlan: Starting plan computation.", "node_count", g.Len())

	unresolved := make(map[string]int, g.Len())
	for _, node := range g.Ordered() {
		unresolved[node.Module.ID] = len(node.Deps)
	}

	plan := &Plan{}
	emitted := make(map[string]bool, g.Len())
	remaining := g.Len()

	for remaining > 0 {
		// Scan in input order so batch membership order is reproducible.
		var ready []*graph.Node
		for _, node := range g.Ordered() {
			if !emitted[node.Module.ID] && unresolved[node.Module.ID] == 0 {
				ready = append(ready, node)
			}
		}

		if len(ready) == 0 {
			logger.Error("CreatePlan: No eligible modules while nodes remain.", "remaining", remaining)
			return nil, fmt.Errorf("%w (%d modules unresolved)", ErrStuck, remaining)
		}

		batch := &Batch{
			BatchNumber:          len(plan.Batches) + 1,
			CanExecuteInParallel: len(ready) > 1,
		}
		depSet := make(map[string]struct{})
		for _, node := range ready {
			emitted[node.Module.ID] = true
			remaining--
			batch.Modules = append(batch.Modules, node.Module)
			for depID := range node.Deps {
				depSet[depID] = struct{}{}
			}
			for _, dependent := range node.Dependents {
				unresolved[dependent.Module.ID]--
			}
		}
		batch.Dependencies = sortedSet(depSet)
		batch.EstimatedDuration = estimateBatch(batch)

		logger.Debug("CreatePlan: Emitted batch.",
			"batch", batch.BatchNumber,
			"modules", len(batch.Modules),
			"parallel", batch.CanExecuteInParallel,
		)
		plan.Batches = append(plan.Batches, batch)
	}

	plan.TotalBatches = len(plan.Batches)
	logger.Debug("CreatePlan: Plan computation complete.", "total_batches", plan.TotalBatches)
	return plan, nil
}

// ModuleCount returns the total number of modules across all batches.
func (p *Plan) ModuleCount() int {
	n := 0
	for _, b := range p.Batches {
		n += len(b.Modules)
	}
	return n
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
