package planner

import (
	"time"

	"github.com/vk/modforge/internal/model"
)

// categoryDurations holds rough per-category wall-clock estimates, used only
// to annotate batches for progress display.
var categoryDurations = map[model.Category]time.Duration{
	model.CategoryFramework:      90 * time.Second,
	model.CategoryDatabase:       30 * time.Second,
	model.CategoryORM:            20 * time.Second,
	model.CategoryUI:             40 * time.Second,
	model.CategoryAuth:           25 * time.Second,
	model.CategoryTesting:        15 * time.Second,
	model.CategoryTooling:        10 * time.Second,
	model.CategoryDeployment:     15 * time.Second,
	model.CategoryObservability:  15 * time.Second,
	model.CategoryInfrastructure: 20 * time.Second,
}

const defaultModuleDuration = 15 * time.Second

// estimateBatch sums estimates for sequential batches and takes the maximum
// for parallel ones.
func estimateBatch(b *Batch) time.Duration {
	var total, max time.Duration
	for _, m := range b.Modules {
		d, ok := categoryDurations[m.Category]
		if !ok {
			d = defaultModuleDuration
		}
		total += d
		if d > max {
			max = d
		}
	}
	if b.CanExecuteInParallel {
		return max
	}
	return total
}
