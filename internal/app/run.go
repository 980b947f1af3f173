package app

import (
	"context"
	"fmt"

	"github.com/vk/modforge/internal/ctxlog"
	"github.com/vk/modforge/internal/manifest"
	"github.com/vk/modforge/internal/marketplace"
	"github.com/vk/modforge/internal/orchestrator"
)

// Run executes the main application logic: load the genome, resolve modules
// through the local marketplace, and hand the module set to the
// orchestrator.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	genome, err := manifest.LoadGenome(ctx, a.config.GenomePath)
	if err != nil {
		return fmt.Errorf("failed to load genome: %w", err)
	}

	projectRoot := genome.ProjectRoot
	if a.config.ProjectRoot != "" {
		projectRoot = a.config.ProjectRoot
	}

	source, err := marketplace.NewLocalSource(a.config.MarketplacePath)
	if err != nil {
		return fmt.Errorf("failed to open marketplace: %w", err)
	}

	orch := orchestrator.New(source, orchestrator.Options{
		ProjectName:       genome.ProjectName,
		ProjectRoot:       projectRoot,
		WorkerCount:       a.config.WorkerCount,
		ScaffoldTimeout:   a.config.ScaffoldTimeout,
		RollbackOnFailure: a.config.RollbackOnFailure,
		InstallCommand:    a.config.InstallCommand,
	})

	result := orch.Execute(ctx, genome.Modules)
	if !result.Success {
		for _, e := range result.Errors {
			fmt.Fprintf(a.outW, "error: %s\n", e.Error())
		}
		return fmt.Errorf("generation failed with %d error(s), trace %s", len(result.Errors), result.TraceID)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
