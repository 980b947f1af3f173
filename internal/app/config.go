package app

import (
	"errors"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
// It is built once at startup and passed by reference everywhere; no
// process-wide singletons.
type Config struct {
	GenomePath      string // hcl genome file selecting the modules
	MarketplacePath string // directory of module manifests
	ProjectRoot     string // optional override of the genome's project root

	LogFormat string
	LogLevel  string

	WorkerCount       int
	ScaffoldTimeout   time.Duration
	RollbackOnFailure bool
	InstallCommand    string
}

// NewConfig validates a raw config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GenomePath == "" {
		return nil, errors.New("GenomePath is a required configuration field and cannot be empty")
	}
	if cfg.MarketplacePath == "" {
		return nil, errors.New("MarketplacePath is a required configuration field and cannot be empty")
	}
	if cfg.WorkerCount < 0 {
		return nil, errors.New("WorkerCount cannot be negative")
	}
	return &cfg, nil
}
