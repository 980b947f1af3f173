package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/vk/modforge/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("modforge", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
modforge - A declarative, dependency-ordered project generator.

Usage:
  modforge [options] [GENOME_PATH]

Arguments:
  GENOME_PATH
    Path to the .hcl genome file describing the project to generate.

Options:
`)
		flagSet.PrintDefaults()
	}

	genomeFlag := flagSet.String("genome", "", "Path to the genome file.")
	gFlag := flagSet.String("g", "", "Path to the genome file (shorthand).")
	marketplaceFlag := flagSet.String("marketplace", "marketplace", "Path to the directory containing module manifests.")
	rootFlag := flagSet.String("root", "", "Project root directory. Defaults to the genome's project root.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", 4, "Number of concurrent workers per execution batch.")
	scaffoldTimeoutFlag := flagSet.Duration("scaffold-timeout", 5*time.Minute, "Timeout for each scaffolding subprocess.")
	rollbackFlag := flagSet.Bool("rollback-on-failure", false, "Remove files written by this run if it fails.")
	installFlag := flagSet.String("install-command", "", "Command to run once after all batches succeed (e.g. 'npm install'). Empty disables.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *genomeFlag != "" {
		path = *genomeFlag
	} else if *gFlag != "" {
		path = *gFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Genome path determined.", "path", path)

	if path == "" {
		slog.Debug("No genome path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		GenomePath:        path,
		MarketplacePath:   *marketplaceFlag,
		ProjectRoot:       *rootFlag,
		LogFormat:         logFormat,
		LogLevel:          logLevel,
		WorkerCount:       *workersFlag,
		ScaffoldTimeout:   *scaffoldTimeoutFlag,
		RollbackOnFailure: *rollbackFlag,
		InstallCommand:    *installFlag,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
