package executor

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/vk/modforge/internal/ctxlog"
)

// scaffoldPatterns match commands that invoke third-party project
// generators. These manage their own file writes and must run against the
// real filesystem before the overlay takes over.
var scaffoldPatterns = []string{
	"npm create ",
	"npm init ",
	"npx create-",
	"npx --yes create-",
	"yarn create ",
	"pnpm create ",
	"pnpm dlx create-",
	"bunx create-",
}

// defaultScaffoldExcludes keeps dependency and VCS trees out of the
// post-scaffold overlay resync.
var defaultScaffoldExcludes = []string{
	"node_modules/**",
	"node_modules",
	".git/**",
	".git",
	".next/**",
	"dist/**",
	"build/**",
	"coverage/**",
}

// IsScaffoldCommand reports whether a RUN_COMMAND invokes a known
// project-scaffolding generator.
func IsScaffoldCommand(command string) bool {
	trimmed := strings.TrimSpace(command)
	for _, p := range scaffoldPatterns {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}

// runScaffold executes a scaffolding command with the configured timeout.
// External generators occasionally hang on prompts; the bound turns that
// into a reportable failure instead of a stuck run.
func (e *Executor) runScaffold(ctx context.Context, command, dir string) error {
	if e.scaffoldTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.scaffoldTimeout)
		defer cancel()
	}
	return e.runCommand(ctx, command, dir)
}

// RunShell runs a project-local shell command outside any blueprint. The
// orchestrator uses it for the post-plan dependency install.
func (e *Executor) RunShell(ctx context.Context, command, dir string) error {
	return e.runCommand(ctx, command, dir)
}

// runCommand spawns a shell command in the given directory. A non-zero exit
// is reported as an error with the command's combined output attached.
func (e *Executor) runCommand(ctx context.Context, command, dir string) error {
	logger := ctxlog.FromContext(ctx)
	started := time.Now()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()

	logger.Debug("Command finished.", "command", command, "duration", time.Since(started), "error", err)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("command %q timed out: %w", command, ctx.Err())
		}
		return fmt.Errorf("command %q failed: %w (output: %s)", command, err, strings.TrimSpace(string(out)))
	}
	return nil
}
