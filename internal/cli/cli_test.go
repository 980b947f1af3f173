package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("positional genome path with defaults", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse([]string{"genome.hcl"}, &out)
		require.NoError(t, err)
		require.False(t, exit)

		assert.Equal(t, "genome.hcl", cfg.GenomePath)
		assert.Equal(t, "marketplace", cfg.MarketplacePath)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 4, cfg.WorkerCount)
		assert.Equal(t, 5*time.Minute, cfg.ScaffoldTimeout)
		assert.False(t, cfg.RollbackOnFailure)
		assert.Empty(t, cfg.InstallCommand)
	})

	t.Run("genome flag takes precedence over positional", func(t *testing.T) {
		var out bytes.Buffer
		cfg, _, err := Parse([]string{"-genome", "a.hcl", "b.hcl"}, &out)
		require.NoError(t, err)
		assert.Equal(t, "a.hcl", cfg.GenomePath)
	})

	t.Run("shorthand flag", func(t *testing.T) {
		var out bytes.Buffer
		cfg, _, err := Parse([]string{"-g", "a.hcl"}, &out)
		require.NoError(t, err)
		assert.Equal(t, "a.hcl", cfg.GenomePath)
	})

	t.Run("all options", func(t *testing.T) {
		var out bytes.Buffer
		cfg, _, err := Parse([]string{
			"-marketplace", "./mods",
			"-root", "./out",
			"-log-format", "text",
			"-log-level", "debug",
			"-workers", "8",
			"-scaffold-timeout", "90s",
			"-rollback-on-failure",
			"-install-command", "npm install",
			"genome.hcl",
		}, &out)
		require.NoError(t, err)

		assert.Equal(t, "./mods", cfg.MarketplacePath)
		assert.Equal(t, "./out", cfg.ProjectRoot)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, 8, cfg.WorkerCount)
		assert.Equal(t, 90*time.Second, cfg.ScaffoldTimeout)
		assert.True(t, cfg.RollbackOnFailure)
		assert.Equal(t, "npm install", cfg.InstallCommand)
	})

	t.Run("no genome prints usage and exits cleanly", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse(nil, &out)
		require.NoError(t, err)
		assert.True(t, exit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
	})

	t.Run("invalid log format", func(t *testing.T) {
		var out bytes.Buffer
		_, _, err := Parse([]string{"-log-format", "xml", "genome.hcl"}, &out)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
		assert.Contains(t, exitErr.Message, "log-format")
	})

	t.Run("invalid log level", func(t *testing.T) {
		var out bytes.Buffer
		_, _, err := Parse([]string{"-log-level", "loud", "genome.hcl"}, &out)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})

	t.Run("unknown flag", func(t *testing.T) {
		var out bytes.Buffer
		_, _, err := Parse([]string{"--nope"}, &out)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})

	t.Run("help exits cleanly", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse([]string{"-h"}, &out)
		require.NoError(t, err)
		assert.True(t, exit)
		assert.Nil(t, cfg)
	})
}
