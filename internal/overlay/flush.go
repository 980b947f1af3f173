package overlay

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/modforge/internal/ctxlog"
)

// PartialWriteError reports a flush that failed after some destination
// renames had already happened. The temp-write stage catches ordinary I/O
// failures with zero destination mutations; renames failing partway are the
// one case we can only report, not undo.
type PartialWriteError struct {
	Written   []string
	Unwritten []string
	Cause     error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("partial flush: %d file(s) written, %d not written: %v",
		len(e.Written), len(e.Unwritten), e.Cause)
}

func (e *PartialWriteError) Unwrap() error { return e.Cause }

// Flush commits every created or modified file to disk. The staged contents
// are first written in full to a temporary directory next to the root; only
// when that succeeds are they renamed into place. A failure during the temp
// stage therefore leaves the destination tree untouched.
//
// Flush may be called exactly once per overlay.
func (o *Overlay) Flush(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	if o.flushed {
		return fmt.Errorf("overlay for %q already flushed", o.root)
	}
	o.flushed = true

	dirty := o.DirtyPaths()
	if len(dirty) == 0 {
		logger.Debug("Overlay has no dirty files, nothing to flush.")
		return nil
	}

	if err := os.MkdirAll(o.root, 0o755); err != nil {
		return fmt.Errorf("creating project root: %w", err)
	}

	stage, err := os.MkdirTemp(o.root, ".modforge-stage-")
	if err != nil {
		return fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(stage)

	// Stage 1: write everything into the temp dir. Any failure here aborts
	// with zero destination mutations.
	for _, p := range dirty {
		tmpPath := filepath.Join(stage, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(tmpPath), 0o755); err != nil {
			return fmt.Errorf("staging %q: %w", p, err)
		}
		if err := os.WriteFile(tmpPath, o.files[p].Content, 0o644); err != nil {
			return fmt.Errorf("staging %q: %w", p, err)
		}
	}

	// Stage 2: rename into place.
	for i, p := range dirty {
		dst := filepath.Join(o.root, filepath.FromSlash(p))
		err := os.MkdirAll(filepath.Dir(dst), 0o755)
		if err == nil {
			err = os.Rename(filepath.Join(stage, filepath.FromSlash(p)), dst)
		}
		if err != nil {
			return &PartialWriteError{Written: dirty[:i], Unwritten: dirty[i:], Cause: err}
		}
	}

	logger.Debug("Overlay flushed to disk.", "files_written", len(dirty))
	return nil
}
