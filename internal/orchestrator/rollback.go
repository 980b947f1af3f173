package orchestrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/vk/modforge/internal/ctxlog"
)

// rollbackTracker remembers every path flushed during a run so a failed run
// can optionally be unwound. It only ever removes files this run wrote;
// in-place mutations of pre-existing files are not undone, which is part of
// why the option defaults to off.
type rollbackTracker struct {
	root string

	mu    sync.Mutex
	paths []string
}

func newRollbackTracker(root string) *rollbackTracker {
	return &rollbackTracker{root: root}
}

func (t *rollbackTracker) add(paths []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paths = append(t.paths, paths...)
}

// rollback removes the tracked files and prunes any directories left empty,
// deepest first.
func (t *rollbackTracker) rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	logger := ctxlog.FromContext(ctx)
	logger.Warn("Rolling back run.", "files", len(t.paths))

	var errs []error
	dirs := make(map[string]struct{})
	for _, p := range t.paths {
		abs := filepath.Join(t.root, filepath.FromSlash(p))
		if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
			continue
		}
		for dir := filepath.Dir(abs); dir != t.root && len(dir) > len(t.root); dir = filepath.Dir(dir) {
			dirs[dir] = struct{}{}
		}
	}

	ordered := make([]string, 0, len(dirs))
	for d := range dirs {
		ordered = append(ordered, d)
	}
	sort.Slice(ordered, func(i, j int) bool { return len(ordered[i]) > len(ordered[j]) })
	for _, d := range ordered {
		// Remove fails on non-empty directories, which is exactly the
		// behavior wanted here.
		_ = os.Remove(d)
	}

	t.paths = nil
	return errors.Join(errs...)
}
