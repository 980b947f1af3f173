package marketplace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vk/modforge/internal/ctxlog"
	"github.com/vk/modforge/internal/manifest"
	"github.com/vk/modforge/internal/model"
)

// defaultCacheSize bounds the resolved-spec cache. Genomes rarely select
// more than a few dozen modules, so this mostly guards repeated runs in one
// process.
const defaultCacheSize = 128

// LocalSource resolves modules from a directory laid out as
// <dir>/<id>/module.hcl with optional <dir>/<id>/templates/* files.
type LocalSource struct {
	dir   string
	cache *lru.Cache[string, *model.ModuleSpec]
}

// NewLocalSource creates a local marketplace over the given directory.
func NewLocalSource(dir string) (*LocalSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("marketplace directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("marketplace path %q is not a directory", dir)
	}
	cache, err := lru.New[string, *model.ModuleSpec](defaultCacheSize)
	if err != nil {
		return nil, err
	}
	return &LocalSource{dir: dir, cache: cache}, nil
}

// Resolve loads (or returns the cached) spec for a module id.
func (s *LocalSource) Resolve(ctx context.Context, id string) (*model.ModuleSpec, error) {
	logger := ctxlog.FromContext(ctx)
	if spec, ok := s.cache.Get(id); ok {
		logger.Debug("Marketplace cache hit.", "id", id)
		return spec, nil
	}

	manifestPath := filepath.Join(s.dir, id, "module.hcl")
	spec, err := manifest.LoadModuleSpec(ctx, manifestPath)
	if err != nil {
		return nil, fmt.Errorf("resolving module %q: %w", id, err)
	}
	if spec.Config.ID != id {
		return nil, fmt.Errorf("resolving module %q: manifest declares id %q", id, spec.Config.ID)
	}

	templates, err := loadTemplates(filepath.Join(s.dir, id, "templates"))
	if err != nil {
		return nil, fmt.Errorf("resolving module %q: %w", id, err)
	}
	spec.Blueprint.Templates = templates

	s.cache.Add(id, spec)
	logger.Debug("Module resolved from local marketplace.", "id", id, "templates", len(templates))
	return spec, nil
}

// loadTemplates reads every file under a module's templates directory, keyed
// by its path relative to that directory. A missing directory just means the
// module ships no templates.
func loadTemplates(dir string) (map[string]string, error) {
	entries := map[string]string{}
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == dir {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		entries[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return entries, nil
}
