package overlay

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/vk/modforge/internal/ctxlog"
)

// FileState tracks how a staged file entered the overlay.
type FileState int

const (
	// StateRead marks a file seeded from disk and not (yet) mutated.
	StateRead FileState = iota
	// StateCreated marks a file that does not exist on disk yet.
	StateCreated
	// StateModified marks a seeded file whose content was changed.
	StateModified
)

func (s FileState) String() string {
	switch s {
	case StateRead:
		return "read"
	case StateCreated:
		return "created"
	case StateModified:
		return "modified"
	default:
		return "unknown"
	}
}

// VirtualFile is one staged entry, owned exclusively by its overlay until
// flush.
type VirtualFile struct {
	Path    string
	Content []byte
	State   FileState
}

// Overlay is an in-memory staged view of a file subtree rooted at a project
// directory. Paths are kept relative to the root.
type Overlay struct {
	root    string
	files   map[string]*VirtualFile
	flushed bool
}

// New creates an empty overlay over the given project root.
func New(root string) *Overlay {
	return &Overlay{
		root:  root,
		files: make(map[string]*VirtualFile),
	}
}

// Root returns the project root this overlay commits into.
func (o *Overlay) Root() string { return o.root }

// CreateFile stages a new file. Creating a path already staged as created by
// the same overlay is an error; two creates for one path within a module is
// a blueprint bug worth surfacing, not silently absorbing.
func (o *Overlay) CreateFile(path string, content []byte) error {
	path = filepath.ToSlash(filepath.Clean(path))
	if existing, ok := o.files[path]; ok && existing.State == StateCreated {
		return fmt.Errorf("path %q already staged as created in this overlay", path)
	}
	o.files[path] = &VirtualFile{Path: path, Content: content, State: StateCreated}
	return nil
}

// FileExists reports whether the path is staged in this overlay. It says
// nothing about the real filesystem.
func (o *Overlay) FileExists(path string) bool {
	_, ok := o.files[filepath.ToSlash(filepath.Clean(path))]
	return ok
}

// ReadFile returns the staged content for a path.
func (o *Overlay) ReadFile(path string) ([]byte, error) {
	vf, ok := o.files[filepath.ToSlash(filepath.Clean(path))]
	if !ok {
		return nil, fmt.Errorf("path %q is not staged in this overlay", path)
	}
	return vf.Content, nil
}

// WriteFile replaces the content of an already-staged path. Writing an
// unseeded path is an error: every mutation must pass through the analyzer's
// pre-seeding step so the overlay knows the full footprint of a module.
func (o *Overlay) WriteFile(path string, content []byte) error {
	path = filepath.ToSlash(filepath.Clean(path))
	vf, ok := o.files[path]
	if !ok {
		return fmt.Errorf("path %q is not staged; seed it from disk or create it first", path)
	}
	vf.Content = content
	if vf.State == StateRead {
		vf.State = StateModified
	}
	return nil
}

// SeedFromDisk loads the given root-relative paths from disk into the
// overlay in StateRead. Paths missing on disk are skipped: the analyzer has
// already verified that every required file either exists or is created by
// the same blueprint.
func (o *Overlay) SeedFromDisk(ctx context.Context, paths []string) error {
	logger := ctxlog.FromContext(ctx)
	for _, p := range paths {
		p = filepath.ToSlash(filepath.Clean(p))
		data, err := os.ReadFile(filepath.Join(o.root, filepath.FromSlash(p)))
		if os.IsNotExist(err) {
			logger.Debug("Seed path missing on disk, skipping.", "path", p)
			continue
		}
		if err != nil {
			return fmt.Errorf("seeding %q: %w", p, err)
		}
		if _, ok := o.files[p]; ok {
			continue
		}
		o.files[p] = &VirtualFile{Path: p, Content: data, State: StateRead}
	}
	return nil
}

// ResyncFromDisk re-reads the whole tree under the root into the overlay,
// excluding paths matched by the given doublestar globs. It is used after a
// scaffolding command has written files outside the overlay's control.
// Already-staged mutations are preserved; only unseen paths are added.
func (o *Overlay) ResyncFromDisk(ctx context.Context, excludeGlobs []string) error {
	logger := ctxlog.FromContext(ctx)
	count := 0

	err := filepath.WalkDir(o.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(o.root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		for _, glob := range excludeGlobs {
			if ok, _ := doublestar.Match(glob, rel); ok {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}
		if d.IsDir() {
			return nil
		}
		if _, staged := o.files[rel]; staged {
			return nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("resyncing %q: %w", rel, readErr)
		}
		o.files[rel] = &VirtualFile{Path: rel, Content: data, State: StateRead}
		count++
		return nil
	})
	if err != nil {
		return err
	}

	logger.Debug("Overlay resynced from disk.", "files_added", count)
	return nil
}

// Files returns every staged entry in path order.
func (o *Overlay) Files() []*VirtualFile {
	out := make([]*VirtualFile, 0, len(o.files))
	for _, vf := range o.files {
		out = append(out, vf)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// DirtyPaths returns the paths this overlay will write on flush, in path
// order: everything staged as created or modified.
func (o *Overlay) DirtyPaths() []string {
	var out []string
	for p, vf := range o.files {
		if vf.State == StateCreated || vf.State == StateModified {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}
