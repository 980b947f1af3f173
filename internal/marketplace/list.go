package marketplace

import (
	"path/filepath"
	"sort"

	"github.com/vk/modforge/internal/fsutil"
)

// List enumerates the module ids available in the local marketplace, in
// sorted order. An id is any directory containing a module.hcl manifest.
func (s *LocalSource) List() ([]string, error) {
	manifests, err := fsutil.FindFilesByExtension(s.dir, ".hcl")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var ids []string
	for _, m := range manifests {
		if filepath.Base(m) != "module.hcl" {
			continue
		}
		rel, err := filepath.Rel(s.dir, filepath.Dir(m))
		if err != nil {
			continue
		}
		// Only direct children count; nested hcl files belong to templates.
		if rel == "." || filepath.Dir(rel) != "." {
			continue
		}
		if _, ok := seen[rel]; !ok {
			seen[rel] = struct{}{}
			ids = append(ids, rel)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
