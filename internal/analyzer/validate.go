package analyzer

import (
	"os"
	"path/filepath"
)

// Validation is the result of checking a blueprint's required files against
// the real project tree.
type Validation struct {
	Valid         bool
	MissingFiles  []string
	ExistingFiles []string
}

// ValidateRequiredFiles checks on-disk existence for every required file,
// excluding those the same blueprint will create itself. A missing required
// file that is not self-created is a hard pre-execution failure, caught
// before any mutation is attempted.
func ValidateRequiredFiles(analysis *Analysis, root string) *Validation {
	selfCreated := make(map[string]struct{}, len(analysis.FilesToCreate))
	for _, p := range analysis.FilesToCreate {
		selfCreated[p] = struct{}{}
	}

	v := &Validation{Valid: true}
	for _, p := range analysis.AllRequiredFiles {
		if _, ok := selfCreated[p]; ok {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(p))); err != nil {
			v.Valid = false
			v.MissingFiles = append(v.MissingFiles, p)
			continue
		}
		v.ExistingFiles = append(v.ExistingFiles, p)
	}
	return v
}
