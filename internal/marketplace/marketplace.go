// Package marketplace resolves module ids to their config + blueprint pairs.
//
// The Source interface is the boundary the orchestration core sees; the only
// implementation shipped here reads HCL manifests from a local directory.
// Remote registries, versioning and cache invalidation live behind the same
// boundary and are out of scope.
package marketplace

import (
	"context"

	"github.com/vk/modforge/internal/model"
)

// Source resolves a module id into its resolved module spec.
type Source interface {
	Resolve(ctx context.Context, id string) (*model.ModuleSpec, error)
}
