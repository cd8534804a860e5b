package registry

import (
	"context"
	"sync/atomic"

	"github.com/marytts-labs/marytts-installer/internal/layout"
)

// Registry holds the current catalog. Rebuild constructs a new catalog and
// swaps it in, so readers never observe a partial build.
type Registry struct {
	sources Sources
	current atomic.Pointer[Catalog]
}

// New returns a registry with an empty catalog.
func New(src Sources) *Registry {
	r := &Registry{sources: src}
	r.current.Store(NewCatalog())
	return r
}

// Catalog returns the current catalog.
func (r *Registry) Catalog() *Catalog {
	return r.current.Load()
}

// Rebuild builds a catalog for root and installs it. On a configuration
// error the empty catalog returned by Build replaces the current one.
func (r *Registry) Rebuild(ctx context.Context, root layout.Root) error {
	cat, err := Build(ctx, r.sources, root)
	r.current.Store(cat)
	return err
}

// RefreshStatuses re-derives the statuses of the current catalog in place.
func (r *Registry) RefreshStatuses(root layout.Root) {
	r.Catalog().RefreshStatuses(root)
}
