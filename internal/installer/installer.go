package installer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	slogcontext "github.com/veqryn/slog-context"

	"github.com/marytts-labs/marytts-installer/internal/component"
	"github.com/marytts-labs/marytts-installer/internal/install"
	"github.com/marytts-labs/marytts-installer/internal/layout"
	"github.com/marytts-labs/marytts-installer/internal/registry"
	"github.com/marytts-labs/marytts-installer/internal/resolver"
)

// UnknownComponentError reports a name that is not in the catalog.
type UnknownComponentError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownComponentError) Error() string {
	msg := fmt.Sprintf("unknown component %q", e.Name)
	if len(e.Suggestions) > 0 {
		msg += "; did you mean " + strings.Join(e.Suggestions, ", ") + "?"
	}
	return msg
}

// Installer guards one install root and its catalog. Rebuilding the
// catalog, changing the root, installing and uninstalling take the lock
// exclusively; catalog queries share it.
type Installer struct {
	mu sync.RWMutex

	registry     *registry.Registry
	repo         resolver.Repository
	resolverOpts []resolver.Option
	root         layout.Root
	orchestrator *install.Orchestrator
}

// New creates an installer for root and builds its catalog. repo may be nil,
// in which case the catalog is usable but Install fails with
// install.ErrNoRepository. A build error is a *layout.ConfigError; the
// installer is returned with an empty catalog.
func New(ctx context.Context, root layout.Root, src registry.Sources, repo resolver.Repository, opts ...resolver.Option) (*Installer, error) {
	in := &Installer{
		registry:     registry.New(src),
		repo:         repo,
		resolverOpts: opts,
	}
	in.setRoot(root)
	if err := in.registry.Rebuild(ctx, root); err != nil {
		return in, err
	}
	return in, nil
}

// setRoot points the installer at root. Callers hold the write lock.
func (in *Installer) setRoot(root layout.Root) {
	in.root = root
	var r resolver.Resolver
	if in.repo != nil {
		r = resolver.New(in.repo, root, in.resolverOpts...)
	}
	in.orchestrator = install.New(root, r, in.registry)
}

// Base returns the install root directory.
func (in *Installer) Base() string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.root.Base()
}

// Root returns the install root.
func (in *Installer) Root() layout.Root {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.root
}

// Components returns the catalog filtered by q in catalog order.
func (in *Installer) Components(q registry.Query) []*component.Component {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return registry.Filter(in.registry.Catalog(), q)
}

// Lookup finds a component by name, ignoring case.
func (in *Installer) Lookup(name string) (*component.Component, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.registry.Catalog().Lookup(name)
}

// Find is Lookup with an *UnknownComponentError carrying suggestions for
// names that are not in the catalog.
func (in *Installer) Find(name string) (*component.Component, error) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	cat := in.registry.Catalog()
	if c, ok := cat.Lookup(name); ok {
		return c, nil
	}
	return nil, &UnknownComponentError{Name: name, Suggestions: cat.Suggest(name)}
}

// HasName reports whether the catalog holds a component called name.
func (in *Installer) HasName(name string) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.registry.Catalog().HasName(name)
}

// SizeOf returns the declared size of the named component, or 0 when the
// name is unknown.
func (in *Installer) SizeOf(name string) int64 {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.registry.Catalog().SizeOf(name)
}

// Suggest returns catalog names close to name.
func (in *Installer) Suggest(name string) []string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.registry.Catalog().Suggest(name)
}

// Dependencies lists the dependency artifacts c names explicitly.
func (in *Installer) Dependencies(c *component.Component) []string {
	return install.RetrieveDependencies(c)
}

// Plan resolves c into the download cache and returns the install plan
// without changing lib/.
func (in *Installer) Plan(ctx context.Context, c *component.Component) (*install.Plan, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	plan, err := in.orchestrator.Plan(ctx, c)
	in.registry.RefreshStatuses(in.root)
	return plan, err
}

// Install resolves and installs c. Catalog statuses are refreshed
// afterwards.
func (in *Installer) Install(ctx context.Context, c *component.Component) (*install.Result, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.orchestrator.Install(ctx, c)
}

// Uninstall removes c from the install tree.
func (in *Installer) Uninstall(ctx context.Context, c *component.Component) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.orchestrator.Uninstall(ctx, c)
}

// SetBase selects a new install root and rebuilds the catalog for it. On
// failure the current root is kept and a *layout.ConfigError is returned.
func (in *Installer) SetBase(ctx context.Context, path string) error {
	root, err := layout.Select(path)
	if err != nil {
		return err
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	in.setRoot(root)
	slogcontext.Info(ctx, "Install root changed", "root", root.Base())
	return in.registry.Rebuild(ctx, root)
}

// Reload rebuilds the catalog from the descriptor sources and the install
// tree.
func (in *Installer) Reload(ctx context.Context) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.registry.Rebuild(ctx, in.root)
}

// RefreshStatuses re-derives every component status from the install tree.
func (in *Installer) RefreshStatuses() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.registry.RefreshStatuses(in.root)
}

// Summary counts the catalog components per status.
func (in *Installer) Summary() map[component.Status]int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	out := make(map[component.Status]int)
	for _, c := range in.registry.Catalog().All() {
		out[c.Status]++
	}
	return out
}
