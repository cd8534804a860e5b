package resolver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	slogcontext "github.com/veqryn/slog-context"
	"ocm.software/open-component-model/bindings/go/dag"

	"github.com/marytts-labs/marytts-installer/internal/component"
	"github.com/marytts-labs/marytts-installer/internal/descriptor"
	"github.com/marytts-labs/marytts-installer/internal/layout"
)

// DefaultConcurrency bounds parallel artifact fetches.
const DefaultConcurrency = 4

// ArtifactFilter decides whether a resolved artifact is copied to its
// install location.
type ArtifactFilter func(ctx context.Context, a ResolvedArtifact) bool

// Resolver computes dependency closures and retrieves their artifacts.
type Resolver interface {
	Resolve(ctx context.Context, d component.Descriptor) (*Report, error)
	Retrieve(ctx context.Context, report *Report, filter ArtifactFilter) ([]string, error)
	Patterns() Patterns
}

// ResolutionError reports that the closure of a module could not be
// computed or fetched.
type ResolutionError struct {
	Module component.ModuleID
	Err    error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving %s: %v", e.Module, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// IsResolutionError reports whether err carries a *ResolutionError.
func IsResolutionError(err error) bool {
	var re *ResolutionError
	return errors.As(err, &re)
}

// RepositoryResolver resolves against a Repository and caches into the
// download directory of an install root.
type RepositoryResolver struct {
	repo        Repository
	patterns    Patterns
	concurrency int

	progressMu sync.Mutex
	progress   io.Writer
}

// Option configures a RepositoryResolver.
type Option func(*RepositoryResolver)

// WithConcurrency sets the number of parallel artifact fetches.
func WithConcurrency(n int) Option {
	return func(r *RepositoryResolver) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithProgress reports fetched artifacts to w.
func WithProgress(w io.Writer) Option {
	return func(r *RepositoryResolver) {
		r.progress = w
	}
}

// New creates a resolver for repo caching below root.
func New(repo Repository, root layout.Root, opts ...Option) *RepositoryResolver {
	r := &RepositoryResolver{
		repo:        repo,
		patterns:    DefaultPatterns(root),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Patterns returns the cache and install naming patterns.
func (r *RepositoryResolver) Patterns() Patterns { return r.patterns }

// Repository returns the repository resolved against.
func (r *RepositoryResolver) Repository() Repository { return r.repo }

func moduleKey(org, module string) string { return org + "#" + module }

// node is one module of the closure while it is being walked.
type node struct {
	desc    component.Descriptor
	all     bool
	wanted  []component.Artifact
	depKeys []string
}

// Resolve walks the dependency closure of d, fetches every artifact of the
// closure into the cache and records the pinned result next to it.
func (r *RepositoryResolver) Resolve(ctx context.Context, d component.Descriptor) (*Report, error) {
	rootID := d.ID()
	fail := func(id component.ModuleID, err error) error {
		return &ResolutionError{Module: id, Err: err}
	}

	if err := os.MkdirAll(r.patterns.CacheDir(), layout.DirPermNormal); err != nil {
		return nil, fail(rootID, fmt.Errorf("creating cache directory: %w", err))
	}

	g := dag.NewDirectedAcyclicGraph[string]()
	nodes := make(map[string]*node)

	rootKey := moduleKey(rootID.Organisation, rootID.Module)
	if err := g.AddVertex(rootKey); err != nil {
		return nil, fail(rootID, err)
	}
	nodes[rootKey] = &node{desc: d, all: true}

	queue := []string{rootKey}
	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]
		n := nodes[key]
		n.depKeys = nil

		for _, dep := range n.desc.Dependencies() {
			depKey := moduleKey(dep.Organisation, dep.Module)
			if depKey == key {
				continue
			}
			rev, err := r.selectRevision(ctx, dep)
			if err != nil {
				return nil, fail(n.desc.ID(), fmt.Errorf("dependency %s: %w", dep.Module, err))
			}

			dn, seen := nodes[depKey]
			if !seen || CompareRevisions(rev, dn.desc.ID().Revision) > 0 {
				id := component.ModuleID{Organisation: dep.Organisation, Module: dep.Module, Revision: rev}
				desc, err := r.fetchDescriptor(ctx, id)
				if err != nil {
					return nil, fail(n.desc.ID(), err)
				}
				if !seen {
					if err := g.AddVertex(depKey); err != nil {
						return nil, fail(id, err)
					}
					dn = &node{}
					nodes[depKey] = dn
				} else {
					slogcontext.Debug(ctx, "Replacing revision", "module", depKey,
						"from", dn.desc.ID().Revision, "to", rev)
				}
				dn.desc = desc
				queue = append(queue, depKey)
			}

			if len(dep.Artifacts) == 0 {
				dn.all = true
			} else {
				dn.wanted = append(dn.wanted, dep.Artifacts...)
			}
			if err := g.AddEdge(key, depKey); err != nil {
				return nil, fail(n.desc.ID(), err)
			}
			n.depKeys = append(n.depKeys, depKey)
		}
	}

	order, err := g.TopologicalSort()
	if err != nil {
		return nil, fail(rootID, err)
	}

	report := &Report{Root: rootID}
	for _, key := range order {
		n := nodes[key]
		m := &ResolvedModule{ID: n.desc.ID(), Descriptor: n.desc}
		for _, dk := range n.depKeys {
			m.Dependencies = append(m.Dependencies, nodes[dk].desc.ID())
		}
		for _, a := range selectArtifacts(n) {
			m.Artifacts = append(m.Artifacts, ResolvedArtifact{Artifact: a})
		}
		report.Modules = append(report.Modules, m)
	}

	if err := r.fetchAll(ctx, report); err != nil {
		return nil, fail(rootID, err)
	}

	resolved, err := r.writeResolved(d, report)
	if err != nil {
		return nil, fail(rootID, err)
	}
	report.ResolvedFile = resolved

	slogcontext.Info(ctx, "Resolved dependencies",
		"module", rootID.String(),
		"modules", len(report.Modules),
		"artifacts", len(report.Artifacts()),
		"fetched", report.Fetched())
	return report, nil
}

func (r *RepositoryResolver) selectRevision(ctx context.Context, dep component.Dependency) (string, error) {
	if !IsDynamic(dep.Revision) {
		return dep.Revision, nil
	}
	available, err := r.repo.List(ctx, dep.Organisation+"/"+dep.Module)
	if err != nil {
		return "", fmt.Errorf("listing revisions: %w", err)
	}
	return SelectRevision(dep.Revision, available)
}

// fetchDescriptor returns the descriptor of id, from the cache if present.
func (r *RepositoryResolver) fetchDescriptor(ctx context.Context, id component.ModuleID) (component.Descriptor, error) {
	cached := filepath.Join(r.patterns.CacheDir(), Substitute(DefaultIvyCachePattern, ModuleTokens(id)))
	if _, err := os.Stat(cached); err == nil {
		d, err := descriptor.ParseFile(cached)
		if err == nil {
			return d, nil
		}
		slogcontext.Warn(ctx, "Discarding unreadable cached descriptor", "file", cached, "error", err)
	}

	rc, _, err := r.repo.Open(ctx, Substitute(RepositoryIvyPattern, ModuleTokens(id)))
	if err != nil {
		return nil, fmt.Errorf("descriptor of %s: %w", id, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor of %s: %w", id, err)
	}
	d, err := descriptor.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &descriptor.ParseError{Source: r.repo.String() + ":" + id.String(), Err: err}
	}
	if got := d.ID(); got.Module != id.Module || got.Revision != id.Revision {
		return nil, fmt.Errorf("repository descriptor for %s declares %s", id, got)
	}
	if err := os.WriteFile(cached, data, 0644); err != nil {
		slogcontext.Warn(ctx, "Cannot cache descriptor", "file", cached, "error", err)
	}
	return d, nil
}

// selectArtifacts returns the artifacts wanted from a module: all of its
// publications when any dependent asked for the whole module, plus the
// explicitly named ones.
func selectArtifacts(n *node) []component.Artifact {
	id := n.desc.ID()
	pubs := n.desc.Artifacts()
	seen := make(map[string]bool)
	var out []component.Artifact
	add := func(a component.Artifact) {
		a.Module = id
		k := artifactKey(a)
		if !seen[k] {
			seen[k] = true
			out = append(out, a)
		}
	}
	if n.all {
		for _, a := range pubs {
			add(a)
		}
	}
	for _, w := range n.wanted {
		matched := false
		for _, p := range pubs {
			if p.Name == w.Name && p.Type == w.Type && p.Classifier == w.Classifier {
				add(p)
				matched = true
				break
			}
		}
		if !matched {
			add(w)
		}
	}
	return out
}

func artifactKey(a component.Artifact) string {
	return a.Name + "|" + a.Type + "|" + a.Ext + "|" + a.Classifier
}

// writeResolved records the root descriptor with pinned dependency
// revisions in the cache directory.
func (r *RepositoryResolver) writeResolved(d component.Descriptor, report *Report) (string, error) {
	root := report.Module(report.Root)
	pinned := make([]component.Dependency, 0, len(d.Dependencies()))
	for _, dep := range d.Dependencies() {
		rev := dep.Revision
		for _, id := range root.Dependencies {
			if id.Organisation == dep.Organisation && id.Module == dep.Module {
				rev = id.Revision
			}
		}
		dep.Revision = rev
		pinned = append(pinned, dep)
	}

	p := filepath.Join(r.patterns.CacheDir(), Substitute(DefaultResolvedPattern, ModuleTokens(d.ID())))
	f, err := os.Create(p)
	if err != nil {
		return "", fmt.Errorf("writing resolved descriptor: %w", err)
	}
	if err := descriptor.Encode(f, descriptor.Pinned(d, pinned)); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("writing resolved descriptor: %w", err)
	}
	return p, nil
}

// Retrieve copies every artifact of report admitted by filter from the
// cache to its install location and returns the installed paths.
func (r *RepositoryResolver) Retrieve(ctx context.Context, report *Report, filter ArtifactFilter) ([]string, error) {
	var installed []string
	for _, a := range report.Artifacts() {
		if filter != nil && !filter(ctx, a) {
			continue
		}
		dst := r.patterns.InstallPath(a.Artifact)
		if err := copyFile(a.Path, dst); err != nil {
			return installed, fmt.Errorf("installing %s: %w", filepath.Base(dst), err)
		}
		slogcontext.Debug(ctx, "Installed artifact", "path", dst)
		installed = append(installed, dst)
	}
	return installed, nil
}
