package install

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/uuid"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/marytts-labs/marytts-installer/internal/component"
	"github.com/marytts-labs/marytts-installer/internal/layout"
	"github.com/marytts-labs/marytts-installer/internal/resolver"
	"github.com/marytts-labs/marytts-installer/internal/scaffold"
)

// StatusRefresher re-derives component statuses after the install tree
// changed.
type StatusRefresher interface {
	RefreshStatuses(root layout.Root)
}

// ErrNoRepository is returned by Install and Plan when the orchestrator
// has no resolver.
var ErrNoRepository = errors.New("no component repository configured")

// Orchestrator installs and uninstalls components below one install root.
type Orchestrator struct {
	root     layout.Root
	resolver resolver.Resolver
	statuses StatusRefresher
}

// New returns an orchestrator for root that resolves with r and refreshes
// statuses through statuses. Both r and statuses may be nil; without a
// resolver only Uninstall works.
func New(root layout.Root, r resolver.Resolver, statuses StatusRefresher) *Orchestrator {
	return &Orchestrator{root: root, resolver: r, statuses: statuses}
}

// Root is the install root the orchestrator writes to.
func (o *Orchestrator) Root() layout.Root { return o.root }

// Result is the outcome of an install.
type Result struct {
	OperationID string
	Plan        *Plan
	// Installed lists the files copied to their install location.
	Installed []string
	// Extracted lists the data archives unpacked into the install tree.
	Extracted []string
	// Files counts the files written by extraction.
	Files int
	// Scaffolded lists baseline files created by this install.
	Scaffolded []string
	// Errors holds the extraction failures. They do not fail the install.
	Errors []error
}

// Install resolves c and installs its closure.
func (o *Orchestrator) Install(ctx context.Context, c *component.Component) (*Result, error) {
	ctx = withOperation(ctx, "install", c)
	plan, err := o.plan(ctx, c)
	if err != nil {
		return nil, err
	}
	return o.execute(ctx, plan)
}

// Plan resolves c and classifies its artifacts without touching lib/. The
// closure is fetched into the download cache.
func (o *Orchestrator) Plan(ctx context.Context, c *component.Component) (*Plan, error) {
	return o.plan(withOperation(ctx, "plan", c), c)
}

func (o *Orchestrator) plan(ctx context.Context, c *component.Component) (*Plan, error) {
	if o.resolver == nil {
		return nil, ErrNoRepository
	}
	if c == nil || c.Descriptor == nil {
		return nil, errors.New("component has no descriptor")
	}
	if err := layout.Ensure(ctx, o.Root()); err != nil {
		return nil, err
	}
	report, err := o.resolver.Resolve(ctx, c.Descriptor)
	if err != nil {
		slogcontext.Error(ctx, "Resolution failed", "err", err)
		return nil, err
	}
	return NewPlan(c, report, o.resolver.Patterns()), nil
}

// Execute carries out a plan returned by Plan.
func (o *Orchestrator) Execute(ctx context.Context, plan *Plan) (*Result, error) {
	if o.resolver == nil {
		return nil, ErrNoRepository
	}
	return o.execute(withOperation(ctx, "execute", plan.Component), plan)
}

func (o *Orchestrator) execute(ctx context.Context, plan *Plan) (*Result, error) {
	result := &Result{OperationID: operationID(ctx), Plan: plan}

	admit := func(_ context.Context, a resolver.ResolvedArtifact) bool {
		step, ok := plan.Step(a)
		return ok && step.Action == ActionCopy
	}
	installed, err := o.resolver.Retrieve(ctx, plan.Report, admit)
	result.Installed = installed
	if err != nil {
		o.refresh()
		return result, fmt.Errorf("installing %s: %w", plan.Component.Name, err)
	}

	for _, step := range plan.Steps {
		a := step.Artifact
		switch step.Action {
		case ActionExtract:
			n, err := Extract(ctx, a.Path, archiveFormat(a.Artifact), step.Target)
			result.Files += n
			if err != nil {
				slogcontext.Error(ctx, "Extraction failed", "artifact", a.Name, "err", err)
				result.Errors = append(result.Errors, err)
				continue
			}
			slogcontext.Info(ctx, "Extracted data archive", "artifact", a.Name, "files", n, "dest", step.Target)
			result.Extracted = append(result.Extracted, a.Path)
		case ActionSkip:
			slogcontext.Debug(ctx, "Leaving artifact in cache", "artifact", a.Name, "type", a.Type)
		}
	}

	scaffolded, err := scaffold.Bootstrap(ctx, o.Root())
	if scaffolded != nil {
		result.Scaffolded = scaffolded.Files
	}
	o.refresh()
	if err != nil {
		return result, fmt.Errorf("scaffolding install root: %w", err)
	}

	slogcontext.Info(ctx, "Installed component",
		"component", plan.Component.Name,
		"installed", len(result.Installed),
		"extracted", len(result.Extracted),
		"failures", len(result.Errors))
	return result, nil
}

// Uninstall removes the installed artifact of c. A component that is not
// installed is reported at info level and is not an error. Unit-selection
// voices also lose their unpacked data directory. The download cache is
// left alone.
func (o *Orchestrator) Uninstall(ctx context.Context, c *component.Component) error {
	ctx = withOperation(ctx, "uninstall", c)
	root := o.Root()

	var errs []error
	path := root.InstalledArtifact(c.ArtifactName)
	switch err := os.Remove(path); {
	case err == nil:
		slogcontext.Info(ctx, "Removed artifact", "path", path)
	case errors.Is(err, fs.ErrNotExist):
		slogcontext.Info(ctx, "Component is not installed", "path", path)
	default:
		slogcontext.Error(ctx, "Could not remove artifact", "path", path, "err", err)
		errs = append(errs, fmt.Errorf("uninstalling %s: %w", c.Name, err))
	}

	if c.IsUnitSelection() {
		if name := c.BareName(); layout.IsPathElement(name) {
			dir := root.VoiceData(name)
			if err := os.RemoveAll(dir); err != nil {
				slogcontext.Warn(ctx, "Could not remove voice data", "path", dir, "err", err)
			} else {
				slogcontext.Debug(ctx, "Removed voice data", "path", dir)
			}
		} else {
			slogcontext.Warn(ctx, "Not removing voice data for an unsafe voice name", "name", name)
		}
	}

	o.refresh()
	return errors.Join(errs...)
}

func (o *Orchestrator) refresh() {
	if o.statuses != nil {
		o.statuses.RefreshStatuses(o.Root())
	}
}

// RetrieveDependencies lists the artifact names c names explicitly for its
// dependencies, with "-<classifier>" appended when the artifact carries
// one.
func RetrieveDependencies(c *component.Component) []string {
	if c == nil || c.Descriptor == nil {
		return nil
	}
	var names []string
	for _, dep := range c.Descriptor.Dependencies() {
		for _, a := range dep.Artifacts {
			name := a.Name
			if a.Classifier != "" {
				name += "-" + a.Classifier
			}
			names = append(names, name)
		}
	}
	return names
}

type operationKey struct{}

// withOperation tags ctx and its logger with a fresh operation ID unless
// one is already present.
func withOperation(ctx context.Context, op string, c *component.Component) context.Context {
	if operationID(ctx) != "" {
		return ctx
	}
	id := uuid.NewString()
	ctx = context.WithValue(ctx, operationKey{}, id)
	name := ""
	if c != nil {
		name = c.Name
	}
	return slogcontext.With(ctx, "op", op, "op_id", id, "component", name)
}

func operationID(ctx context.Context) string {
	id, _ := ctx.Value(operationKey{}).(string)
	return id
}
