package install

import (
	"fmt"
	"io"
	"strings"

	"github.com/marytts-labs/marytts-installer/internal/component"
	"github.com/marytts-labs/marytts-installer/internal/resolver"
)

// DataClassifier marks an archive artifact as unpackable voice data.
const DataClassifier = "data"

// Action is what Execute does with one resolved artifact.
type Action int

const (
	ActionSkip Action = iota
	ActionCopy
	ActionExtract
)

func (a Action) String() string {
	switch a {
	case ActionCopy:
		return "copy"
	case ActionExtract:
		return "extract"
	default:
		return "skip"
	}
}

// archiveFormat returns the archive format of an artifact ("zip", "tar" or
// "tgz"), or "" when it is not an archive.
func archiveFormat(a component.Artifact) string {
	for _, s := range []string{a.Type, a.Ext} {
		switch strings.ToLower(s) {
		case "zip":
			return "zip"
		case "tar":
			return "tar"
		case "tgz", "tar.gz":
			return "tgz"
		}
	}
	return ""
}

// Classify decides the action for a resolved artifact.
func Classify(a component.Artifact) Action {
	switch a.Type {
	case "jar", "bundle":
		return ActionCopy
	}
	if a.Classifier == DataClassifier && archiveFormat(a) != "" {
		return ActionExtract
	}
	return ActionSkip
}

// Step is one planned artifact action.
type Step struct {
	Artifact resolver.ResolvedArtifact
	Action   Action
	// Target is the install path for ActionCopy and the extraction
	// directory for ActionExtract.
	Target string
}

// Plan is the classified closure of one component.
type Plan struct {
	Component *component.Component
	Report    *resolver.Report
	Steps     []Step

	byPath map[string]int
}

// NewPlan classifies every artifact of report.
func NewPlan(c *component.Component, report *resolver.Report, patterns resolver.Patterns) *Plan {
	p := &Plan{Component: c, Report: report, byPath: make(map[string]int)}
	for _, a := range report.Artifacts() {
		s := Step{Artifact: a, Action: Classify(a.Artifact)}
		switch s.Action {
		case ActionCopy:
			s.Target = patterns.InstallPath(a.Artifact)
		case ActionExtract:
			s.Target = patterns.InstallDir()
		}
		p.byPath[a.Path] = len(p.Steps)
		p.Steps = append(p.Steps, s)
	}
	return p
}

// Step returns the planned step for a resolved artifact.
func (p *Plan) Step(a resolver.ResolvedArtifact) (Step, bool) {
	i, ok := p.byPath[a.Path]
	if !ok {
		return Step{}, false
	}
	return p.Steps[i], true
}

// Count returns the number of steps with the given action.
func (p *Plan) Count(a Action) int {
	n := 0
	for _, s := range p.Steps {
		if s.Action == a {
			n++
		}
	}
	return n
}

// PrintTree prints the module tree below id with box-drawing characters.
// Modules already printed elsewhere in the tree are marked and not expanded
// again.
func PrintTree(w io.Writer, p *Plan, id component.ModuleID, prefix string, isLast bool, seen map[string]bool) {
	m := p.Report.Module(id)
	if m == nil {
		return
	}

	connector := "├── "
	if isLast {
		connector = "└── "
	}

	key := m.ID.Organisation + "#" + m.ID.Module
	label := m.ID.Module + " " + m.ID.Revision
	if seen[key] {
		label += " (deduped)"
	}

	if prefix == "" {
		fmt.Fprintf(w, "  %s\n", label)
	} else {
		fmt.Fprintf(w, "  %s%s%s\n", prefix, connector, label)
	}
	if seen[key] {
		return
	}
	seen[key] = true

	childPrefix := prefix
	if prefix != "" {
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	} else {
		childPrefix = " "
	}

	n := len(m.Artifacts) + len(m.Dependencies)
	i := 0
	for _, a := range m.Artifacts {
		i++
		c := "├── "
		if i == n {
			c = "└── "
		}
		fmt.Fprintf(w, "  %s%s%s [%s]\n", childPrefix, c, artifactLabel(a), Classify(a.Artifact))
	}
	for _, dep := range m.Dependencies {
		i++
		PrintTree(w, p, dep, childPrefix, i == n, seen)
	}
}

// PrintPlan prints the full install plan summary.
func PrintPlan(w io.Writer, p *Plan) {
	fmt.Fprintf(w, "Install plan for %s:\n", p.Component.Name)
	fmt.Fprintln(w)

	PrintTree(w, p, p.Report.Root, "", true, make(map[string]bool))
	fmt.Fprintln(w)

	var parts []string
	for _, a := range []Action{ActionCopy, ActionExtract, ActionSkip} {
		if n := p.Count(a); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, a))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(w, "  Artifacts: %s (%d total)\n", strings.Join(parts, ", "), len(p.Steps))
	}
	if n := p.Report.Fetched(); n > 0 {
		fmt.Fprintf(w, "  (%d artifacts downloaded to the cache)\n", n)
	}
}

func artifactLabel(a resolver.ResolvedArtifact) string {
	tokens := resolver.ArtifactTokens(a.Artifact)
	return resolver.Substitute(resolver.DefaultCachePattern, tokens)
}
