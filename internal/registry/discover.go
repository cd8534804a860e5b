package registry

import (
	"context"
	"os"
	"strings"

	"github.com/gobwas/glob"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/marytts-labs/marytts-installer/internal/component"
	"github.com/marytts-labs/marytts-installer/internal/descriptor"
	"github.com/marytts-labs/marytts-installer/internal/layout"
)

// ResolvedPrefix marks descriptor files written by the resolver as a side
// effect of resolution. They are never catalog entries.
const ResolvedPrefix = "resolved"

// supplementaryPattern selects manually added descriptors in download/.
var supplementaryPattern = glob.MustCompile("*descriptor*.xml")

// Kind prefixes, most specific first.
var kindPrefixes = []struct {
	prefix string
	kind   component.Kind
}{
	{"voice", component.KindVoice},
	{"marytts-lang", component.KindLang},
	{"marytts", component.KindGeneric},
}

// Classify maps a descriptor file or module name to a component kind.
func Classify(name string) (component.Kind, bool) {
	for _, p := range kindPrefixes {
		if strings.HasPrefix(name, p.prefix) {
			return p.kind, true
		}
	}
	return 0, false
}

// IsSupplementary reports whether a file name in download/ is a manually
// added descriptor.
func IsSupplementary(name string) bool {
	return supplementaryPattern.Match(name) && !strings.HasPrefix(name, ResolvedPrefix)
}

type entry struct {
	loc          descriptor.Locator
	desc         component.Descriptor // set once parsed
	supplemental bool
}

// Build reads the bundled list plus supplementary descriptors under root and
// returns a new catalog with fresh statuses. A failing list source yields an
// empty catalog and a *layout.ConfigError; a failing descriptor is logged
// and skipped.
func Build(ctx context.Context, src Sources, root layout.Root) (*Catalog, error) {
	locs, err := src.List.List()
	if err != nil {
		return NewCatalog(), &layout.ConfigError{Op: "reading bundled descriptor list", Err: err}
	}

	entries := make([]entry, 0, len(locs))
	for _, loc := range locs {
		entries = append(entries, entry{loc: loc})
	}
	entries = append(entries, scanSupplementary(ctx, src.Parser, root)...)

	cat := NewCatalog()
	for _, e := range entries {
		d := e.desc
		if d == nil {
			d, err = src.Parser.Parse(e.loc)
			if err != nil {
				slogcontext.Warn(ctx, "Skipping unparsable descriptor", "source", e.loc.String(), "error", err)
				continue
			}
		}

		kind, ok := Classify(e.loc.Name())
		if !ok && e.supplemental {
			kind, ok = Classify(d.ID().Module)
		}
		if !ok {
			slogcontext.Debug(ctx, "Skipping unclassified descriptor", "source", e.loc.String())
			continue
		}

		comp := component.New(kind, d)
		comp.Status = ResolveStatus(comp.ArtifactName, root)
		if !cat.add(comp) {
			slogcontext.Warn(ctx, "Dropping duplicate component", "name", comp.Name, "source", e.loc.String())
			continue
		}
		slogcontext.Debug(ctx, "Added component",
			"name", comp.Name,
			"kind", comp.Kind.String(),
			"artifact", comp.ArtifactName,
			"status", comp.Status.String())
	}
	cat.sort()

	slogcontext.Info(ctx, "Catalog built", "components", cat.Len(), "root", root.Base())
	return cat, nil
}

// scanSupplementary returns the descriptors in download/ that parse and
// declare at least one dependency.
func scanSupplementary(ctx context.Context, parser descriptor.Parser, root layout.Root) []entry {
	if root.IsZero() {
		return nil
	}
	dir := root.Download()
	files, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			slogcontext.Warn(ctx, "Cannot scan download directory", "dir", dir, "error", err)
		}
		return nil
	}

	fsys := os.DirFS(dir)
	var out []entry
	for _, f := range files {
		if f.IsDir() || !IsSupplementary(f.Name()) {
			continue
		}
		loc := descriptor.Locator{FS: fsys, Path: f.Name(), Origin: dir}
		d, err := parser.Parse(loc)
		if err != nil {
			slogcontext.Warn(ctx, "Skipping supplementary descriptor", "file", f.Name(), "error", err)
			continue
		}
		if len(d.Dependencies()) == 0 {
			slogcontext.Debug(ctx, "Skipping descriptor without dependencies", "file", f.Name())
			continue
		}
		out = append(out, entry{loc: loc, desc: d, supplemental: true})
	}
	return out
}
