package descriptor

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"

	"github.com/marytts-labs/marytts-installer/internal/component"
)

// Locator addresses one descriptor inside a file system.
type Locator struct {
	FS     fs.FS
	Path   string
	Origin string // "bundled" or the directory FS is rooted at
}

// Name returns the file name of the descriptor.
func (l Locator) Name() string { return path.Base(l.Path) }

func (l Locator) String() string {
	if l.Origin == "" {
		return l.Path
	}
	return l.Origin + ":" + l.Path
}

// ParseError reports a descriptor that could not be read or decoded. It is
// recoverable: the catalog builder logs it and skips the descriptor.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing descriptor %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsParseError reports whether err carries a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// Parser turns a located descriptor into its parsed form.
type Parser interface {
	Parse(loc Locator) (component.Descriptor, error)
}

// XMLParser parses Ivy XML module descriptors.
type XMLParser struct{}

// Parse implements Parser. All failures are *ParseError.
func (XMLParser) Parse(loc Locator) (component.Descriptor, error) {
	data, err := fs.ReadFile(loc.FS, loc.Path)
	if err != nil {
		return nil, &ParseError{Source: loc.String(), Err: err}
	}
	d, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Source: loc.String(), Err: err}
	}
	return d, nil
}

// ParseFile parses the descriptor at a file system path.
func ParseFile(p string) (*ModuleDescriptor, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, &ParseError{Source: p, Err: err}
	}
	defer f.Close()

	d, err := Decode(f)
	if err != nil {
		return nil, &ParseError{Source: p, Err: err}
	}
	return d, nil
}

// Decode reads one Ivy module descriptor from r. The module and revision
// attributes of <info> are required.
func Decode(r io.Reader) (*ModuleDescriptor, error) {
	var m ivyModule
	if err := xml.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decoding XML: %w", err)
	}
	if m.Info.Module == "" {
		return nil, errors.New("info: missing module attribute")
	}
	if m.Info.Revision == "" {
		return nil, fmt.Errorf("info: module %s: missing revision attribute", m.Info.Module)
	}
	for i, dep := range m.Dependencies {
		if dep.Name == "" {
			return nil, fmt.Errorf("dependency %d: missing name attribute", i)
		}
	}
	return newModuleDescriptor(&m), nil
}

// Encode writes d as an Ivy module descriptor.
func Encode(w io.Writer, d *ModuleDescriptor) error {
	m := ivyModule{
		Attrs: []xml.Attr{
			{Name: xml.Name{Local: "version"}, Value: "2.0"},
			{Name: xml.Name{Local: "xmlns:e"}, Value: ExtraNamespace},
		},
		Info: ivyInfo{
			Organisation: d.id.Organisation,
			Module:       d.id.Module,
			Revision:     d.id.Revision,
			Attrs:        extraAttrs(d.extra),
			Description:  d.description,
		},
	}
	if d.license != "" {
		m.Info.License = &ivyLicense{Name: d.license}
	}
	for _, a := range d.artifacts {
		m.Publications = append(m.Publications, fromArtifact(a))
	}
	for _, dep := range d.dependencies {
		id := ivyDependency{Org: dep.Organisation, Name: dep.Module, Rev: dep.Revision}
		for _, a := range dep.Artifacts {
			id.Artifacts = append(id.Artifacts, fromArtifact(a))
		}
		m.Dependencies = append(m.Dependencies, id)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encoding descriptor %s: %w", d.id, err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func extraAttrs(extra map[string]string) []xml.Attr {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	attrs := make([]xml.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "e:" + k}, Value: extra[k]})
	}
	return attrs
}

func fromArtifact(a component.Artifact) ivyArtifact {
	extra := make(map[string]string)
	if a.Classifier != "" {
		extra["classifier"] = a.Classifier
	}
	if a.Digest != "" {
		extra["digest"] = a.Digest
	}
	return ivyArtifact{Name: a.Name, Type: a.Type, Ext: a.Ext, Attrs: extraAttrs(extra)}
}
