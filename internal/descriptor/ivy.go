package descriptor

import (
	"encoding/xml"
	"strings"

	"github.com/marytts-labs/marytts-installer/internal/component"
)

// ExtraNamespace is the XML namespace of Ivy extra attributes (e:name,
// e:locale, e:classifier, ...).
const ExtraNamespace = "http://ant.apache.org/ivy/extra"

type ivyModule struct {
	XMLName      xml.Name        `xml:"ivy-module"`
	Attrs        []xml.Attr      `xml:",any,attr"`
	Info         ivyInfo         `xml:"info"`
	Publications []ivyArtifact   `xml:"publications>artifact"`
	Dependencies []ivyDependency `xml:"dependencies>dependency"`
}

type ivyInfo struct {
	Organisation string      `xml:"organisation,attr"`
	Module       string      `xml:"module,attr"`
	Revision     string      `xml:"revision,attr"`
	Attrs        []xml.Attr  `xml:",any,attr"`
	License      *ivyLicense `xml:"license,omitempty"`
	Description  string      `xml:"description,omitempty"`
}

type ivyLicense struct {
	Name string `xml:"name,attr"`
	URL  string `xml:"url,attr,omitempty"`
}

type ivyArtifact struct {
	Name  string     `xml:"name,attr"`
	Type  string     `xml:"type,attr,omitempty"`
	Ext   string     `xml:"ext,attr,omitempty"`
	Attrs []xml.Attr `xml:",any,attr"`
}

type ivyDependency struct {
	Org       string        `xml:"org,attr,omitempty"`
	Name      string        `xml:"name,attr"`
	Rev       string        `xml:"rev,attr"`
	Artifacts []ivyArtifact `xml:"artifact"`
}

// extras collects the attributes bound to a non-default namespace.
func extras(attrs []xml.Attr) map[string]string {
	out := make(map[string]string)
	for _, a := range attrs {
		if a.Name.Space == "" || a.Name.Space == "xmlns" {
			continue
		}
		out[a.Name.Local] = a.Value
	}
	return out
}

func (a ivyArtifact) toArtifact(id component.ModuleID, defaultName string) component.Artifact {
	e := extras(a.Attrs)
	art := component.Artifact{
		Module:     id,
		Name:       a.Name,
		Type:       a.Type,
		Ext:        a.Ext,
		Classifier: e["classifier"],
		Digest:     e["digest"],
	}
	if art.Name == "" {
		art.Name = defaultName
	}
	if art.Type == "" {
		art.Type = "jar"
	}
	if art.Ext == "" {
		art.Ext = art.Type
	}
	return art
}

// ModuleDescriptor is a parsed Ivy module descriptor. It implements
// component.Descriptor.
type ModuleDescriptor struct {
	id           component.ModuleID
	extra        map[string]string
	artifacts    []component.Artifact
	dependencies []component.Dependency
	description  string
	license      string
}

func newModuleDescriptor(m *ivyModule) *ModuleDescriptor {
	id := component.ModuleID{
		Organisation: strings.TrimSpace(m.Info.Organisation),
		Module:       strings.TrimSpace(m.Info.Module),
		Revision:     strings.TrimSpace(m.Info.Revision),
	}
	d := &ModuleDescriptor{
		id:          id,
		extra:       extras(m.Info.Attrs),
		description: strings.Join(strings.Fields(m.Info.Description), " "),
	}
	if m.Info.License != nil {
		d.license = m.Info.License.Name
	}
	for _, a := range m.Publications {
		d.artifacts = append(d.artifacts, a.toArtifact(id, id.Module))
	}
	for _, dep := range m.Dependencies {
		org := dep.Org
		if org == "" {
			org = id.Organisation
		}
		depID := component.ModuleID{Organisation: org, Module: dep.Name, Revision: dep.Rev}
		cd := component.Dependency{Organisation: org, Module: dep.Name, Revision: dep.Rev}
		for _, a := range dep.Artifacts {
			cd.Artifacts = append(cd.Artifacts, a.toArtifact(depID, dep.Name))
		}
		d.dependencies = append(d.dependencies, cd)
	}
	return d
}

func (d *ModuleDescriptor) ID() component.ModuleID { return d.id }
func (d *ModuleDescriptor) Artifacts() []component.Artifact { return d.artifacts }
func (d *ModuleDescriptor) Dependencies() []component.Dependency { return d.dependencies }
func (d *ModuleDescriptor) ExtraAttribute(name string) string { return d.extra[name] }
func (d *ModuleDescriptor) Description() string { return d.description }
func (d *ModuleDescriptor) License() string { return d.license }

// knownExtras are the info attributes copied when pinning a descriptor that
// is not a *ModuleDescriptor.
var knownExtras = []string{
	component.AttrName,
	component.AttrLocale,
	component.AttrGender,
	component.AttrType,
	component.AttrSize,
}

// Pinned returns a copy of d whose dependencies are replaced by deps. The
// resolver uses it to record the revisions it selected.
func Pinned(d component.Descriptor, deps []component.Dependency) *ModuleDescriptor {
	p := &ModuleDescriptor{
		id:           d.ID(),
		extra:        make(map[string]string),
		artifacts:    d.Artifacts(),
		dependencies: deps,
		description:  d.Description(),
		license:      d.License(),
	}
	if md, ok := d.(*ModuleDescriptor); ok {
		for k, v := range md.extra {
			p.extra[k] = v
		}
		return p
	}
	for _, k := range knownExtras {
		if v := d.ExtraAttribute(k); v != "" {
			p.extra[k] = v
		}
	}
	return p
}
