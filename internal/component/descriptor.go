package component

import "fmt"

// ModuleID identifies one revision of a module.
type ModuleID struct {
	Organisation string
	Module       string
	Revision     string
}

func (id ModuleID) String() string {
	return fmt.Sprintf("%s#%s;%s", id.Organisation, id.Module, id.Revision)
}

// Artifact is a file published by a module.
type Artifact struct {
	Module     ModuleID
	Name       string
	Type       string // e.g. "jar", "zip"
	Ext        string
	Classifier string // extra attribute, e.g. "data"
	Digest     string // optional, "sha256:<hex>"
}

// Dependency is an edge to another module. Revision may be an exact
// revision, "latest.release", or a semver constraint.
type Dependency struct {
	Organisation string
	Module       string
	Revision     string
	// Artifacts lists the dependency artifacts named explicitly in the
	// descriptor. When empty, all publications of the module are used.
	Artifacts []Artifact
}

// Descriptor is the parsed metadata record of a module. It is the narrow
// view of the resolver's module graph that the catalog works with.
type Descriptor interface {
	ID() ModuleID
	Dependencies() []Dependency
	Artifacts() []Artifact
	// ExtraAttribute returns the value of an extra info attribute such as
	// "name", "locale" or "size", or "" if absent.
	ExtraAttribute(name string) string
	Description() string
	License() string
}
