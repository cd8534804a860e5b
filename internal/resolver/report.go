package resolver

import (
	"github.com/opencontainers/go-digest"

	"github.com/marytts-labs/marytts-installer/internal/component"
)

// ResolvedArtifact is an artifact of the closure together with its cache
// location.
type ResolvedArtifact struct {
	component.Artifact
	Path   string        // file in the download cache
	Sum    digest.Digest // digest of the cached file
	Size   int64
	Cached bool // true when the cache already held the file
}

// ResolvedModule is one module of a closure.
type ResolvedModule struct {
	ID           component.ModuleID
	Descriptor   component.Descriptor
	Dependencies []component.ModuleID
	Artifacts    []ResolvedArtifact
}

// Report is the result of a resolution. Modules are ordered with
// dependencies before their dependents; the root module comes last.
type Report struct {
	Root         component.ModuleID
	Modules      []*ResolvedModule
	ResolvedFile string
}

// Artifacts returns the artifacts of all modules in module order.
func (r *Report) Artifacts() []ResolvedArtifact {
	var out []ResolvedArtifact
	for _, m := range r.Modules {
		out = append(out, m.Artifacts...)
	}
	return out
}

// Module returns the resolved module with the same organisation and module
// name as id, or nil.
func (r *Report) Module(id component.ModuleID) *ResolvedModule {
	for _, m := range r.Modules {
		if m.ID.Organisation == id.Organisation && m.ID.Module == id.Module {
			return m
		}
	}
	return nil
}

// Fetched counts the artifacts that had to be downloaded.
func (r *Report) Fetched() int {
	n := 0
	for _, a := range r.Artifacts() {
		if !a.Cached {
			n++
		}
	}
	return n
}
