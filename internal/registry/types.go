package registry

import (
	"sort"
	"strings"

	"github.com/marytts-labs/marytts-installer/internal/component"
	"github.com/marytts-labs/marytts-installer/internal/descriptor"
	"github.com/marytts-labs/marytts-installer/internal/layout"
)

// Sources are the collaborators a catalog is built from.
type Sources struct {
	List   descriptor.ListSource
	Parser descriptor.Parser
}

// Catalog is an ordered set of components keyed by lower-cased name.
type Catalog struct {
	items []*component.Component
	index map[string]*component.Component
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{index: make(map[string]*component.Component)}
}

// add inserts c unless a component with the same key exists. It reports
// whether c was added.
func (c *Catalog) add(comp *component.Component) bool {
	if _, ok := c.index[comp.Key()]; ok {
		return false
	}
	c.index[comp.Key()] = comp
	c.items = append(c.items, comp)
	return true
}

func (c *Catalog) sort() {
	sort.SliceStable(c.items, func(i, j int) bool {
		return component.Less(c.items[i], c.items[j])
	})
}

// Len returns the number of components.
func (c *Catalog) Len() int { return len(c.items) }

// All returns the components in canonical order. The slice is a copy; the
// components are shared.
func (c *Catalog) All() []*component.Component {
	out := make([]*component.Component, len(c.items))
	copy(out, c.items)
	return out
}

// Lookup finds a component by name, ignoring case.
func (c *Catalog) Lookup(name string) (*component.Component, bool) {
	comp, ok := c.index[strings.ToLower(name)]
	return comp, ok
}

// HasName reports whether a component with this name exists, ignoring case.
func (c *Catalog) HasName(name string) bool {
	_, ok := c.Lookup(name)
	return ok
}

// SizeOf returns the size of the named component, or 0 if it is unknown.
func (c *Catalog) SizeOf(name string) int64 {
	if comp, ok := c.Lookup(name); ok {
		return comp.Size
	}
	return 0
}

// Names returns the component names in canonical order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.items))
	for i, comp := range c.items {
		names[i] = comp.Name
	}
	return names
}

// RefreshStatuses re-derives every component's status from root.
func (c *Catalog) RefreshStatuses(root layout.Root) {
	for _, comp := range c.items {
		comp.Status = ResolveStatus(comp.ArtifactName, root)
	}
}
