package component

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/marytts-labs/marytts-installer/internal/layout"
)

// Kind discriminates the component variants.
type Kind int

const (
	KindGeneric Kind = iota
	KindLang
	KindVoice
)

func (k Kind) String() string {
	switch k {
	case KindLang:
		return "lang"
	case KindVoice:
		return "voice"
	default:
		return "component"
	}
}

// UnitSelection is the voice type whose data ships as a separate archive
// unpacked below lib/voices.
const UnitSelection = "unit selection"

// Extra descriptor attributes read into a Component.
const (
	AttrName   = "name"
	AttrLocale = "locale"
	AttrGender = "gender"
	AttrType   = "type"
	AttrSize   = "size"
)

// Component is an installable unit. Everything but Status is fixed at
// construction.
type Component struct {
	Name         string
	ArtifactName string
	Size         int64
	Status       Status
	Kind         Kind

	// Locale is set for KindLang and KindVoice.
	Locale string
	// Gender and Type are set for KindVoice.
	Gender string
	Type   string

	Revision     string
	Organisation string
	Description  string
	License      string

	Descriptor Descriptor
}

// New builds a component of the given kind from its descriptor. The primary
// artifact name is derived from the first jar publication.
func New(kind Kind, d Descriptor) *Component {
	id := d.ID()
	c := &Component{
		Name:         id.Module,
		ArtifactName: ArtifactName(d),
		Kind:         kind,
		Revision:     id.Revision,
		Organisation: id.Organisation,
		Description:  strings.TrimSpace(d.Description()),
		License:      d.License(),
		Descriptor:   d,
	}
	if size, err := strconv.ParseInt(d.ExtraAttribute(AttrSize), 10, 64); err == nil {
		c.Size = size
	}
	if kind == KindLang || kind == KindVoice {
		c.Locale = d.ExtraAttribute(AttrLocale)
	}
	if kind == KindVoice {
		c.Gender = d.ExtraAttribute(AttrGender)
		c.Type = d.ExtraAttribute(AttrType)
	}
	return c
}

// ArtifactName returns the file name of the module's primary artifact:
// "<artifact>-<revision>.<ext>" for the first jar publication, or
// "<module>-<revision>.jar" when the descriptor publishes none.
func ArtifactName(d Descriptor) string {
	id := d.ID()
	for _, a := range d.Artifacts() {
		if a.Type != "jar" {
			continue
		}
		ext := a.Ext
		if ext == "" {
			ext = a.Type
		}
		return a.Name + "-" + id.Revision + "." + ext
	}
	return id.Module + "-" + id.Revision + ".jar"
}

// Key is the catalog ordering key.
func (c *Component) Key() string {
	return strings.ToLower(c.Name)
}

// HasLocale reports whether the component carries a locale.
func (c *Component) HasLocale() bool {
	return c.Kind == KindLang || c.Kind == KindVoice
}

// IsVoice reports whether the component is a voice.
func (c *Component) IsVoice() bool {
	return c.Kind == KindVoice
}

// IsUnitSelection reports whether the component is a unit-selection voice.
func (c *Component) IsUnitSelection() bool {
	return c.Kind == KindVoice && c.Type == UnitSelection
}

// BareName is the component name without its kind prefix, taken from the
// descriptor's "name" extra attribute. It names the voice data directory,
// so a value that is not a single path element falls back to Name.
func (c *Component) BareName() string {
	if c.Descriptor != nil {
		if n := c.Descriptor.ExtraAttribute(AttrName); layout.IsPathElement(n) {
			return n
		}
	}
	return c.Name
}

// Language parses the locale ("en_GB" or "en-GB"). It returns language.Und
// for components without a usable locale.
func (c *Component) Language() language.Tag {
	if !c.HasLocale() || c.Locale == "" {
		return language.Und
	}
	tag, err := language.Parse(strings.ReplaceAll(c.Locale, "_", "-"))
	if err != nil {
		return language.Und
	}
	return tag
}

// Less orders components by name, ignoring case.
func Less(a, b *Component) bool {
	return a.Key() < b.Key()
}
