package registry

import (
	"strings"

	"github.com/marytts-labs/marytts-installer/internal/component"
)

// All is the wildcard criterion value.
const All = "all"

// Query selects components. Empty or "all" criteria are ignored; the rest
// are combined with AND.
type Query struct {
	Locale    string
	Type      string
	Gender    string
	Status    string
	Name      string
	VoiceOnly bool
}

// IsZero reports whether q selects everything.
func (q Query) IsZero() bool {
	return !active(q.Locale) && !active(q.Type) && !active(q.Gender) &&
		!active(q.Status) && !active(q.Name) && !q.VoiceOnly
}

func active(v string) bool {
	return v != "" && !strings.EqualFold(v, All)
}

type predicate func(*component.Component) bool

func (q Query) predicates() []predicate {
	var ps []predicate
	if active(q.Locale) {
		ps = append(ps, func(c *component.Component) bool {
			return c.HasLocale() && strings.EqualFold(c.Locale, q.Locale)
		})
	}
	if active(q.Type) {
		ps = append(ps, func(c *component.Component) bool {
			return c.IsVoice() && strings.EqualFold(c.Type, q.Type)
		})
	}
	if active(q.Gender) {
		ps = append(ps, func(c *component.Component) bool {
			return c.IsVoice() && strings.EqualFold(c.Gender, q.Gender)
		})
	}
	if active(q.Status) {
		ps = append(ps, func(c *component.Component) bool {
			return c.Status.MatchesName(q.Status)
		})
	}
	if active(q.Name) {
		ps = append(ps, func(c *component.Component) bool {
			return strings.EqualFold(c.Name, q.Name)
		})
	}
	if q.VoiceOnly {
		ps = append(ps, (*component.Component).IsVoice)
	}
	return ps
}

// Filter returns the components of cat matching q, in canonical order.
func Filter(cat *Catalog, q Query) []*component.Component {
	ps := q.predicates()
	out := make([]*component.Component, 0, cat.Len())
next:
	for _, c := range cat.items {
		for _, p := range ps {
			if !p(c) {
				continue next
			}
		}
		out = append(out, c)
	}
	return out
}
