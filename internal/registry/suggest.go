package registry

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance bounds the edit distance of a suggestion.
const maxSuggestDistance = 3

// Suggest returns up to three component names close to name, nearest first.
func (c *Catalog) Suggest(name string) []string {
	name = strings.ToLower(name)
	if name == "" {
		return nil
	}
	type candidate struct {
		name string
		dist int
	}
	var cands []candidate
	for _, comp := range c.items {
		key := comp.Key()
		d := levenshtein.ComputeDistance(name, key)
		if d > maxSuggestDistance && !strings.Contains(key, name) {
			continue
		}
		cands = append(cands, candidate{comp.Name, d})
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })

	var out []string
	for i := 0; i < len(cands) && i < 3; i++ {
		out = append(out, cands[i].name)
	}
	return out
}
