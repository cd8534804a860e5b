package resolver

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Dynamic revision keywords.
const (
	LatestRelease     = "latest.release"
	LatestIntegration = "latest.integration"
)

// IsDynamic reports whether rev needs a revision listing to be resolved.
func IsDynamic(rev string) bool {
	if rev == "" || strings.HasPrefix(rev, "latest.") {
		return true
	}
	return strings.ContainsAny(rev, "<>=~^*|,[]()") || strings.HasSuffix(rev, ".x")
}

// Constraint turns a revision requirement into a semver constraint. Ivy
// ranges such as "[5.0,6.0)" and "[5.2,)" are translated.
func Constraint(rev string) (*semver.Constraints, error) {
	expr := rev
	if r, ok := ivyRange(rev); ok {
		expr = r
	}
	c, err := semver.NewConstraint(expr)
	if err != nil {
		return nil, fmt.Errorf("parsing revision constraint %q: %w", rev, err)
	}
	return c, nil
}

func ivyRange(rev string) (string, bool) {
	if len(rev) < 3 {
		return "", false
	}
	lb, rb := rev[0], rev[len(rev)-1]
	if (lb != '[' && lb != '(' && lb != ']') || (rb != ']' && rb != ')' && rb != '[') {
		return "", false
	}
	lo, hi, ok := strings.Cut(rev[1:len(rev)-1], ",")
	if !ok {
		return "", false
	}
	lo, hi = strings.TrimSpace(lo), strings.TrimSpace(hi)

	var parts []string
	if lo != "" {
		op := ">="
		if lb != '[' {
			op = ">"
		}
		parts = append(parts, op+" "+lo)
	}
	if hi != "" {
		op := "<="
		if rb != ']' {
			op = "<"
		}
		parts = append(parts, op+" "+hi)
	}
	if len(parts) == 0 {
		return "*", true
	}
	return strings.Join(parts, ", "), true
}

// SelectRevision returns the highest of available satisfying rev. Entries
// that are not versions are ignored. latest.release excludes prereleases.
func SelectRevision(rev string, available []string) (string, error) {
	var constraint *semver.Constraints
	includePre := false
	switch rev {
	case "", LatestRelease:
	case LatestIntegration:
		includePre = true
	default:
		c, err := Constraint(rev)
		if err != nil {
			return "", err
		}
		constraint = c
	}

	var best *semver.Version
	bestRaw := ""
	for _, raw := range available {
		v, err := parseRevision(raw)
		if err != nil {
			continue
		}
		if v.Prerelease() != "" && !includePre && constraint == nil {
			continue
		}
		if constraint != nil && !constraint.Check(v) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best, bestRaw = v, raw
		}
	}
	if best == nil {
		return "", fmt.Errorf("no revision matches %q among %v", rev, available)
	}
	return bestRaw, nil
}

// CompareRevisions orders two revisions. Non-semver revisions compare
// lexically after all semver ones.
func CompareRevisions(a, b string) int {
	va, errA := parseRevision(a)
	vb, errB := parseRevision(b)
	switch {
	case errA == nil && errB == nil:
		return va.Compare(vb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func parseRevision(rev string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimPrefix(rev, "v"))
}
