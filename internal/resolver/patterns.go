package resolver

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/marytts-labs/marytts-installer/internal/component"
	"github.com/marytts-labs/marytts-installer/internal/layout"
)

// Default naming patterns. Tokens are written [token]; a group in
// parentheses is dropped when any token inside it is empty.
const (
	DefaultCachePattern       = "[artifact]-[revision](-[classifier]).[ext]"
	DefaultInstallPattern     = "lib/[artifact]-[revision](-[classifier]).[ext]"
	DefaultResolvedPattern    = "resolved-[organisation]-[module]-[revision].xml"
	DefaultIvyCachePattern    = "[module]-[revision]-ivy.xml"
	RepositoryIvyPattern      = "[organisation]/[module]/[revision]/ivy.xml"
	RepositoryArtifactPattern = "[organisation]/[module]/[revision]/[artifact]-[revision](-[classifier]).[ext]"
)

// Patterns locates artifacts in the cache and in the install root.
type Patterns struct {
	Root    layout.Root
	Cache   string // relative to Root.Download()
	Install string // relative to Root.Base()
}

// DefaultPatterns returns the standard layout for root.
func DefaultPatterns(root layout.Root) Patterns {
	return Patterns{Root: root, Cache: DefaultCachePattern, Install: DefaultInstallPattern}
}

// CacheDir is the resolution cache directory.
func (p Patterns) CacheDir() string { return p.Root.Download() }

// CachePath returns where a resolved artifact is kept in the cache.
func (p Patterns) CachePath(a component.Artifact) string {
	return filepath.Join(p.CacheDir(), filepath.FromSlash(Substitute(p.Cache, ArtifactTokens(a))))
}

// InstallPath returns where an admitted artifact is installed.
func (p Patterns) InstallPath(a component.Artifact) string {
	return filepath.Join(p.Root.Base(), filepath.FromSlash(Substitute(p.Install, ArtifactTokens(a))))
}

// InstallDir is the directory part of the install pattern. Data archives
// are extracted here.
func (p Patterns) InstallDir() string {
	dir := path.Dir(p.Install)
	for strings.ContainsAny(dir, "[(") {
		dir = path.Dir(dir)
	}
	return filepath.Join(p.Root.Base(), filepath.FromSlash(dir))
}

// ArtifactTokens returns the substitution tokens of an artifact.
func ArtifactTokens(a component.Artifact) map[string]string {
	ext := a.Ext
	if ext == "" {
		ext = a.Type
	}
	return map[string]string{
		"organisation": a.Module.Organisation,
		"organization": a.Module.Organisation,
		"module":       a.Module.Module,
		"revision":     a.Module.Revision,
		"artifact":     a.Name,
		"type":         a.Type,
		"ext":          ext,
		"classifier":   a.Classifier,
	}
}

// ModuleTokens returns the substitution tokens of a module.
func ModuleTokens(id component.ModuleID) map[string]string {
	return map[string]string{
		"organisation": id.Organisation,
		"organization": id.Organisation,
		"module":       id.Module,
		"revision":     id.Revision,
	}
}

// Substitute expands [token] references in pattern. Unknown tokens expand
// to the empty string. A parenthesised group is kept, without its
// parentheses, only if every token inside it is non-empty.
func Substitute(pattern string, tokens map[string]string) string {
	var out, group strings.Builder
	inGroup, groupOK := false, true
	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]
		switch {
		case ch == '(' && !inGroup:
			inGroup, groupOK = true, true
			group.Reset()
		case ch == ')' && inGroup:
			inGroup = false
			if groupOK {
				out.WriteString(group.String())
			}
		case ch == '[':
			end := strings.IndexByte(pattern[i:], ']')
			if end < 0 {
				w := &out
				if inGroup {
					w = &group
				}
				w.WriteString(pattern[i:])
				i = len(pattern)
				continue
			}
			v := tokens[pattern[i+1:i+end]]
			if inGroup {
				if v == "" {
					groupOK = false
				}
				group.WriteString(v)
			} else {
				out.WriteString(v)
			}
			i += end
		default:
			if inGroup {
				group.WriteByte(ch)
			} else {
				out.WriteByte(ch)
			}
		}
	}
	if inGroup {
		out.WriteString("(" + group.String())
	}
	return out.String()
}
