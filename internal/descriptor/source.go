package descriptor

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// ListSource yields the ordered locators of the bundled descriptors.
type ListSource interface {
	List() ([]Locator, error)
}

// ListFile is the name of the descriptor list inside a bundle.
const ListFile = "component-list.json"

// FSListSource reads a JSON descriptor list from a file system. Entries are
// paths relative to the directory holding the list.
type FSListSource struct {
	FS       fs.FS
	ListPath string
	Origin   string
}

// NewFSListSource returns a source reading ListFile at the root of fsys.
func NewFSListSource(fsys fs.FS, origin string) *FSListSource {
	return &FSListSource{FS: fsys, ListPath: ListFile, Origin: origin}
}

// List reads and validates the list. Any failure here means the bundle is
// unusable; the error describes every schema violation.
func (s *FSListSource) List() ([]Locator, error) {
	data, err := fs.ReadFile(s.FS, s.ListPath)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor list: %w", err)
	}

	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating descriptor list %s: %w", s.ListPath, err)
	}
	if !result.Valid {
		return nil, fmt.Errorf("invalid descriptor list %s: %s", s.ListPath, result)
	}

	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding descriptor list %s: %w", s.ListPath, err)
	}

	dir := path.Dir(s.ListPath)
	locs := make([]Locator, 0, len(entries))
	for _, e := range entries {
		p := strings.TrimPrefix(e, "/")
		if dir != "." {
			p = path.Join(dir, p)
		}
		locs = append(locs, Locator{FS: s.FS, Path: p, Origin: s.Origin})
	}
	return locs, nil
}
