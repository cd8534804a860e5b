package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/marytts-labs/marytts-installer/internal/branding"
)

// ErrNotFound is returned by a Repository for a missing path.
var ErrNotFound = errors.New("not found in repository")

// Repository serves descriptors and artifacts by slash-separated path.
type Repository interface {
	// Open returns the content at p and its length, or -1 if unknown.
	Open(ctx context.Context, p string) (io.ReadCloser, int64, error)
	// List returns the names of the directories directly below dir.
	List(ctx context.Context, dir string) ([]string, error)
	String() string
}

// NewRepository returns a repository for location: an http(s) URL, a file
// URL or a local directory.
func NewRepository(location string, client *http.Client) (Repository, error) {
	u, err := url.Parse(location)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			if client == nil {
				client = http.DefaultClient
			}
			u.Path = strings.TrimSuffix(u.Path, "/")
			return &httpRepository{base: u, client: client}, nil
		case "file":
			return NewFileRepository(u.Path)
		}
	}
	return NewFileRepository(location)
}

// NewFileRepository returns a repository rooted at a local directory.
func NewFileRepository(dir string) (Repository, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving repository path %s: %w", dir, err)
	}
	return &fileRepository{dir: abs}, nil
}

type fileRepository struct {
	dir string
}

func (r *fileRepository) String() string { return r.dir }

func (r *fileRepository) Open(_ context.Context, p string) (io.ReadCloser, int64, error) {
	f, err := os.Open(filepath.Join(r.dir, filepath.FromSlash(p)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, fmt.Errorf("%s: %w", p, ErrNotFound)
		}
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

func (r *fileRepository) List(_ context.Context, dir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(r.dir, filepath.FromSlash(dir)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", dir, ErrNotFound)
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

type httpRepository struct {
	base   *url.URL
	client *http.Client
}

func (r *httpRepository) String() string { return r.base.String() }

func (r *httpRepository) url(p string) string {
	u := *r.base
	u.Path = path.Join(u.Path, p)
	if strings.HasSuffix(p, "/") {
		u.Path += "/"
	}
	return u.String()
}

func (r *httpRepository) get(ctx context.Context, p string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url(p), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", p, err)
	}
	req.Header.Set("User-Agent", branding.CLIName())

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", p, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %w", p, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, fmt.Errorf("fetching %s: status %d", p, resp.StatusCode)
	}
	return resp, nil
}

func (r *httpRepository) Open(ctx context.Context, p string) (io.ReadCloser, int64, error) {
	resp, err := r.get(ctx, p)
	if err != nil {
		return nil, 0, err
	}
	return resp.Body, resp.ContentLength, nil
}

// hrefDir matches links to subdirectories in a server-generated index page.
var hrefDir = regexp.MustCompile(`href="([^"/?#]+)/"`)

func (r *httpRepository) List(ctx context.Context, dir string) ([]string, error) {
	resp, err := r.get(ctx, strings.TrimSuffix(dir, "/")+"/")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading index of %s: %w", dir, err)
	}

	seen := make(map[string]bool)
	var names []string
	for _, m := range hrefDir.FindAllStringSubmatch(string(body), -1) {
		name, err := url.PathUnescape(m[1])
		if err != nil || name == "." || name == ".." || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
