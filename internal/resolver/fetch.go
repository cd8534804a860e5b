package resolver

import (
	"context"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"
	slogcontext "github.com/veqryn/slog-context"
	"golang.org/x/sync/errgroup"

	"github.com/marytts-labs/marytts-installer/internal/layout"
)

// fetchAll makes sure every artifact of report is in the cache. Fetches run
// in parallel up to the configured concurrency.
func (r *RepositoryResolver) fetchAll(ctx context.Context, report *Report) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for _, m := range report.Modules {
		for i := range m.Artifacts {
			ra := &m.Artifacts[i]
			g.Go(func() error {
				return r.fetchArtifact(gctx, ra)
			})
		}
	}
	return g.Wait()
}

// fetchArtifact fills in ra from the cache, downloading on a miss. A cached
// file whose digest does not match the declared one is fetched again.
func (r *RepositoryResolver) fetchArtifact(ctx context.Context, ra *ResolvedArtifact) error {
	ra.Path = r.patterns.CachePath(ra.Artifact)

	var expected digest.Digest
	algo := digest.Canonical
	if ra.Artifact.Digest != "" {
		d, err := digest.Parse(ra.Artifact.Digest)
		if err != nil {
			return fmt.Errorf("artifact %s: declared digest: %w", ra.Name, err)
		}
		expected, algo = d, d.Algorithm()
	}

	if info, err := os.Stat(ra.Path); err == nil && info.Mode().IsRegular() {
		dg, err := digestFile(ra.Path, algo)
		if err == nil && (expected == "" || dg == expected) {
			ra.Sum, ra.Size, ra.Cached = dg, info.Size(), true
			slogcontext.Debug(ctx, "Cache hit", "artifact", filepath.Base(ra.Path))
			return nil
		}
		slogcontext.Warn(ctx, "Cached artifact does not match, fetching again",
			"artifact", filepath.Base(ra.Path), "want", expected.String(), "got", dg.String())
	}

	src := Substitute(RepositoryArtifactPattern, ArtifactTokens(ra.Artifact))
	rc, total, err := r.repo.Open(ctx, src)
	if err != nil {
		return fmt.Errorf("artifact %s: %w", ra.Name, err)
	}
	defer rc.Close()

	if err := os.MkdirAll(filepath.Dir(ra.Path), layout.DirPermNormal); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(ra.Path), ".fetch-*")
	if err != nil {
		return fmt.Errorf("creating download file: %w", err)
	}
	defer os.Remove(tmp.Name())

	digester := algo.Digester()
	n, err := io.Copy(io.MultiWriter(tmp, digester.Hash()), rc)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("downloading %s: %w", src, err)
	}
	if total > 0 && n != total {
		return fmt.Errorf("downloading %s: got %d of %d bytes", src, n, total)
	}

	got := digester.Digest()
	if expected != "" && got != expected {
		return fmt.Errorf("artifact %s: digest mismatch: expected %s, got %s", ra.Name, expected, got)
	}
	if err := os.Rename(tmp.Name(), ra.Path); err != nil {
		return fmt.Errorf("storing %s: %w", ra.Path, err)
	}

	ra.Sum, ra.Size = got, n
	r.report("Downloaded %s (%d bytes)\n", filepath.Base(ra.Path), n)
	slogcontext.Debug(ctx, "Fetched artifact", "source", src, "bytes", n, "digest", got.String())
	return nil
}

func (r *RepositoryResolver) report(format string, args ...any) {
	if r.progress == nil {
		return
	}
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	fmt.Fprintf(r.progress, format, args...)
}

func digestFile(path string, algo digest.Algorithm) (digest.Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return algo.FromReader(f)
}

// copyFile copies src to dst through a temporary file in dst's directory.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), layout.DirPermNormal); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".install-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), info.Mode().Perm()); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
