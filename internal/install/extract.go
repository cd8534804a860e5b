package install

import (
	"archive/zip"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nlepage/go-tarfs"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/marytts-labs/marytts-installer/internal/layout"
)

// ExtractionError reports that a data archive could not be unpacked. The
// install continues with the remaining artifacts.
type ExtractionError struct {
	Artifact string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.Artifact, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// IsExtractionError reports whether err carries an *ExtractionError.
func IsExtractionError(err error) bool {
	var ee *ExtractionError
	return errors.As(err, &ee)
}

// openArchive exposes an archive file as a read-only file system.
func openArchive(path, format string) (fs.FS, func() error, error) {
	if format == "zip" {
		r, err := zip.OpenReader(path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening zip archive: %w", err)
		}
		return r, r.Close, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening archive: %w", err)
	}
	var reader io.Reader = f
	closer := f.Close
	if format == "tgz" {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		reader = gz
		closer = func() error {
			return errors.Join(gz.Close(), f.Close())
		}
	}

	tfs, err := tarfs.New(reader)
	if err != nil {
		closer()
		return nil, nil, fmt.Errorf("reading tar archive: %w", err)
	}
	return tfs, closer, nil
}

// Extract unpacks the archive at path into dest, overwriting files that
// already exist. It returns the number of files written. Links and other
// special entries are skipped.
func Extract(ctx context.Context, path, format, dest string) (int, error) {
	fsys, closer, err := openArchive(path, format)
	if err != nil {
		return 0, &ExtractionError{Artifact: filepath.Base(path), Err: err}
	}
	defer closer()

	n, err := extractFS(ctx, fsys, dest)
	if err != nil {
		return n, &ExtractionError{Artifact: filepath.Base(path), Err: err}
	}
	return n, nil
}

func extractFS(ctx context.Context, fsys fs.FS, dest string) (int, error) {
	n := 0
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p == "." {
			return nil
		}

		target := filepath.Join(dest, filepath.FromSlash(p))
		switch {
		case d.IsDir():
			return os.MkdirAll(target, layout.DirPermNormal)
		case d.Type().IsRegular():
			if err := writeEntry(fsys, p, target); err != nil {
				return err
			}
			n++
			return nil
		default:
			slogcontext.Debug(ctx, "Skipping archive entry", "entry", p, "type", d.Type().String())
			return nil
		}
	})
	return n, err
}

func writeEntry(fsys fs.FS, name, target string) error {
	src, err := fsys.Open(name)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(target), layout.DirPermNormal); err != nil {
		return err
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return out.Close()
}
