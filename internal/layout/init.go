package layout

import (
	"context"
	"fmt"
	"os"

	slogcontext "github.com/veqryn/slog-context"
)

// Ensure creates lib/ and download/ below the root. Existing directories are
// left alone.
func Ensure(ctx context.Context, r Root) error {
	for _, dir := range []string{r.Lib(), r.Download()} {
		if err := ensureDir(ctx, dir); err != nil {
			return err
		}
	}
	return nil
}

func ensureDir(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return &ConfigError{Op: "preparing install tree", Path: path, Err: fmt.Errorf("exists but is not a directory")}
		}
		return nil
	}
	if err := os.MkdirAll(path, DirPermNormal); err != nil {
		return &ConfigError{Op: "preparing install tree", Path: path, Err: err}
	}
	slogcontext.Debug(ctx, "created directory", "path", path)
	return nil
}
