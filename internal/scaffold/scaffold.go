package scaffold

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	slogcontext "github.com/veqryn/slog-context"

	"github.com/marytts-labs/marytts-installer/internal/branding"
	"github.com/marytts-labs/marytts-installer/internal/layout"
	"github.com/marytts-labs/marytts-installer/internal/platform"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Launch script defaults.
const (
	DefaultHeap      = "1024m"
	DefaultMainClass = "marytts.server.Mary"
)

// ScaffoldData holds all template variables available to baseline templates.
type ScaffoldData struct {
	DisplayName string // e.g., "MaryTTS Installer"
	CLIName     string // e.g., "marytts-installer"
	Heap        string // JVM -Xmx value
	MainClass   string // server entry point
	Year        int    // Current year
}

// NewScaffoldData returns the data used when the caller has no overrides.
func NewScaffoldData() *ScaffoldData {
	return &ScaffoldData{
		DisplayName: branding.DisplayName(),
		CLIName:     branding.CLIName(),
		Heap:        DefaultHeap,
		MainClass:   DefaultMainClass,
		Year:        time.Now().Year(),
	}
}

// Result holds the outcome of a bootstrap run. Files lists what was written,
// Skipped lists what already existed. Both are relative to the root.
type Result struct {
	OutputDir string
	Files     []string
	Skipped   []string
}

// file maps one template onto its destination below the root.
type file struct {
	template   string
	dest       string
	executable bool
}

var baseline = []file{
	{template: "LICENSE.txt.tmpl", dest: layout.LicenseFile},
	{template: "marytts-server.tmpl", dest: filepath.Join(layout.BinDir, "marytts-server"), executable: true},
	{template: "marytts-server.bat.tmpl", dest: filepath.Join(layout.BinDir, "marytts-server.bat")},
}

// Bootstrap renders the baseline files into root with default data.
func Bootstrap(ctx context.Context, root layout.Root) (*Result, error) {
	return Generate(ctx, root, NewScaffoldData())
}

// Generate renders every baseline file that does not exist yet. Existing
// files are never overwritten.
func Generate(ctx context.Context, root layout.Root, data *ScaffoldData) (*Result, error) {
	if root.IsZero() {
		return nil, errors.New("scaffold: install root not set")
	}

	result := &Result{OutputDir: root.Base()}

	for _, f := range baseline {
		outPath := filepath.Join(root.Base(), f.dest)
		if _, err := os.Lstat(outPath); err == nil {
			result.Skipped = append(result.Skipped, filepath.ToSlash(f.dest))
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return result, fmt.Errorf("checking %s: %w", outPath, err)
		}

		content, err := render(f.template, data)
		if err != nil {
			return result, err
		}

		if err := os.MkdirAll(filepath.Dir(outPath), layout.DirPermNormal); err != nil {
			return result, fmt.Errorf("creating directory for %s: %w", f.dest, err)
		}
		if err := os.WriteFile(outPath, content, 0644); err != nil {
			return result, fmt.Errorf("writing %s: %w", outPath, err)
		}
		if f.executable {
			if err := platform.MakeExecutable(outPath); err != nil {
				return result, err
			}
		}

		slogcontext.Debug(ctx, "scaffolded baseline file", "path", outPath)
		result.Files = append(result.Files, filepath.ToSlash(f.dest))
	}

	return result, nil
}

func render(name string, data *ScaffoldData) ([]byte, error) {
	raw, err := fs.ReadFile(templateFS, "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", name, err)
	}

	tmpl, err := template.New(strings.TrimSuffix(name, ".tmpl")).Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
