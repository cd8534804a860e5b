package layout

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/marytts-labs/marytts-installer/internal/branding"
)

// Directory and file names below the install root.
const (
	LibDir      = "lib"
	DownloadDir = "download"
	BinDir      = "bin"
	VoicesDir   = "voices"
	LicenseFile = "LICENSE.txt"
)

// DirPermNormal is used for every directory created below the root.
const DirPermNormal os.FileMode = 0755

// ConfigError reports that the install root or the bundled descriptor list
// could not be established. Callers treat it as fatal.
type ConfigError struct {
	Op   string
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IsConfigError reports whether err carries a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// Root is a canonical install root.
type Root struct {
	base string
}

// NewRoot wraps an already canonical base path without touching the disk.
func NewRoot(base string) Root {
	return Root{base: filepath.Clean(base)}
}

// Base returns the install root directory.
func (r Root) Base() string { return r.base }

// IsZero reports whether no root has been selected.
func (r Root) IsZero() bool { return r.base == "" }

// Lib returns <root>/lib.
func (r Root) Lib() string { return filepath.Join(r.base, LibDir) }

// Download returns <root>/download.
func (r Root) Download() string { return filepath.Join(r.base, DownloadDir) }

// Bin returns <root>/bin.
func (r Root) Bin() string { return filepath.Join(r.base, BinDir) }

// License returns <root>/LICENSE.txt.
func (r Root) License() string { return filepath.Join(r.base, LicenseFile) }

// InstalledArtifact returns <root>/lib/<artifactName>.
func (r Root) InstalledArtifact(artifactName string) string {
	return filepath.Join(r.Lib(), artifactName)
}

// CachedArtifact returns <root>/download/<artifactName>.
func (r Root) CachedArtifact(artifactName string) string {
	return filepath.Join(r.Download(), artifactName)
}

// VoiceData returns <root>/lib/voices/<name>, the directory a unit-selection
// voice's data archive unpacks into.
func (r Root) VoiceData(name string) string {
	return filepath.Join(r.Lib(), VoicesDir, name)
}

// IsPathElement reports whether name is a single file name that stays inside
// the directory it is joined to.
func IsPathElement(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}

// Select canonicalizes base and makes sure it exists. A path naming an
// existing regular file (such as the installer binary itself) is replaced by
// its parent directory.
func Select(base string) (Root, error) {
	if base == "" {
		return Root{}, &ConfigError{Op: "selecting install root", Err: errors.New("empty path")}
	}

	abs, err := filepath.Abs(base)
	if err != nil {
		return Root{}, &ConfigError{Op: "resolving install root", Path: base, Err: err}
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	if info, err := os.Stat(abs); err == nil && info.Mode().IsRegular() {
		abs = filepath.Dir(abs)
	}

	if err := os.MkdirAll(abs, DirPermNormal); err != nil {
		return Root{}, &ConfigError{Op: "creating install root", Path: abs, Err: err}
	}

	return NewRoot(abs), nil
}

// DefaultBase picks the install root candidate. Resolution order:
//  1. explicit (the --root flag)
//  2. <PREFIX>_BASE environment variable
//  3. configured (config key install_root)
//  4. directory containing the running executable
func DefaultBase(explicit, configured string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if v := os.Getenv(branding.EnvVar("BASE")); v != "" {
		return v, nil
	}
	if configured != "" {
		return configured, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", &ConfigError{Op: "locating executable", Err: err}
	}
	return filepath.Dir(exe), nil
}
