package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/marytts-labs/marytts-installer/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Known configuration keys.
const (
	KeyInstallRoot = "install_root"
	KeyRepository  = "repository"
)

var known = map[string]string{
	KeyInstallRoot: "directory holding lib/, download/ and bin/",
	KeyRepository:  "component repository, a directory or an http(s) URL",
}

// Keys returns the known configuration keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(known))
	for k := range known {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Describe returns the one-line description of a known key.
func Describe(key string) string { return known[key] }

// UnknownKeyError is returned by Set for keys outside Keys.
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown config key %q (known: %s)", e.Key, strings.Join(Keys(), ", "))
}

// Dir returns the path to the config directory (~/.marytts/).
// The <PREFIX>_CONFIG_DIR environment variable overrides it.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("CONFIG_DIR")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.marytts/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()
	viper.SetDefault(KeyRepository, branding.RepositoryURL())

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// InstallRoot returns the configured install root, or "" when unset.
func InstallRoot() string {
	return Get(KeyInstallRoot)
}

// Repository returns the configured component repository (a directory or an
// http(s) URL).
func Repository() string {
	return Get(KeyRepository)
}

// Set writes a known config key and saves the config file, creating the
// config directory as needed.
func Set(key, value string) error {
	if _, ok := known[key]; !ok {
		return &UnknownKeyError{Key: key}
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)
	if err := viper.WriteConfigAs(FilePath()); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
