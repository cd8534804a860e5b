// Package config manages user-level settings stored at ~/.marytts/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the install root and the component repository location.
package config
