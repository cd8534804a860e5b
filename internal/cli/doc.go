// Package cli defines the Cobra command tree for the marytts-installer CLI.
// Each file in this package registers one top-level command (list, install,
// uninstall, etc.) with the root command. Command implementations delegate
// to the installer session for business logic and only handle flag parsing,
// output formatting, and user interaction.
package cli
