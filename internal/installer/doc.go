// Package installer is the session object the CLI talks to. It owns the
// install root, the component registry and the install orchestrator, and
// serializes operations that change the install tree against those that
// only read the catalog.
package installer
