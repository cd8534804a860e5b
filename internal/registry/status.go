package registry

import (
	"os"

	"github.com/marytts-labs/marytts-installer/internal/component"
	"github.com/marytts-labs/marytts-installer/internal/layout"
)

// ResolveStatus derives a status from filesystem evidence: a file in lib/
// means installed, a file in download/ means downloaded.
func ResolveStatus(artifactName string, root layout.Root) component.Status {
	if root.IsZero() || artifactName == "" {
		return component.Available
	}
	if exists(root.InstalledArtifact(artifactName)) {
		return component.Installed
	}
	if exists(root.CachedArtifact(artifactName)) {
		return component.Downloaded
	}
	return component.Available
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
