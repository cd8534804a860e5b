// Package bundled embeds the descriptor list shipped with the installer and
// the descriptors it names.
package bundled

import (
	"embed"

	"github.com/marytts-labs/marytts-installer/internal/descriptor"
)

//go:embed component-list.json descriptors/*.xml
var FS embed.FS

// Origin labels locators that point into the embedded bundle.
const Origin = "bundled"

// Source returns a list source over the embedded bundle.
func Source() *descriptor.FSListSource {
	return descriptor.NewFSListSource(FS, Origin)
}
