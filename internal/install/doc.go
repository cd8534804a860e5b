// Package install turns a catalog component into files below the install
// root and removes them again.
//
// An install runs in two phases. Plan resolves the component's dependency
// closure and classifies every resolved artifact: jars and bundles are
// copied to lib/, data archives are unpacked into lib/, everything else is
// left in the download cache. Execute carries the plan out, scaffolds the
// baseline launch files once and refreshes catalog statuses.
package install
