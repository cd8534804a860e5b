// Package platform hides operating-system differences in file permission
// handling. Windows has no Unix permission bits, so the helpers here become
// no-ops there.
package platform
