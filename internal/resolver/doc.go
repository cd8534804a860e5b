// Package resolver computes the dependency closure of a module descriptor
// against an Ivy-style repository, fetches the closure's artifacts into the
// download cache and copies admitted artifacts into the install root.
package resolver
