// Package descriptor reads Ivy-style module descriptors and the bundled
// descriptor list. It provides the default implementations of the parser
// and list source that the registry consumes through interfaces.
package descriptor
