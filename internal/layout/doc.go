// Package layout describes the install root: the directory holding lib/,
// download/, bin/ and LICENSE.txt. It selects and canonicalizes the root and
// reports failures to do so as fatal configuration errors.
package layout
