// Package scaffold lays down the baseline files every MaryTTS installation
// needs next to lib/: the license text and the server launch scripts.
//
// Files are rendered from embedded text/template sources and are only
// created when absent. An operator who edited bin/marytts-server keeps
// their edits across installs.
package scaffold
