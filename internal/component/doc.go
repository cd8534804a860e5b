// Package component defines the installable units of a MaryTTS installation:
// core modules, language packs and voices. A Component is a tagged variant;
// its Kind decides which of the locale, gender and type fields are meaningful.
package component
