// Package registry builds the component catalog from descriptors, derives
// each component's status from the install root and answers catalog queries.
package registry
