// Package configgen renders a machine-specific .gitconfig from a template,
// backing up any existing output file before overwriting it.
package configgen
