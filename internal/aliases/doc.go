// Package aliases lists the Git aliases configured for the current user
// in a formatted table, with curated descriptions for the aliases this
// toolkit installs.
package aliases
