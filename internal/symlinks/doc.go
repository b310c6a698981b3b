// Package symlinks places symbolic links from a dotfiles repository into the
// user's home directory, leaving correct links untouched on repeated runs.
package symlinks
