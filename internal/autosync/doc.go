// Package autosync fast-forwards the dotfiles repository from its remote,
// refusing to touch a dirty worktree. The scheduled login task runs it on an
// interval; the sync command runs it interactively.
package autosync
