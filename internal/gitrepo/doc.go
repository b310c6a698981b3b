// Package gitrepo contains helpers for interrogating and manipulating Git repositories.
//
// It exposes RepositoryManager for inspecting branches, aliases, and worktree
// status, consumed by the cleanup, alias, and sync services that need
// structured Git operations.
package gitrepo
