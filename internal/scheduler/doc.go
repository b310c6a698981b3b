// Package scheduler registers a login-triggered launchd agent that keeps the
// dotfiles repository synchronized by running gitdot sync on an interval.
package scheduler
