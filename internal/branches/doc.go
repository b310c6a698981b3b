// Package branches provides stale-branch cleanup services for gitdot.
//
// It offers CommandBuilder for the Cobra command, Service for classifying and
// deleting local branches based on their upstream status, and supporting
// options and interfaces to enable testing without a real repository.
package branches
