// Package shared defines capability interfaces consumed by gitdot services.
//
// Centralizing Clock, FileSystem, and the executor interfaces keeps the
// service packages testable with fakes while production wiring supplies
// OS-backed implementations.
package shared
