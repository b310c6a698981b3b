// Package filesystem provides the operating-system implementation of the
// shared.FileSystem capability.
package filesystem

import (
	"io/fs"
	"os"
)

// OSFileSystem implements shared.FileSystem using the operating system primitives.
type OSFileSystem struct{}

// NewOSFileSystem constructs an OSFileSystem.
func NewOSFileSystem() OSFileSystem {
	return OSFileSystem{}
}

// Stat retrieves file metadata following symlinks.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Lstat retrieves file metadata without following symlinks.
func (OSFileSystem) Lstat(path string) (fs.FileInfo, error) {
	return os.Lstat(path)
}

// ReadFile reads file contents.
func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to a file with the supplied permissions.
func (OSFileSystem) WriteFile(path string, data []byte, permissions fs.FileMode) error {
	return os.WriteFile(path, data, permissions)
}

// MkdirAll ensures a directory hierarchy exists with the provided permissions.
func (OSFileSystem) MkdirAll(path string, permissions fs.FileMode) error {
	return os.MkdirAll(path, permissions)
}

// Symlink creates a symbolic link pointing at the target path.
func (OSFileSystem) Symlink(targetPath string, linkPath string) error {
	return os.Symlink(targetPath, linkPath)
}

// Readlink resolves the destination of a symbolic link.
func (OSFileSystem) Readlink(linkPath string) (string, error) {
	return os.Readlink(linkPath)
}

// Remove deletes a file or empty directory.
func (OSFileSystem) Remove(path string) error {
	return os.Remove(path)
}
