package shared

import (
	"context"
	"io/fs"
	"time"

	"github.com/temirov/gitdot/internal/execshell"
)

// Clock abstracts time acquisition for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time source.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FileSystem exposes the filesystem operations required by gitdot services.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Lstat(path string) (fs.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, permissions fs.FileMode) error
	MkdirAll(path string, permissions fs.FileMode) error
	Symlink(targetPath string, linkPath string) error
	Readlink(linkPath string) (string, error)
	Remove(path string) error
}

// GitExecutor exposes the subset of shell execution used by git-backed services.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// SchedulerExecutor exposes the subset of shell execution used by the task scheduler.
type SchedulerExecutor interface {
	ExecuteLaunchctl(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}
