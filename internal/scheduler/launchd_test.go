package scheduler_test

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitdot/internal/execshell"
	"github.com/temirov/gitdot/internal/scheduler"
)

type launchctlInvocation struct {
	arguments []string
}

type scriptedLaunchctlExecutor struct {
	invocations []launchctlInvocation
	failures    map[string]error
}

func newScriptedLaunchctlExecutor() *scriptedLaunchctlExecutor {
	return &scriptedLaunchctlExecutor{failures: map[string]error{}}
}

func (executor *scriptedLaunchctlExecutor) ExecuteLaunchctl(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.invocations = append(executor.invocations, launchctlInvocation{arguments: details.Arguments})
	if len(details.Arguments) > 0 {
		if failure, hasFailure := executor.failures[details.Arguments[0]]; hasFailure {
			return execshell.ExecutionResult{ExitCode: 1}, failure
		}
	}
	return execshell.ExecutionResult{}, nil
}

type agentFileSystem struct {
	files        map[string][]byte
	writeError   error
	removedPaths []string
}

func newAgentFileSystem() *agentFileSystem {
	return &agentFileSystem{files: map[string][]byte{}}
}

func (fileSystem *agentFileSystem) Stat(path string) (fs.FileInfo, error) {
	if _, exists := fileSystem.files[path]; exists {
		return nil, nil
	}
	return nil, fs.ErrNotExist
}

func (fileSystem *agentFileSystem) Lstat(path string) (fs.FileInfo, error) {
	return fileSystem.Stat(path)
}

func (fileSystem *agentFileSystem) ReadFile(path string) ([]byte, error) {
	fileContent, exists := fileSystem.files[path]
	if !exists {
		return nil, fs.ErrNotExist
	}
	return fileContent, nil
}

func (fileSystem *agentFileSystem) WriteFile(path string, data []byte, _ fs.FileMode) error {
	if fileSystem.writeError != nil {
		return fileSystem.writeError
	}
	fileSystem.files[path] = data
	return nil
}

func (fileSystem *agentFileSystem) MkdirAll(_ string, _ fs.FileMode) error { return nil }

func (fileSystem *agentFileSystem) Symlink(_ string, _ string) error { return nil }

func (fileSystem *agentFileSystem) Readlink(_ string) (string, error) { return "", fs.ErrNotExist }

func (fileSystem *agentFileSystem) Remove(path string) error {
	if _, exists := fileSystem.files[path]; !exists {
		return fs.ErrNotExist
	}
	delete(fileSystem.files, path)
	fileSystem.removedPaths = append(fileSystem.removedPaths, path)
	return nil
}

func exampleHomeDirectory() (string, error) {
	return "/Users/example", nil
}

func standardTaskDefinition() scheduler.TaskDefinition {
	return scheduler.TaskDefinition{
		Label:            "com.gitdot.autosync",
		ProgramArguments: []string{"/usr/local/bin/gitdot", "sync", "--repository", "/Users/example/dotfiles"},
		IntervalMinutes:  60,
	}
}

func TestLaunchdSchedulerInitializationValidation(testInstance *testing.T) {
	testCases := []struct {
		name           string
		buildScheduler func() (*scheduler.LaunchdScheduler, error)
		expectedError  error
	}{
		{
			name: "missing_file_system",
			buildScheduler: func() (*scheduler.LaunchdScheduler, error) {
				return scheduler.NewLaunchdScheduler(nil, newScriptedLaunchctlExecutor(), exampleHomeDirectory)
			},
			expectedError: scheduler.ErrFileSystemNotConfigured,
		},
		{
			name: "missing_executor",
			buildScheduler: func() (*scheduler.LaunchdScheduler, error) {
				return scheduler.NewLaunchdScheduler(newAgentFileSystem(), nil, exampleHomeDirectory)
			},
			expectedError: scheduler.ErrExecutorNotConfigured,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			builtScheduler, creationError := testCase.buildScheduler()

			require.Nil(subtestInstance, builtScheduler)
			require.ErrorIs(subtestInstance, creationError, testCase.expectedError)
		})
	}
}

func TestRegisterWritesPlistAndLoadsAgent(testInstance *testing.T) {
	fileSystem := newAgentFileSystem()
	launchctlExecutor := newScriptedLaunchctlExecutor()

	launchdScheduler, creationError := scheduler.NewLaunchdScheduler(fileSystem, launchctlExecutor, exampleHomeDirectory)
	require.NoError(testInstance, creationError)

	agentPath, registrationError := launchdScheduler.Register(context.Background(), standardTaskDefinition())

	require.NoError(testInstance, registrationError)
	require.Equal(testInstance, "/Users/example/Library/LaunchAgents/com.gitdot.autosync.plist", agentPath)

	plistDocument := string(fileSystem.files[agentPath])
	require.Contains(testInstance, plistDocument, "<string>com.gitdot.autosync</string>")
	require.Contains(testInstance, plistDocument, "<string>/usr/local/bin/gitdot</string>")
	require.Contains(testInstance, plistDocument, "<string>sync</string>")
	require.Contains(testInstance, plistDocument, "<integer>3600</integer>")
	require.Contains(testInstance, plistDocument, "<key>RunAtLoad</key>")

	require.Len(testInstance, launchctlExecutor.invocations, 2)
	require.Equal(testInstance, []string{"unload", agentPath}, launchctlExecutor.invocations[0].arguments)
	require.Equal(testInstance, []string{"load", "-w", agentPath}, launchctlExecutor.invocations[1].arguments)
}

func TestRegisterValidatesDefinition(testInstance *testing.T) {
	launchdScheduler, creationError := scheduler.NewLaunchdScheduler(newAgentFileSystem(), newScriptedLaunchctlExecutor(), exampleHomeDirectory)
	require.NoError(testInstance, creationError)

	_, missingLabelError := launchdScheduler.Register(context.Background(), scheduler.TaskDefinition{ProgramArguments: []string{"/usr/local/bin/gitdot"}})
	require.ErrorIs(testInstance, missingLabelError, scheduler.ErrLabelRequired)

	_, missingArgumentsError := launchdScheduler.Register(context.Background(), scheduler.TaskDefinition{Label: "com.gitdot.autosync"})
	require.ErrorIs(testInstance, missingArgumentsError, scheduler.ErrProgramArgumentsRequired)
}

func TestRegisterSurfacesLoadFailure(testInstance *testing.T) {
	launchctlExecutor := newScriptedLaunchctlExecutor()
	launchctlExecutor.failures["load"] = errors.New("launchctl load failed")

	launchdScheduler, creationError := scheduler.NewLaunchdScheduler(newAgentFileSystem(), launchctlExecutor, exampleHomeDirectory)
	require.NoError(testInstance, creationError)

	_, registrationError := launchdScheduler.Register(context.Background(), standardTaskDefinition())

	require.Error(testInstance, registrationError)
	require.Contains(testInstance, registrationError.Error(), "com.gitdot.autosync")
}

func TestUnregisterRemovesPlist(testInstance *testing.T) {
	agentPath := "/Users/example/Library/LaunchAgents/com.gitdot.autosync.plist"

	fileSystem := newAgentFileSystem()
	fileSystem.files[agentPath] = []byte("plist")
	launchctlExecutor := newScriptedLaunchctlExecutor()

	launchdScheduler, creationError := scheduler.NewLaunchdScheduler(fileSystem, launchctlExecutor, exampleHomeDirectory)
	require.NoError(testInstance, creationError)

	removedPath, removalError := launchdScheduler.Unregister(context.Background(), "com.gitdot.autosync")

	require.NoError(testInstance, removalError)
	require.Equal(testInstance, agentPath, removedPath)
	require.Contains(testInstance, fileSystem.removedPaths, agentPath)
	require.Equal(testInstance, []string{"unload", agentPath}, launchctlExecutor.invocations[0].arguments)
}

func TestUnregisterToleratesMissingPlist(testInstance *testing.T) {
	launchdScheduler, creationError := scheduler.NewLaunchdScheduler(newAgentFileSystem(), newScriptedLaunchctlExecutor(), exampleHomeDirectory)
	require.NoError(testInstance, creationError)

	_, removalError := launchdScheduler.Unregister(context.Background(), "com.gitdot.autosync")

	require.NoError(testInstance, removalError)
}
