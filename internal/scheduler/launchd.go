package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/temirov/gitdot/internal/execshell"
	"github.com/temirov/gitdot/internal/shared"
)

const (
	fileSystemMissingMessageConstant        = "file system not configured"
	executorMissingMessageConstant          = "scheduler executor not configured"
	homeProviderMissingMessageConstant      = "home directory provider not configured"
	labelRequiredMessageConstant            = "agent label is required"
	programArgumentsRequiredMessageConstant = "program arguments are required"
	launchAgentsRelativePathConstant        = "Library/LaunchAgents"
	plistFileExtensionConstant              = ".plist"
	plistFilePermissionsConstant            = fs.FileMode(0o644)
	launchAgentsDirPermissionsConstant      = fs.FileMode(0o755)
	launchctlLoadSubcommandConstant         = "load"
	launchctlUnloadSubcommandConstant       = "unload"
	launchctlFlagOverrideConstant           = "-w"
	homeDirectoryErrorTemplateConstant      = "unable to determine home directory: %w"
	agentDirectoryErrorTemplateConstant     = "unable to create %s: %w"
	plistWriteErrorTemplateConstant         = "unable to write %s: %w"
	plistRemoveErrorTemplateConstant        = "unable to remove %s: %w"
	agentLoadErrorTemplateConstant          = "unable to load launch agent %s: %w"
	secondsPerMinuteConstant                = 60

	plistDocumentTemplateConstant = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array>
%s	</array>
	<key>RunAtLoad</key>
	<true/>
	<key>StartInterval</key>
	<integer>%d</integer>
</dict>
</plist>
`
	plistProgramArgumentTemplateConstant = "\t\t<string>%s</string>\n"
)

// ErrFileSystemNotConfigured indicates the filesystem dependency was missing.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ErrExecutorNotConfigured indicates the launchctl executor dependency was missing.
var ErrExecutorNotConfigured = errors.New(executorMissingMessageConstant)

// ErrLabelRequired indicates an empty agent label.
var ErrLabelRequired = errors.New(labelRequiredMessageConstant)

// ErrProgramArgumentsRequired indicates an empty program argument list.
var ErrProgramArgumentsRequired = errors.New(programArgumentsRequiredMessageConstant)

// TaskDefinition describes a recurring login-time task.
type TaskDefinition struct {
	Label            string
	ProgramArguments []string
	IntervalMinutes  int
}

// TaskScheduler registers and removes recurring login-time tasks.
type TaskScheduler interface {
	Register(executionContext context.Context, definition TaskDefinition) (string, error)
	Unregister(executionContext context.Context, label string) (string, error)
}

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// LaunchdScheduler implements TaskScheduler with launchd property lists.
type LaunchdScheduler struct {
	fileSystem            shared.FileSystem
	executor              shared.SchedulerExecutor
	homeDirectoryProvider HomeDirectoryProvider
}

// NewLaunchdScheduler constructs a LaunchdScheduler from its collaborators.
func NewLaunchdScheduler(fileSystem shared.FileSystem, executor shared.SchedulerExecutor, homeDirectoryProvider HomeDirectoryProvider) (*LaunchdScheduler, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if homeDirectoryProvider == nil {
		return nil, errors.New(homeProviderMissingMessageConstant)
	}

	return &LaunchdScheduler{
		fileSystem:            fileSystem,
		executor:              executor,
		homeDirectoryProvider: homeDirectoryProvider,
	}, nil
}

// Register writes the agent property list and loads it through launchctl.
// An already-loaded agent is unloaded first so repeated registration refreshes
// the definition instead of failing.
func (scheduler *LaunchdScheduler) Register(executionContext context.Context, definition TaskDefinition) (string, error) {
	if len(strings.TrimSpace(definition.Label)) == 0 {
		return "", ErrLabelRequired
	}
	if len(definition.ProgramArguments) == 0 {
		return "", ErrProgramArgumentsRequired
	}

	agentPath, agentPathError := scheduler.agentPath(definition.Label)
	if agentPathError != nil {
		return "", agentPathError
	}

	agentDirectory := filepath.Dir(agentPath)
	if directoryError := scheduler.fileSystem.MkdirAll(agentDirectory, launchAgentsDirPermissionsConstant); directoryError != nil {
		return "", fmt.Errorf(agentDirectoryErrorTemplateConstant, agentDirectory, directoryError)
	}

	plistDocument := renderPropertyList(definition)
	if writeError := scheduler.fileSystem.WriteFile(agentPath, []byte(plistDocument), plistFilePermissionsConstant); writeError != nil {
		return "", fmt.Errorf(plistWriteErrorTemplateConstant, agentPath, writeError)
	}

	// A load over an already-loaded agent fails, so unload best-effort first.
	_, _ = scheduler.executor.ExecuteLaunchctl(executionContext, execshell.CommandDetails{
		Arguments: []string{launchctlUnloadSubcommandConstant, agentPath},
	})

	_, loadError := scheduler.executor.ExecuteLaunchctl(executionContext, execshell.CommandDetails{
		Arguments: []string{launchctlLoadSubcommandConstant, launchctlFlagOverrideConstant, agentPath},
	})
	if loadError != nil {
		return "", fmt.Errorf(agentLoadErrorTemplateConstant, definition.Label, loadError)
	}

	return agentPath, nil
}

// Unregister unloads the agent and removes its property list.
func (scheduler *LaunchdScheduler) Unregister(executionContext context.Context, label string) (string, error) {
	if len(strings.TrimSpace(label)) == 0 {
		return "", ErrLabelRequired
	}

	agentPath, agentPathError := scheduler.agentPath(label)
	if agentPathError != nil {
		return "", agentPathError
	}

	// The agent may not be loaded; removal of the plist is what matters.
	_, _ = scheduler.executor.ExecuteLaunchctl(executionContext, execshell.CommandDetails{
		Arguments: []string{launchctlUnloadSubcommandConstant, agentPath},
	})

	if removeError := scheduler.fileSystem.Remove(agentPath); removeError != nil {
		if errors.Is(removeError, fs.ErrNotExist) {
			return agentPath, nil
		}
		return "", fmt.Errorf(plistRemoveErrorTemplateConstant, agentPath, removeError)
	}

	return agentPath, nil
}

func (scheduler *LaunchdScheduler) agentPath(label string) (string, error) {
	homeDirectory, homeLookupError := scheduler.homeDirectoryProvider()
	if homeLookupError != nil {
		return "", fmt.Errorf(homeDirectoryErrorTemplateConstant, homeLookupError)
	}

	return filepath.Join(homeDirectory, launchAgentsRelativePathConstant, label+plistFileExtensionConstant), nil
}

func renderPropertyList(definition TaskDefinition) string {
	argumentsBuilder := strings.Builder{}
	for _, programArgument := range definition.ProgramArguments {
		argumentsBuilder.WriteString(fmt.Sprintf(plistProgramArgumentTemplateConstant, programArgument))
	}

	return fmt.Sprintf(
		plistDocumentTemplateConstant,
		definition.Label,
		argumentsBuilder.String(),
		definition.IntervalMinutes*secondsPerMinuteConstant,
	)
}
