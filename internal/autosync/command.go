package autosync

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitdot/internal/execshell"
	"github.com/temirov/gitdot/internal/gitrepo"
	pathutils "github.com/temirov/gitdot/internal/utils/path"
)

const (
	commandUseConstant                    = "sync"
	commandShortDescriptionConstant       = "Fast-forward the dotfiles repository from its remote"
	commandLongDescriptionConstant        = "sync fetches with pruning and fast-forwards the dotfiles repository. A worktree with uncommitted changes is left untouched."
	commandExecutionErrorTemplateConstant = "sync failed: %w"
	unexpectedArgumentsMessageConstant    = "sync does not accept positional arguments"
	flagRepositoryNameConstant            = "repository"
	flagRepositoryDescriptionConstant     = "Path to the dotfiles repository"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// HumanReadableLoggingProvider reports whether console-style logging is active.
type HumanReadableLoggingProvider func() bool

// CommandBuilder assembles the Cobra command for repository synchronization.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	RepositoryManager            RepositoryService
	HomeDirectoryProvider        pathutils.HomeDirectoryProvider
	WorkingDirectory             string
}

// Build constructs the sync command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(flagRepositoryNameConstant, builder.WorkingDirectory, flagRepositoryDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	repositoryValue, _ := command.Flags().GetString(flagRepositoryNameConstant)

	logger := builder.resolveLogger()
	repositoryManager, managerError := builder.resolveRepositoryManager(logger)
	if managerError != nil {
		return managerError
	}

	service, serviceError := NewService(Dependencies{
		RepositoryManager: repositoryManager,
		Logger:            logger,
		OutputWriter:      command.OutOrStdout(),
	})
	if serviceError != nil {
		return serviceError
	}

	homeExpander := pathutils.NewHomeExpanderWithProvider(builder.resolveHomeDirectoryProvider())

	syncError := service.Sync(command.Context(), SyncOptions{RepositoryPath: homeExpander.Expand(repositoryValue)})
	if syncError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, syncError)
	}

	return nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveRepositoryManager(logger *zap.Logger) (RepositoryService, error) {
	if builder.RepositoryManager != nil {
		return builder.RepositoryManager, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, executorError := execshell.NewShellExecutor(logger, commandRunner, builder.resolveHumanReadableLogging())
	if executorError != nil {
		return nil, executorError
	}

	return gitrepo.NewRepositoryManager(shellExecutor)
}

func (builder *CommandBuilder) resolveHumanReadableLogging() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
}

func (builder *CommandBuilder) resolveHomeDirectoryProvider() pathutils.HomeDirectoryProvider {
	if builder.HomeDirectoryProvider != nil {
		return builder.HomeDirectoryProvider
	}
	return os.UserHomeDir
}
