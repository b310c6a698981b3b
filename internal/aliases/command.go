package aliases

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitdot/internal/execshell"
	"github.com/temirov/gitdot/internal/gitrepo"
)

const (
	commandUseConstant              = "aliases"
	commandAliasConstant            = "print_aliases"
	commandShortDescriptionConstant = "List configured Git aliases in a table"
	commandLongDescriptionConstant  = "aliases reads the effective git configuration and prints every configured alias with a human-readable description."
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// HumanReadableLoggingProvider reports whether console-style logging is active.
type HumanReadableLoggingProvider func() bool

// CommandBuilder assembles the Cobra command for alias listing.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	RepositoryManager            RepositoryService
	WorkingDirectory             string
}

// Build constructs the aliases command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseConstant,
		Aliases: []string{commandAliasConstant},
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Args:    cobra.NoArgs,
		RunE:    builder.run,
	}

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
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

	service.PrintAliases(command.Context(), ListOptions{RepositoryPath: builder.WorkingDirectory})

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
