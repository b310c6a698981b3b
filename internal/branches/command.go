package branches

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitdot/internal/execshell"
	"github.com/temirov/gitdot/internal/gitrepo"
)

const (
	commandUseConstant                    = "cleanup"
	commandShortDescriptionConstant       = "Delete local branches whose upstream is gone"
	commandLongDescriptionConstant        = "cleanup prunes remote-tracking references, then deletes local branches whose upstream branch no longer exists. With --force it also deletes branches that never had an upstream."
	commandExecutionErrorTemplateConstant = "branch cleanup failed: %w"
	unexpectedArgumentsMessageConstant    = "cleanup does not accept positional arguments"
	flagForceNameConstant                 = "force"
	flagForceShorthandConstant            = "f"
	flagForceDescriptionConstant          = "Also delete branches that never had an upstream"
	flagDryRunNameConstant                = "dry-run"
	flagDryRunDescriptionConstant         = "Preview deletions without making changes"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the effective cleanup configuration.
type ConfigurationProvider func() CommandConfiguration

// HumanReadableLoggingProvider reports whether console-style logging is active.
type HumanReadableLoggingProvider func() bool

// CommandBuilder assembles the Cobra command for branch cleanup.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	RepositoryManager            RepositoryService
	WorkingDirectory             string
}

// Build constructs the cleanup command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	defaultConfiguration := builder.resolveConfiguration()

	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().BoolP(flagForceNameConstant, flagForceShorthandConstant, defaultConfiguration.Force, flagForceDescriptionConstant)
	command.Flags().Bool(flagDryRunNameConstant, defaultConfiguration.DryRun, flagDryRunDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	forceValue, _ := command.Flags().GetBool(flagForceNameConstant)
	dryRunValue, _ := command.Flags().GetBool(flagDryRunNameConstant)

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

	cleanupOptions := CleanupOptions{
		RepositoryPath: builder.WorkingDirectory,
		Force:          forceValue,
		DryRun:         dryRunValue,
	}

	_, cleanupError := service.Cleanup(command.Context(), cleanupOptions)
	if cleanupError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, cleanupError)
	}

	return nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
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
