package scheduler

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitdot/internal/execshell"
	"github.com/temirov/gitdot/internal/filesystem"
	"github.com/temirov/gitdot/internal/shared"
	pathutils "github.com/temirov/gitdot/internal/utils/path"
)

const (
	commandUseConstant                    = "schedule"
	commandShortDescriptionConstant       = "Register a login-time agent that syncs the dotfiles repository"
	commandLongDescriptionConstant        = "schedule installs a launchd agent that runs gitdot sync at login and on a fixed interval. With --remove the agent is unloaded and deleted."
	commandExecutionErrorTemplateConstant = "scheduling failed: %w"
	unexpectedArgumentsMessageConstant    = "schedule does not accept positional arguments"
	flagLabelNameConstant                 = "label"
	flagLabelDescriptionConstant          = "Launch agent label"
	flagRepositoryNameConstant            = "repository"
	flagRepositoryDescriptionConstant     = "Path to the dotfiles repository to sync"
	flagIntervalNameConstant              = "interval"
	flagIntervalDescriptionConstant       = "Minutes between sync runs"
	flagRemoveNameConstant                = "remove"
	flagRemoveDescriptionConstant         = "Remove the scheduled sync instead of registering it"
	executableLookupErrorTemplate         = "unable to determine gitdot executable path: %w"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the effective scheduling configuration.
type ConfigurationProvider func() CommandConfiguration

// HumanReadableLoggingProvider reports whether console-style logging is active.
type HumanReadableLoggingProvider func() bool

// ExecutablePathProvider resolves the running gitdot binary path.
type ExecutablePathProvider func() (string, error)

// CommandBuilder assembles the Cobra command for sync scheduling.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	TaskScheduler                TaskScheduler
	ExecutablePathProvider       ExecutablePathProvider
	HomeDirectoryProvider        HomeDirectoryProvider
}

// Build constructs the schedule command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	defaultConfiguration := builder.resolveConfiguration()

	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(flagLabelNameConstant, defaultConfiguration.Label, flagLabelDescriptionConstant)
	command.Flags().String(flagRepositoryNameConstant, defaultConfiguration.RepositoryPath, flagRepositoryDescriptionConstant)
	command.Flags().Int(flagIntervalNameConstant, defaultConfiguration.IntervalMinutes, flagIntervalDescriptionConstant)
	command.Flags().Bool(flagRemoveNameConstant, false, flagRemoveDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	labelValue, _ := command.Flags().GetString(flagLabelNameConstant)
	repositoryValue, _ := command.Flags().GetString(flagRepositoryNameConstant)
	intervalValue, _ := command.Flags().GetInt(flagIntervalNameConstant)
	removeValue, _ := command.Flags().GetBool(flagRemoveNameConstant)

	logger := builder.resolveLogger()

	taskScheduler, schedulerError := builder.resolveTaskScheduler(logger)
	if schedulerError != nil {
		return schedulerError
	}

	service, serviceError := NewService(Dependencies{
		TaskScheduler: taskScheduler,
		Logger:        logger,
		OutputWriter:  command.OutOrStdout(),
	})
	if serviceError != nil {
		return serviceError
	}

	scheduleOptions := ScheduleOptions{
		Label:           labelValue,
		IntervalMinutes: intervalValue,
		Remove:          removeValue,
	}

	if !removeValue {
		executablePath, executableLookupError := builder.resolveExecutablePathProvider()()
		if executableLookupError != nil {
			return fmt.Errorf(executableLookupErrorTemplate, executableLookupError)
		}

		homeExpander := pathutils.NewHomeExpanderWithProvider(pathutils.HomeDirectoryProvider(builder.resolveHomeDirectoryProvider()))
		scheduleOptions.ExecutablePath = executablePath
		scheduleOptions.RepositoryPath = homeExpander.Expand(repositoryValue)
	}

	_, schedulingError := service.Schedule(command.Context(), scheduleOptions)
	if schedulingError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, schedulingError)
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

func (builder *CommandBuilder) resolveTaskScheduler(logger *zap.Logger) (TaskScheduler, error) {
	if builder.TaskScheduler != nil {
		return builder.TaskScheduler, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, executorError := execshell.NewShellExecutor(logger, commandRunner, builder.resolveHumanReadableLogging())
	if executorError != nil {
		return nil, executorError
	}

	var schedulerExecutor shared.SchedulerExecutor = shellExecutor

	return NewLaunchdScheduler(filesystem.NewOSFileSystem(), schedulerExecutor, builder.resolveHomeDirectoryProvider())
}

func (builder *CommandBuilder) resolveHumanReadableLogging() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
}

func (builder *CommandBuilder) resolveExecutablePathProvider() ExecutablePathProvider {
	if builder.ExecutablePathProvider != nil {
		return builder.ExecutablePathProvider
	}
	return os.Executable
}

func (builder *CommandBuilder) resolveHomeDirectoryProvider() HomeDirectoryProvider {
	if builder.HomeDirectoryProvider != nil {
		return builder.HomeDirectoryProvider
	}
	return os.UserHomeDir
}
