package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

const (
	schedulerMissingMessageConstant   = "task scheduler not configured"
	executableRequiredMessageConstant = "executable path is required"
	registrationErrorTemplateConstant = "unable to register scheduled sync: %w"
	removalErrorTemplateConstant      = "unable to remove scheduled sync: %w"
	registeredMessageTemplateConstant = "Scheduled %s every %d minute(s) via %s\n"
	removedMessageTemplateConstant    = "Removed scheduled sync %s\n"
	syncSubcommandNameConstant        = "sync"
	syncRepositoryFlagConstant        = "--repository"
	registrationCompletedLogMessage   = "scheduled sync registered"
	removalCompletedLogMessage        = "scheduled sync removed"
	logFieldAgentLabelConstant        = "agent_label"
	logFieldAgentPathConstant         = "agent_path"
	logFieldIntervalMinutesConstant   = "interval_minutes"
)

// ErrSchedulerNotConfigured indicates the task scheduler dependency was missing.
var ErrSchedulerNotConfigured = errors.New(schedulerMissingMessageConstant)

// ErrExecutablePathRequired indicates an empty gitdot executable path.
var ErrExecutablePathRequired = errors.New(executableRequiredMessageConstant)

// Dependencies enumerates the collaborators required by the scheduling service.
type Dependencies struct {
	TaskScheduler TaskScheduler
	Logger        *zap.Logger
	OutputWriter  io.Writer
}

// ScheduleOptions configures a scheduling run.
type ScheduleOptions struct {
	Label           string
	RepositoryPath  string
	IntervalMinutes int
	ExecutablePath  string
	Remove          bool
}

// ScheduleResult captures the observable outcomes of a scheduling run.
type ScheduleResult struct {
	AgentPath string
	Removed   bool
}

// Service manages the login-time auto-sync task.
type Service struct {
	taskScheduler TaskScheduler
	logger        *zap.Logger
	outputWriter  io.Writer
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.TaskScheduler == nil {
		return nil, ErrSchedulerNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	outputWriter := dependencies.OutputWriter
	if outputWriter == nil {
		outputWriter = io.Discard
	}

	return &Service{taskScheduler: dependencies.TaskScheduler, logger: logger, outputWriter: outputWriter}, nil
}

// Schedule registers or removes the recurring sync task.
func (service *Service) Schedule(executionContext context.Context, options ScheduleOptions) (ScheduleResult, error) {
	if options.Remove {
		agentPath, removalError := service.taskScheduler.Unregister(executionContext, options.Label)
		if removalError != nil {
			return ScheduleResult{}, fmt.Errorf(removalErrorTemplateConstant, removalError)
		}

		fmt.Fprintf(service.outputWriter, removedMessageTemplateConstant, options.Label)
		service.logger.Info(
			removalCompletedLogMessage,
			zap.String(logFieldAgentLabelConstant, options.Label),
			zap.String(logFieldAgentPathConstant, agentPath),
		)

		return ScheduleResult{AgentPath: agentPath, Removed: true}, nil
	}

	executablePath := strings.TrimSpace(options.ExecutablePath)
	if len(executablePath) == 0 {
		return ScheduleResult{}, ErrExecutablePathRequired
	}

	taskDefinition := TaskDefinition{
		Label:           options.Label,
		IntervalMinutes: options.IntervalMinutes,
		ProgramArguments: []string{
			executablePath,
			syncSubcommandNameConstant,
			syncRepositoryFlagConstant,
			options.RepositoryPath,
		},
	}

	agentPath, registrationError := service.taskScheduler.Register(executionContext, taskDefinition)
	if registrationError != nil {
		return ScheduleResult{}, fmt.Errorf(registrationErrorTemplateConstant, registrationError)
	}

	fmt.Fprintf(service.outputWriter, registeredMessageTemplateConstant, options.Label, options.IntervalMinutes, agentPath)
	service.logger.Info(
		registrationCompletedLogMessage,
		zap.String(logFieldAgentLabelConstant, options.Label),
		zap.String(logFieldAgentPathConstant, agentPath),
		zap.Int(logFieldIntervalMinutesConstant, options.IntervalMinutes),
	)

	return ScheduleResult{AgentPath: agentPath}, nil
}
