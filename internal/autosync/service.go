package autosync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

const (
	repositoryManagerMissingMessageConstant = "repository manager not configured"
	notInsideWorkTreeMessageConstant        = "not a git repository"
	dirtyWorktreeMessageConstant            = "worktree has uncommitted changes"
	fetchErrorTemplateConstant              = "unable to fetch from remote: %w"
	pullErrorTemplateConstant               = "unable to fast-forward: %w"
	worktreeCheckErrorTemplateConstant      = "unable to inspect worktree state: %w"
	syncCompletedMessageTemplateConstant    = "Synchronized %s\n"
	syncCompletedLogMessageConstant         = "repository synchronized"
	logFieldRepositoryPathConstant          = "repository_path"
	currentDirectoryDisplayConstant         = "current directory"
)

// ErrRepositoryManagerNotConfigured indicates the repository manager dependency was missing.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// ErrNotInsideWorkTree indicates the sync target is not a Git working tree.
var ErrNotInsideWorkTree = errors.New(notInsideWorkTreeMessageConstant)

// ErrDirtyWorktree indicates uncommitted changes block synchronization.
var ErrDirtyWorktree = errors.New(dirtyWorktreeMessageConstant)

// RepositoryService enumerates the repository operations synchronization depends on.
type RepositoryService interface {
	IsInsideWorkTree(executionContext context.Context, repositoryPath string) (bool, error)
	CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error)
	FetchPrune(executionContext context.Context, repositoryPath string) error
	PullFastForward(executionContext context.Context, repositoryPath string) error
}

// Dependencies enumerates the collaborators required by the sync service.
type Dependencies struct {
	RepositoryManager RepositoryService
	Logger            *zap.Logger
	OutputWriter      io.Writer
}

// SyncOptions configures a synchronization run.
type SyncOptions struct {
	RepositoryPath string
}

// Service synchronizes the dotfiles repository with its remote.
type Service struct {
	repositoryManager RepositoryService
	logger            *zap.Logger
	outputWriter      io.Writer
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	outputWriter := dependencies.OutputWriter
	if outputWriter == nil {
		outputWriter = io.Discard
	}

	return &Service{repositoryManager: dependencies.RepositoryManager, logger: logger, outputWriter: outputWriter}, nil
}

// Sync fetches with pruning and fast-forwards the repository.
//
// A dirty worktree aborts the run before any remote interaction so local
// edits are never entangled with an incoming merge.
func (service *Service) Sync(executionContext context.Context, options SyncOptions) error {
	repositoryPath := strings.TrimSpace(options.RepositoryPath)

	insideWorkTree, detectionError := service.repositoryManager.IsInsideWorkTree(executionContext, repositoryPath)
	if detectionError != nil {
		return detectionError
	}
	if !insideWorkTree {
		return ErrNotInsideWorkTree
	}

	worktreeClean, worktreeCheckError := service.repositoryManager.CheckCleanWorktree(executionContext, repositoryPath)
	if worktreeCheckError != nil {
		return fmt.Errorf(worktreeCheckErrorTemplateConstant, worktreeCheckError)
	}
	if !worktreeClean {
		return ErrDirtyWorktree
	}

	if fetchError := service.repositoryManager.FetchPrune(executionContext, repositoryPath); fetchError != nil {
		return fmt.Errorf(fetchErrorTemplateConstant, fetchError)
	}

	if pullError := service.repositoryManager.PullFastForward(executionContext, repositoryPath); pullError != nil {
		return fmt.Errorf(pullErrorTemplateConstant, pullError)
	}

	repositoryDisplay := repositoryPath
	if len(repositoryDisplay) == 0 {
		repositoryDisplay = currentDirectoryDisplayConstant
	}

	fmt.Fprintf(service.outputWriter, syncCompletedMessageTemplateConstant, repositoryDisplay)
	service.logger.Info(syncCompletedLogMessageConstant, zap.String(logFieldRepositoryPathConstant, repositoryPath))

	return nil
}
