package branches

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/gitdot/internal/gitrepo"
)

const (
	repositoryManagerMissingMessageConstant = "repository manager not configured"
	notInsideWorkTreeMessageConstant        = "not a git repository"
	branchListingFailureTemplateConstant    = "unable to enumerate local branches: %w"
	fetchPruneWarningMessageConstant        = "fetch with prune failed; branch listing may be stale"
	localOnlyDeletionWarningMessageConstant = "force mode deletes branches that never had an upstream; unpushed work on them is lost"
	branchDeletionFailedWarningConstant     = "branch deletion failed"
	logFieldBranchNameConstant              = "branch_name"
	logFieldFailureReasonConstant           = "failure_reason"
	logFieldLocalOnlyBranchesConstant       = "local_only_branches"
	deletedBranchesTableTitleConstant       = "Deleted Branches"
	candidateBranchesTableTitleConstant     = "Deletion Candidates"
	branchTableColumnHeaderConstant         = "Branch"
	upstreamTableColumnHeaderConstant       = "Upstream"
	cleanupSummaryTemplateConstant          = "Deleted %d branch(es), %d failure(s)\n"
	dryRunSummaryTemplateConstant           = "Would delete %d branch(es)\n"
	nothingDeletedMessageConstant           = "No branches were deleted. All local branches are up to date.\n"
	upstreamNeverConfiguredDisplayConstant  = "(never configured)"
	cleanupTableRenderedNewlineConstant     = "\n"
)

// ErrRepositoryManagerNotConfigured indicates the repository manager dependency was missing.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// ErrNotInsideWorkTree indicates the cleanup target is not a Git working tree.
var ErrNotInsideWorkTree = errors.New(notInsideWorkTreeMessageConstant)

// RepositoryService enumerates the repository operations cleanup depends on.
type RepositoryService interface {
	IsInsideWorkTree(executionContext context.Context, repositoryPath string) (bool, error)
	FetchPrune(executionContext context.Context, repositoryPath string) error
	ListBranches(executionContext context.Context, repositoryPath string) ([]gitrepo.BranchRecord, error)
	DeleteBranch(executionContext context.Context, repositoryPath string, branchName string) error
}

// Dependencies enumerates the collaborators required by the cleanup service.
type Dependencies struct {
	RepositoryManager RepositoryService
	Logger            *zap.Logger
	OutputWriter      io.Writer
}

// CleanupOptions configures a branch cleanup run.
type CleanupOptions struct {
	RepositoryPath string
	Force          bool
	DryRun         bool
}

// DeletionFailure records a branch that could not be deleted.
type DeletionFailure struct {
	BranchName string
	Reason     string
}

// CleanupResult captures the observable outcomes of a cleanup run.
type CleanupResult struct {
	CandidateNames  []string
	DeletedBranches []string
	FailedDeletions []DeletionFailure
}

// Service classifies and deletes stale local branches.
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

// Cleanup removes stale local branches according to the provided options.
//
// Individual deletion failures are reported and do not abort the batch; the
// run fails only when the repository cannot be detected or branches cannot be
// enumerated at all.
func (service *Service) Cleanup(executionContext context.Context, options CleanupOptions) (CleanupResult, error) {
	repositoryPath := strings.TrimSpace(options.RepositoryPath)

	insideWorkTree, detectionError := service.repositoryManager.IsInsideWorkTree(executionContext, repositoryPath)
	if detectionError != nil {
		return CleanupResult{}, detectionError
	}
	if !insideWorkTree {
		return CleanupResult{}, ErrNotInsideWorkTree
	}

	if fetchError := service.repositoryManager.FetchPrune(executionContext, repositoryPath); fetchError != nil {
		service.logger.Warn(fetchPruneWarningMessageConstant, zap.Error(fetchError))
	}

	branchRecords, listingError := service.repositoryManager.ListBranches(executionContext, repositoryPath)
	if listingError != nil {
		return CleanupResult{}, fmt.Errorf(branchListingFailureTemplateConstant, listingError)
	}

	deletionCandidates := ClassifyCandidates(branchRecords, options.Force)

	cleanupResult := CleanupResult{
		CandidateNames:  candidateNames(deletionCandidates),
		DeletedBranches: []string{},
		FailedDeletions: []DeletionFailure{},
	}

	if options.Force {
		service.warnAboutLocalOnlyCandidates(deletionCandidates)
	}

	if options.DryRun {
		service.renderCandidatePreview(deletionCandidates)
		return cleanupResult, nil
	}

	for _, deletionCandidate := range deletionCandidates {
		deletionError := service.repositoryManager.DeleteBranch(executionContext, repositoryPath, deletionCandidate.Name)
		if deletionError != nil {
			cleanupResult.FailedDeletions = append(cleanupResult.FailedDeletions, DeletionFailure{
				BranchName: deletionCandidate.Name,
				Reason:     deletionError.Error(),
			})
			service.logger.Warn(
				branchDeletionFailedWarningConstant,
				zap.String(logFieldBranchNameConstant, deletionCandidate.Name),
				zap.String(logFieldFailureReasonConstant, deletionError.Error()),
			)
			continue
		}
		cleanupResult.DeletedBranches = append(cleanupResult.DeletedBranches, deletionCandidate.Name)
	}

	service.renderCleanupReport(deletionCandidates, cleanupResult)

	return cleanupResult, nil
}

func (service *Service) warnAboutLocalOnlyCandidates(deletionCandidates []gitrepo.BranchRecord) {
	localOnlyNames := []string{}
	for _, deletionCandidate := range deletionCandidates {
		if deletionCandidate.UpstreamStatus == gitrepo.UpstreamStatusNone {
			localOnlyNames = append(localOnlyNames, deletionCandidate.Name)
		}
	}
	if len(localOnlyNames) == 0 {
		return
	}
	service.logger.Warn(
		localOnlyDeletionWarningMessageConstant,
		zap.Strings(logFieldLocalOnlyBranchesConstant, localOnlyNames),
	)
}

func (service *Service) renderCandidatePreview(deletionCandidates []gitrepo.BranchRecord) {
	if len(deletionCandidates) == 0 {
		fmt.Fprint(service.outputWriter, nothingDeletedMessageConstant)
		return
	}

	fmt.Fprint(service.outputWriter, renderBranchTable(candidateBranchesTableTitleConstant, deletionCandidates))
	fmt.Fprint(service.outputWriter, cleanupTableRenderedNewlineConstant)
	fmt.Fprintf(service.outputWriter, dryRunSummaryTemplateConstant, len(deletionCandidates))
}

func (service *Service) renderCleanupReport(deletionCandidates []gitrepo.BranchRecord, cleanupResult CleanupResult) {
	if len(cleanupResult.DeletedBranches) == 0 && len(cleanupResult.FailedDeletions) == 0 {
		fmt.Fprint(service.outputWriter, nothingDeletedMessageConstant)
		return
	}

	deletedRecords := []gitrepo.BranchRecord{}
	deletedNames := map[string]struct{}{}
	for _, deletedName := range cleanupResult.DeletedBranches {
		deletedNames[deletedName] = struct{}{}
	}
	for _, deletionCandidate := range deletionCandidates {
		if _, wasDeleted := deletedNames[deletionCandidate.Name]; wasDeleted {
			deletedRecords = append(deletedRecords, deletionCandidate)
		}
	}

	if len(deletedRecords) > 0 {
		fmt.Fprint(service.outputWriter, renderBranchTable(deletedBranchesTableTitleConstant, deletedRecords))
		fmt.Fprint(service.outputWriter, cleanupTableRenderedNewlineConstant)
	}

	fmt.Fprintf(service.outputWriter, cleanupSummaryTemplateConstant, len(cleanupResult.DeletedBranches), len(cleanupResult.FailedDeletions))
}

func candidateNames(deletionCandidates []gitrepo.BranchRecord) []string {
	names := make([]string, 0, len(deletionCandidates))
	for _, deletionCandidate := range deletionCandidates {
		names = append(names, deletionCandidate.Name)
	}
	return names
}
