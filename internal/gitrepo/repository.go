package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/gitdot/internal/execshell"
	"github.com/temirov/gitdot/internal/shared"
)

const (
	executorNotConfiguredMessageConstant  = "git executor not configured"
	branchNameRequiredMessageConstant     = "branch name must be provided"
	gitRevParseSubcommandConstant         = "rev-parse"
	gitWorkTreeFlagConstant               = "--is-inside-work-tree"
	gitAbbrevRefFlagConstant              = "--abbrev-ref"
	gitHeadReferenceConstant              = "HEAD"
	gitForEachRefSubcommandConstant       = "for-each-ref"
	gitLocalBranchNamespaceConstant       = "refs/heads"
	gitForEachRefFormatFlagConstant       = "--format=%(HEAD)%09%(refname:short)%09%(upstream:short)%09%(upstream:track)"
	gitBranchSubcommandConstant           = "branch"
	gitForceDeleteFlagConstant            = "-D"
	gitFetchSubcommandConstant            = "fetch"
	gitPruneFlagConstant                  = "--prune"
	gitPullSubcommandConstant             = "pull"
	gitFastForwardOnlyFlagConstant        = "--ff-only"
	gitStatusSubcommandConstant           = "status"
	gitPorcelainFlagConstant              = "--porcelain"
	gitConfigSubcommandConstant           = "config"
	gitConfigGetRegexpFlagConstant        = "--get-regexp"
	gitAliasConfigurationPatternConstant  = "^alias\\."
	gitAliasConfigurationPrefixConstant   = "alias."
	currentBranchMarkerConstant           = "*"
	upstreamGoneMarkerConstant            = "[gone]"
	fieldSeparatorConstant                = "\t"
	branchRecordFieldCountConstant        = 4
	workTreeAffirmativeOutputConstant     = "true"
	branchListingErrorTemplateConstant    = "failed to list local branches: %w"
	aliasListingErrorTemplateConstant     = "failed to read git aliases: %w"
	currentBranchErrorTemplateConstant    = "failed to identify current branch: %w"
	branchDeletionErrorTemplateConstant   = "failed to delete branch %q: %w"
	fetchPruneErrorTemplateConstant       = "failed to fetch with prune: %w"
	pullFastForwardErrorTemplateConstant  = "failed to fast-forward pull: %w"
	worktreeStatusErrorTemplateConstant   = "failed to review worktree status: %w"
	terminalPromptEnvironmentNameConstant = "GIT_TERMINAL_PROMPT"
	terminalPromptDisableValueConstant    = "0"
)

// ErrExecutorNotConfigured indicates the repository manager was constructed without an executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// ErrBranchNameRequired indicates a branch operation received an empty branch name.
var ErrBranchNameRequired = errors.New(branchNameRequiredMessageConstant)

// UpstreamStatus describes the remote-tracking state of a local branch.
type UpstreamStatus string

// Supported upstream states.
const (
	UpstreamStatusTracked UpstreamStatus = "has-upstream"
	UpstreamStatusGone    UpstreamStatus = "upstream-gone"
	UpstreamStatusNone    UpstreamStatus = "no-upstream"
)

// BranchRecord captures one local branch together with its upstream state.
type BranchRecord struct {
	Name           string
	UpstreamName   string
	UpstreamStatus UpstreamStatus
	IsCurrent      bool
}

// AliasEntry captures one configured Git alias.
type AliasEntry struct {
	Name    string
	Command string
}

// RepositoryManager performs structured Git operations through a GitExecutor.
type RepositoryManager struct {
	executor shared.GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager backed by the provided executor.
func NewRepositoryManager(executor shared.GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// IsInsideWorkTree reports whether the provided path lies inside a Git working tree.
func (manager *RepositoryManager) IsInsideWorkTree(executionContext context.Context, repositoryPath string) (bool, error) {
	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitWorkTreeFlagConstant)
	if executionError != nil {
		commandFailure := execshell.CommandFailedError{}
		if errors.As(executionError, &commandFailure) {
			return false, nil
		}
		return false, executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput) == workTreeAffirmativeOutputConstant, nil
}

// CurrentBranch resolves the currently checked-out branch name.
func (manager *RepositoryManager) CurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitHeadReferenceConstant)
	if executionError != nil {
		return "", fmt.Errorf(currentBranchErrorTemplateConstant, executionError)
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// ListBranches enumerates local branches together with their upstream state.
func (manager *RepositoryManager) ListBranches(executionContext context.Context, repositoryPath string) ([]BranchRecord, error) {
	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, gitForEachRefSubcommandConstant, gitLocalBranchNamespaceConstant, gitForEachRefFormatFlagConstant)
	if executionError != nil {
		return nil, fmt.Errorf(branchListingErrorTemplateConstant, executionError)
	}
	return parseBranchRecords(executionResult.StandardOutput), nil
}

// DeleteBranch force-deletes the named local branch.
func (manager *RepositoryManager) DeleteBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	trimmedBranchName := strings.TrimSpace(branchName)
	if len(trimmedBranchName) == 0 {
		return ErrBranchNameRequired
	}

	_, executionError := manager.executeGit(executionContext, repositoryPath, gitBranchSubcommandConstant, gitForceDeleteFlagConstant, trimmedBranchName)
	if executionError != nil {
		return fmt.Errorf(branchDeletionErrorTemplateConstant, trimmedBranchName, executionError)
	}
	return nil
}

// FetchPrune fetches remote updates while pruning deleted remote-tracking references.
func (manager *RepositoryManager) FetchPrune(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.executeGit(executionContext, repositoryPath, gitFetchSubcommandConstant, gitPruneFlagConstant)
	if executionError != nil {
		return fmt.Errorf(fetchPruneErrorTemplateConstant, executionError)
	}
	return nil
}

// PullFastForward pulls the latest changes, refusing non-fast-forward merges.
func (manager *RepositoryManager) PullFastForward(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.executeGit(executionContext, repositoryPath, gitPullSubcommandConstant, gitFastForwardOnlyFlagConstant)
	if executionError != nil {
		return fmt.Errorf(pullFastForwardErrorTemplateConstant, executionError)
	}
	return nil
}

// CheckCleanWorktree reports whether the repository worktree has no pending changes.
func (manager *RepositoryManager) CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error) {
	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, gitStatusSubcommandConstant, gitPorcelainFlagConstant)
	if executionError != nil {
		return false, fmt.Errorf(worktreeStatusErrorTemplateConstant, executionError)
	}
	return len(strings.TrimSpace(executionResult.StandardOutput)) == 0, nil
}

// ListAliases reads configured Git aliases through the git config query mechanism.
//
// An empty alias configuration is not an error: git config exits non-zero when
// the pattern matches nothing, and that case yields an empty slice.
func (manager *RepositoryManager) ListAliases(executionContext context.Context, repositoryPath string) ([]AliasEntry, error) {
	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, gitConfigSubcommandConstant, gitConfigGetRegexpFlagConstant, gitAliasConfigurationPatternConstant)
	if executionError != nil {
		commandFailure := execshell.CommandFailedError{}
		if errors.As(executionError, &commandFailure) && len(strings.TrimSpace(commandFailure.Result.StandardError)) == 0 {
			return []AliasEntry{}, nil
		}
		return nil, fmt.Errorf(aliasListingErrorTemplateConstant, executionError)
	}
	return parseAliasEntries(executionResult.StandardOutput), nil
}

func (manager *RepositoryManager) executeGit(executionContext context.Context, repositoryPath string, arguments ...string) (execshell.ExecutionResult, error) {
	commandDetails := execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: strings.TrimSpace(repositoryPath),
		EnvironmentVariables: map[string]string{
			terminalPromptEnvironmentNameConstant: terminalPromptDisableValueConstant,
		},
	}
	return manager.executor.ExecuteGit(executionContext, commandDetails)
}

func parseBranchRecords(listingOutput string) []BranchRecord {
	branchRecords := []BranchRecord{}
	for _, listingLine := range strings.Split(listingOutput, "\n") {
		if len(strings.TrimSpace(listingLine)) == 0 {
			continue
		}

		lineFields := strings.SplitN(listingLine, fieldSeparatorConstant, branchRecordFieldCountConstant)
		if len(lineFields) < branchRecordFieldCountConstant {
			continue
		}

		branchName := strings.TrimSpace(lineFields[1])
		if len(branchName) == 0 {
			continue
		}

		upstreamName := strings.TrimSpace(lineFields[2])
		trackingState := strings.TrimSpace(lineFields[3])

		upstreamStatus := UpstreamStatusNone
		if len(upstreamName) > 0 {
			upstreamStatus = UpstreamStatusTracked
			if trackingState == upstreamGoneMarkerConstant {
				upstreamStatus = UpstreamStatusGone
			}
		}

		branchRecords = append(branchRecords, BranchRecord{
			Name:           branchName,
			UpstreamName:   upstreamName,
			UpstreamStatus: upstreamStatus,
			IsCurrent:      strings.TrimSpace(lineFields[0]) == currentBranchMarkerConstant,
		})
	}
	return branchRecords
}

func parseAliasEntries(configurationOutput string) []AliasEntry {
	aliasEntries := []AliasEntry{}
	for _, configurationLine := range strings.Split(configurationOutput, "\n") {
		trimmedLine := strings.TrimSpace(configurationLine)
		if len(trimmedLine) == 0 {
			continue
		}
		if !strings.HasPrefix(trimmedLine, gitAliasConfigurationPrefixConstant) {
			continue
		}

		nameAndCommand := strings.SplitN(strings.TrimPrefix(trimmedLine, gitAliasConfigurationPrefixConstant), " ", 2)
		if len(nameAndCommand) < 2 {
			continue
		}

		aliasName := strings.TrimSpace(nameAndCommand[0])
		aliasCommand := strings.TrimSpace(nameAndCommand[1])
		if len(aliasName) == 0 || len(aliasCommand) == 0 {
			continue
		}

		aliasEntries = append(aliasEntries, AliasEntry{Name: aliasName, Command: aliasCommand})
	}
	return aliasEntries
}
