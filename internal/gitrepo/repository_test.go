package gitrepo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitdot/internal/execshell"
	"github.com/temirov/gitdot/internal/gitrepo"
)

const (
	testRepositoryPathConstant = "/workspace/dotfiles"
)

type scriptedGitExecutor struct {
	executionResult  execshell.ExecutionResult
	executionError   error
	recordedCommands []execshell.CommandDetails
}

func (executor *scriptedGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, details)
	return executor.executionResult, executor.executionError
}

func TestNewRepositoryManagerRequiresExecutor(t *testing.T) {
	manager, creationError := gitrepo.NewRepositoryManager(nil)
	require.ErrorIs(t, creationError, gitrepo.ErrExecutorNotConfigured)
	require.Nil(t, manager)
}

func TestIsInsideWorkTreeInterpretsGitAnswers(t *testing.T) {
	testCases := []struct {
		name            string
		executionResult execshell.ExecutionResult
		executionError  error
		expectedAnswer  bool
		expectError     bool
	}{
		{
			name:            "inside_work_tree",
			executionResult: execshell.ExecutionResult{StandardOutput: "true\n"},
			expectedAnswer:  true,
		},
		{
			name:           "not_a_repository",
			executionError: execshell.CommandFailedError{Result: execshell.ExecutionResult{ExitCode: 128}},
			expectedAnswer: false,
		},
		{
			name:           "execution_failure",
			executionError: execshell.CommandExecutionError{Cause: errors.New("git missing")},
			expectError:    true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			executor := &scriptedGitExecutor{executionResult: testCase.executionResult, executionError: testCase.executionError}
			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(t, creationError)

			insideWorkTree, checkError := manager.IsInsideWorkTree(context.Background(), testRepositoryPathConstant)
			if testCase.expectError {
				require.Error(t, checkError)
				return
			}
			require.NoError(t, checkError)
			require.Equal(t, testCase.expectedAnswer, insideWorkTree)
		})
	}
}

func TestListBranchesParsesUpstreamStates(t *testing.T) {
	listingOutput := "*\tmain\torigin/main\t\n" +
		"\tfeature-a\torigin/feature-a\t[gone]\n" +
		"\tfeature-b\t\t\n" +
		"\tfeature-c\torigin/feature-c\t[ahead 2]\n"

	executor := &scriptedGitExecutor{executionResult: execshell.ExecutionResult{StandardOutput: listingOutput}}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(t, creationError)

	branchRecords, listError := manager.ListBranches(context.Background(), testRepositoryPathConstant)
	require.NoError(t, listError)
	require.Equal(t, []gitrepo.BranchRecord{
		{Name: "main", UpstreamName: "origin/main", UpstreamStatus: gitrepo.UpstreamStatusTracked, IsCurrent: true},
		{Name: "feature-a", UpstreamName: "origin/feature-a", UpstreamStatus: gitrepo.UpstreamStatusGone},
		{Name: "feature-b", UpstreamStatus: gitrepo.UpstreamStatusNone},
		{Name: "feature-c", UpstreamName: "origin/feature-c", UpstreamStatus: gitrepo.UpstreamStatusTracked},
	}, branchRecords)
}

func TestCurrentBranchTrimsCommandOutput(t *testing.T) {
	executor := &scriptedGitExecutor{executionResult: execshell.ExecutionResult{StandardOutput: "main\n"}}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(t, creationError)

	branchName, resolutionError := manager.CurrentBranch(context.Background(), testRepositoryPathConstant)
	require.NoError(t, resolutionError)
	require.Equal(t, "main", branchName)
	require.Equal(t, []string{"rev-parse", "--abbrev-ref", "HEAD"}, executor.recordedCommands[0].Arguments)
}

func TestDeleteBranchValidatesNameAndIssuesForceDelete(t *testing.T) {
	executor := &scriptedGitExecutor{}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(t, creationError)

	require.ErrorIs(t, manager.DeleteBranch(context.Background(), testRepositoryPathConstant, "  "), gitrepo.ErrBranchNameRequired)

	require.NoError(t, manager.DeleteBranch(context.Background(), testRepositoryPathConstant, "feature-a"))
	require.Len(t, executor.recordedCommands, 1)
	require.Equal(t, []string{"branch", "-D", "feature-a"}, executor.recordedCommands[0].Arguments)
	require.Equal(t, testRepositoryPathConstant, executor.recordedCommands[0].WorkingDirectory)
}

func TestListAliasesParsesConfigurationOutput(t *testing.T) {
	configurationOutput := "alias.cleanup !gitdot cleanup\n" +
		"alias.st status --short\n" +
		"not-an-alias value\n"

	executor := &scriptedGitExecutor{executionResult: execshell.ExecutionResult{StandardOutput: configurationOutput}}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(t, creationError)

	aliasEntries, listError := manager.ListAliases(context.Background(), testRepositoryPathConstant)
	require.NoError(t, listError)
	require.Equal(t, []gitrepo.AliasEntry{
		{Name: "cleanup", Command: "!gitdot cleanup"},
		{Name: "st", Command: "status --short"},
	}, aliasEntries)
}

func TestListAliasesTreatsEmptyMatchAsEmptyList(t *testing.T) {
	executor := &scriptedGitExecutor{executionError: execshell.CommandFailedError{Result: execshell.ExecutionResult{ExitCode: 1}}}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(t, creationError)

	aliasEntries, listError := manager.ListAliases(context.Background(), testRepositoryPathConstant)
	require.NoError(t, listError)
	require.Empty(t, aliasEntries)
}

func TestCheckCleanWorktreeReportsPendingChanges(t *testing.T) {
	executor := &scriptedGitExecutor{executionResult: execshell.ExecutionResult{StandardOutput: " M README.md\n"}}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(t, creationError)

	clean, checkError := manager.CheckCleanWorktree(context.Background(), testRepositoryPathConstant)
	require.NoError(t, checkError)
	require.False(t, clean)
}
