package autosync_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitdot/internal/autosync"
)

func TestCommandBuilderBuild(testInstance *testing.T) {
	builder := &autosync.CommandBuilder{WorkingDirectory: "/Users/example/dotfiles"}

	command, buildError := builder.Build()

	require.NoError(testInstance, buildError)
	require.Equal(testInstance, "sync", command.Use)
	require.Equal(testInstance, "/Users/example/dotfiles", command.Flags().Lookup("repository").DefValue)
}

func TestCommandSynchronizesRepository(testInstance *testing.T) {
	repositoryManager := &fakeRepositoryManager{insideWorkTree: true, worktreeClean: true}

	builder := &autosync.CommandBuilder{
		RepositoryManager:     repositoryManager,
		HomeDirectoryProvider: func() (string, error) { return "/Users/example", nil },
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetArgs([]string{"--repository", "~/dotfiles"})
	command.SetOut(outputBuffer)
	command.SetErr(&bytes.Buffer{})

	executionError := command.ExecuteContext(context.Background())

	require.NoError(testInstance, executionError)
	require.True(testInstance, repositoryManager.fetchInvoked)
	require.True(testInstance, repositoryManager.pullInvoked)
	require.Contains(testInstance, outputBuffer.String(), "Synchronized /Users/example/dotfiles")
}

func TestCommandReportsDirtyWorktree(testInstance *testing.T) {
	builder := &autosync.CommandBuilder{
		RepositoryManager: &fakeRepositoryManager{insideWorkTree: true, worktreeClean: false},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetArgs([]string{})
	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})

	executionError := command.ExecuteContext(context.Background())

	require.ErrorIs(testInstance, executionError, autosync.ErrDirtyWorktree)
}
