package configgen_test

import (
	"bytes"
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/temirov/gitdot/internal/configgen"
)

type memoryFileSystem struct {
	files        map[string][]byte
	writeErrors  map[string]error
	writtenPaths []string
}

func newMemoryFileSystem() *memoryFileSystem {
	return &memoryFileSystem{files: map[string][]byte{}, writeErrors: map[string]error{}}
}

func (fileSystem *memoryFileSystem) Stat(path string) (fs.FileInfo, error) {
	if _, exists := fileSystem.files[path]; exists {
		return nil, nil
	}
	return nil, fs.ErrNotExist
}

func (fileSystem *memoryFileSystem) Lstat(path string) (fs.FileInfo, error) {
	return fileSystem.Stat(path)
}

func (fileSystem *memoryFileSystem) ReadFile(path string) ([]byte, error) {
	fileContent, exists := fileSystem.files[path]
	if !exists {
		return nil, fs.ErrNotExist
	}
	return append([]byte{}, fileContent...), nil
}

func (fileSystem *memoryFileSystem) WriteFile(path string, data []byte, _ fs.FileMode) error {
	if writeError, hasError := fileSystem.writeErrors[path]; hasError {
		return writeError
	}
	fileSystem.files[path] = append([]byte{}, data...)
	fileSystem.writtenPaths = append(fileSystem.writtenPaths, path)
	return nil
}

func (fileSystem *memoryFileSystem) MkdirAll(_ string, _ fs.FileMode) error { return nil }

func (fileSystem *memoryFileSystem) Symlink(_ string, _ string) error { return nil }

func (fileSystem *memoryFileSystem) Readlink(_ string) (string, error) { return "", fs.ErrNotExist }

func (fileSystem *memoryFileSystem) Remove(path string) error {
	delete(fileSystem.files, path)
	return nil
}

type fixedClock struct {
	fixedTime time.Time
}

func (clock fixedClock) Now() time.Time {
	return clock.fixedTime
}

const generationTemplateContent = "[user]\n\tname = Example\n[include]\n\tpath = {{REPO_PATH}}/gitconfig.shared\n[core]\n\texcludesfile = {{HOME_DIR}}/.gitignore_global\n# {{UNKNOWN_TOKEN}} stays\n"

func standardSubstitutions() map[string]string {
	return map[string]string{
		"REPO_PATH": "/workspace/dotfiles",
		"HOME_DIR":  "/Users/example",
	}
}

func newGenerationService(testInstance *testing.T, fileSystem *memoryFileSystem, clockTime time.Time) *configgen.Service {
	service, creationError := configgen.NewService(configgen.Dependencies{
		FileSystem:   fileSystem,
		Clock:        fixedClock{fixedTime: clockTime},
		Logger:       zaptest.NewLogger(testInstance),
		OutputWriter: &bytes.Buffer{},
	})
	require.NoError(testInstance, creationError)
	return service
}

func TestServiceInitializationValidation(testInstance *testing.T) {
	testCases := []struct {
		name          string
		dependencies  configgen.Dependencies
		expectedError error
	}{
		{
			name:          "missing_file_system",
			dependencies:  configgen.Dependencies{Clock: fixedClock{}},
			expectedError: configgen.ErrFileSystemNotConfigured,
		},
		{
			name:          "missing_clock",
			dependencies:  configgen.Dependencies{FileSystem: newMemoryFileSystem()},
			expectedError: configgen.ErrClockNotConfigured,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			service, creationError := configgen.NewService(testCase.dependencies)

			require.Nil(subtestInstance, service)
			require.ErrorIs(subtestInstance, creationError, testCase.expectedError)
		})
	}
}

func TestGenerateRequiresPaths(testInstance *testing.T) {
	fileSystem := newMemoryFileSystem()
	service := newGenerationService(testInstance, fileSystem, time.Now())

	_, missingTemplateError := service.Generate(configgen.GenerateOptions{OutputPath: "/Users/example/.gitconfig"})
	require.ErrorIs(testInstance, missingTemplateError, configgen.ErrTemplatePathRequired)

	_, missingOutputError := service.Generate(configgen.GenerateOptions{TemplatePath: "/workspace/dotfiles/gitconfig.template"})
	require.ErrorIs(testInstance, missingOutputError, configgen.ErrOutputPathRequired)
}

func TestGenerateReportsMissingTemplate(testInstance *testing.T) {
	fileSystem := newMemoryFileSystem()
	service := newGenerationService(testInstance, fileSystem, time.Now())

	_, generationError := service.Generate(configgen.GenerateOptions{
		TemplatePath: "/workspace/dotfiles/gitconfig.template",
		OutputPath:   "/Users/example/.gitconfig",
	})

	require.ErrorIs(testInstance, generationError, configgen.ErrTemplateNotFound)
	require.Contains(testInstance, generationError.Error(), "/workspace/dotfiles/gitconfig.template")
}

func TestGenerateFirstRunWritesWithoutBackup(testInstance *testing.T) {
	fileSystem := newMemoryFileSystem()
	fileSystem.files["/workspace/dotfiles/gitconfig.template"] = []byte(generationTemplateContent)
	service := newGenerationService(testInstance, fileSystem, time.Now())

	generateResult, generationError := service.Generate(configgen.GenerateOptions{
		TemplatePath:  "/workspace/dotfiles/gitconfig.template",
		OutputPath:    "/Users/example/.gitconfig",
		Substitutions: standardSubstitutions(),
	})

	require.NoError(testInstance, generationError)
	require.False(testInstance, generateResult.BackupCreated)
	require.Empty(testInstance, generateResult.BackupPath)

	renderedContent := string(fileSystem.files["/Users/example/.gitconfig"])
	require.Contains(testInstance, renderedContent, "path = /workspace/dotfiles/gitconfig.shared")
	require.Contains(testInstance, renderedContent, "excludesfile = /Users/example/.gitignore_global")
	require.NotContains(testInstance, renderedContent, "{{REPO_PATH}}")
	require.NotContains(testInstance, renderedContent, "{{HOME_DIR}}")
	require.Contains(testInstance, renderedContent, "{{UNKNOWN_TOKEN}}")
}

func TestGenerateBacksUpExistingOutput(testInstance *testing.T) {
	existingConfiguration := []byte("[user]\n\tname = Old Config\n")
	generationTime := time.Date(2024, time.March, 9, 14, 30, 45, 0, time.UTC)

	fileSystem := newMemoryFileSystem()
	fileSystem.files["/workspace/dotfiles/gitconfig.template"] = []byte(generationTemplateContent)
	fileSystem.files["/Users/example/.gitconfig"] = existingConfiguration
	service := newGenerationService(testInstance, fileSystem, generationTime)

	generateResult, generationError := service.Generate(configgen.GenerateOptions{
		TemplatePath:  "/workspace/dotfiles/gitconfig.template",
		OutputPath:    "/Users/example/.gitconfig",
		Substitutions: standardSubstitutions(),
	})

	require.NoError(testInstance, generationError)
	require.True(testInstance, generateResult.BackupCreated)
	require.Equal(testInstance, "/Users/example/.gitconfig.backup-20240309-143045", generateResult.BackupPath)
	require.Equal(testInstance, existingConfiguration, fileSystem.files[generateResult.BackupPath])
	require.NotEqual(testInstance, existingConfiguration, fileSystem.files["/Users/example/.gitconfig"])
}

func TestGenerateAbortsWhenBackupFails(testInstance *testing.T) {
	existingConfiguration := []byte("[user]\n\tname = Old Config\n")
	generationTime := time.Date(2024, time.March, 9, 14, 30, 45, 0, time.UTC)
	backupPath := "/Users/example/.gitconfig.backup-20240309-143045"

	fileSystem := newMemoryFileSystem()
	fileSystem.files["/workspace/dotfiles/gitconfig.template"] = []byte(generationTemplateContent)
	fileSystem.files["/Users/example/.gitconfig"] = existingConfiguration
	fileSystem.writeErrors[backupPath] = errors.New("disk full")
	service := newGenerationService(testInstance, fileSystem, generationTime)

	_, generationError := service.Generate(configgen.GenerateOptions{
		TemplatePath:  "/workspace/dotfiles/gitconfig.template",
		OutputPath:    "/Users/example/.gitconfig",
		Substitutions: standardSubstitutions(),
	})

	require.Error(testInstance, generationError)
	require.Contains(testInstance, generationError.Error(), "disk full")
	require.Equal(testInstance, existingConfiguration, fileSystem.files["/Users/example/.gitconfig"])
	require.Empty(testInstance, fileSystem.writtenPaths)
}

func TestRenderTemplate(testInstance *testing.T) {
	testCases := []struct {
		name            string
		templateContent string
		substitutions   map[string]string
		expectedContent string
	}{
		{
			name:            "replaces_every_occurrence",
			templateContent: "{{REPO_PATH}}/a and {{REPO_PATH}}/b",
			substitutions:   map[string]string{"REPO_PATH": "/workspace/dotfiles"},
			expectedContent: "/workspace/dotfiles/a and /workspace/dotfiles/b",
		},
		{
			name:            "unrecognized_tokens_pass_through",
			templateContent: "{{MYSTERY}} stays",
			substitutions:   map[string]string{"REPO_PATH": "/workspace/dotfiles"},
			expectedContent: "{{MYSTERY}} stays",
		},
		{
			name:            "nil_substitutions_leave_content_untouched",
			templateContent: "{{REPO_PATH}}",
			substitutions:   nil,
			expectedContent: "{{REPO_PATH}}",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			require.Equal(subtestInstance, testCase.expectedContent, configgen.RenderTemplate(testCase.templateContent, testCase.substitutions))
		})
	}
}
