package configgen

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/gitdot/internal/shared"
)

const (
	fileSystemMissingMessageConstant    = "file system not configured"
	clockMissingMessageConstant         = "clock not configured"
	templateNotFoundMessageConstant     = "template not found"
	templatePathRequiredMessageConstant = "template path is required"
	outputPathRequiredMessageConstant   = "output path is required"
	templateReadErrorTemplateConstant   = "unable to read template %s: %w"
	backupWriteErrorTemplateConstant    = "unable to back up %s to %s: %w"
	outputWriteErrorTemplateConstant    = "unable to write %s: %w"
	outputReadErrorTemplateConstant     = "unable to read existing output %s: %w"
	templateNotFoundTemplateConstant    = "%w: %s"
	placeholderOpeningDelimiterConstant = "{{"
	placeholderClosingDelimiterConstant = "}}"
	backupSuffixPrefixConstant          = ".backup-"
	backupTimestampLayoutConstant       = "20060102-150405"
	generatedFilePermissionsConstant    = fs.FileMode(0o644)
	backupCreatedMessageConstant        = "Backed up %s to %s\n"
	outputGeneratedMessageConstant      = "Generated %s from %s\n"
	logFieldTemplatePathConstant        = "template_path"
	logFieldOutputPathConstant          = "output_path"
	logFieldBackupPathConstant          = "backup_path"
	generationCompletedLogMessage       = "configuration generated"
)

// ErrTemplateNotFound indicates the template file does not exist.
var ErrTemplateNotFound = errors.New(templateNotFoundMessageConstant)

// ErrTemplatePathRequired indicates an empty template path.
var ErrTemplatePathRequired = errors.New(templatePathRequiredMessageConstant)

// ErrOutputPathRequired indicates an empty output path.
var ErrOutputPathRequired = errors.New(outputPathRequiredMessageConstant)

// ErrFileSystemNotConfigured indicates the filesystem dependency was missing.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ErrClockNotConfigured indicates the clock dependency was missing.
var ErrClockNotConfigured = errors.New(clockMissingMessageConstant)

// Dependencies enumerates the collaborators required by the generation service.
type Dependencies struct {
	FileSystem   shared.FileSystem
	Clock        shared.Clock
	Logger       *zap.Logger
	OutputWriter io.Writer
}

// GenerateOptions configures a generation run.
type GenerateOptions struct {
	TemplatePath  string
	OutputPath    string
	Substitutions map[string]string
}

// GenerateResult captures the observable outcomes of a generation run.
type GenerateResult struct {
	BackupPath    string
	BytesWritten  int
	BackupCreated bool
}

// Service renders configuration templates to their destinations.
type Service struct {
	fileSystem   shared.FileSystem
	clock        shared.Clock
	logger       *zap.Logger
	outputWriter io.Writer
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if dependencies.Clock == nil {
		return nil, ErrClockNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	outputWriter := dependencies.OutputWriter
	if outputWriter == nil {
		outputWriter = io.Discard
	}

	return &Service{
		fileSystem:   dependencies.FileSystem,
		clock:        dependencies.Clock,
		logger:       logger,
		outputWriter: outputWriter,
	}, nil
}

// Generate renders the template with the provided substitutions and writes
// the result to the output path.
//
// An existing output file is copied to a timestamped sibling backup first;
// a backup failure aborts the run before the output is touched.
func (service *Service) Generate(options GenerateOptions) (GenerateResult, error) {
	templatePath := strings.TrimSpace(options.TemplatePath)
	if len(templatePath) == 0 {
		return GenerateResult{}, ErrTemplatePathRequired
	}

	outputPath := strings.TrimSpace(options.OutputPath)
	if len(outputPath) == 0 {
		return GenerateResult{}, ErrOutputPathRequired
	}

	templateContent, templateReadError := service.fileSystem.ReadFile(templatePath)
	if templateReadError != nil {
		if errors.Is(templateReadError, fs.ErrNotExist) {
			return GenerateResult{}, fmt.Errorf(templateNotFoundTemplateConstant, ErrTemplateNotFound, templatePath)
		}
		return GenerateResult{}, fmt.Errorf(templateReadErrorTemplateConstant, templatePath, templateReadError)
	}

	generateResult := GenerateResult{}

	existingContent, existingReadError := service.fileSystem.ReadFile(outputPath)
	switch {
	case existingReadError == nil:
		backupPath := outputPath + backupSuffixPrefixConstant + service.clock.Now().Format(backupTimestampLayoutConstant)
		if backupWriteError := service.fileSystem.WriteFile(backupPath, existingContent, generatedFilePermissionsConstant); backupWriteError != nil {
			return GenerateResult{}, fmt.Errorf(backupWriteErrorTemplateConstant, outputPath, backupPath, backupWriteError)
		}
		generateResult.BackupPath = backupPath
		generateResult.BackupCreated = true
		fmt.Fprintf(service.outputWriter, backupCreatedMessageConstant, outputPath, backupPath)
	case errors.Is(existingReadError, fs.ErrNotExist):
		// First generation; nothing to back up.
	default:
		return GenerateResult{}, fmt.Errorf(outputReadErrorTemplateConstant, outputPath, existingReadError)
	}

	renderedContent := RenderTemplate(string(templateContent), options.Substitutions)

	if outputWriteError := service.fileSystem.WriteFile(outputPath, []byte(renderedContent), generatedFilePermissionsConstant); outputWriteError != nil {
		return GenerateResult{}, fmt.Errorf(outputWriteErrorTemplateConstant, outputPath, outputWriteError)
	}

	generateResult.BytesWritten = len(renderedContent)

	fmt.Fprintf(service.outputWriter, outputGeneratedMessageConstant, outputPath, templatePath)
	service.logger.Info(
		generationCompletedLogMessage,
		zap.String(logFieldTemplatePathConstant, templatePath),
		zap.String(logFieldOutputPathConstant, outputPath),
		zap.String(logFieldBackupPathConstant, generateResult.BackupPath),
	)

	return generateResult, nil
}

// RenderTemplate replaces recognized placeholder tokens with their values.
//
// Only tokens present in the substitution map are replaced; any other
// placeholder-shaped text passes through untouched.
func RenderTemplate(templateContent string, substitutions map[string]string) string {
	renderedContent := templateContent
	for placeholderName, placeholderValue := range substitutions {
		placeholderToken := placeholderOpeningDelimiterConstant + placeholderName + placeholderClosingDelimiterConstant
		renderedContent = strings.ReplaceAll(renderedContent, placeholderToken, placeholderValue)
	}
	return renderedContent
}
