package symlinks

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/gitdot/internal/shared"
)

const (
	fileSystemMissingMessageConstant     = "file system not configured"
	sourceRootRequiredMessageConstant    = "source root is required"
	targetRootRequiredMessageConstant    = "target root is required"
	sourceMissingReasonTemplateConstant  = "source %s does not exist"
	targetOccupiedReasonTemplateConstant = "target %s exists and is not a link to %s; use --overwrite to replace it"
	linkCreationReasonTemplateConstant   = "unable to create link: %v"
	targetRemovalReasonTemplateConstant  = "unable to remove existing target: %v"
	parentCreationReasonTemplateConstant = "unable to create parent directory: %v"
	linkCreatedMessageTemplateConstant   = "Linked %s -> %s\n"
	linkUnchangedMessageTemplateConstant = "Already linked %s -> %s\n"
	linkReplacedMessageTemplateConstant  = "Replaced %s -> %s\n"
	linkFailureMessageTemplateConstant   = "Skipped %s: %s\n"
	linkSummaryMessageTemplateConstant   = "Linked %d, unchanged %d, replaced %d, failed %d\n"
	parentDirectoryPermissionsConstant   = fs.FileMode(0o755)
	logFieldLinkTargetConstant           = "link_target"
	logFieldLinkFailureReasonConstant    = "failure_reason"
	linkFailureLogMessageConstant        = "symlink placement failed"
)

// ErrFileSystemNotConfigured indicates the filesystem dependency was missing.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ErrSourceRootRequired indicates an empty source root.
var ErrSourceRootRequired = errors.New(sourceRootRequiredMessageConstant)

// ErrTargetRootRequired indicates an empty target root.
var ErrTargetRootRequired = errors.New(targetRootRequiredMessageConstant)

// LinkEntry names one file to link from the source root into the target root.
// An empty TargetRelativePath mirrors the source path.
type LinkEntry struct {
	SourceRelativePath string
	TargetRelativePath string
}

// LinkFailure records an entry that could not be linked.
type LinkFailure struct {
	TargetPath string
	Reason     string
}

// LinkOptions configures a linking run.
type LinkOptions struct {
	SourceRoot string
	TargetRoot string
	Entries    []LinkEntry
	Overwrite  bool
}

// LinkResult captures the observable outcomes of a linking run.
type LinkResult struct {
	CreatedLinks   []string
	UnchangedLinks []string
	ReplacedLinks  []string
	Failures       []LinkFailure
}

// Dependencies enumerates the collaborators required by the linking service.
type Dependencies struct {
	FileSystem   shared.FileSystem
	Logger       *zap.Logger
	OutputWriter io.Writer
}

// Service places dotfile symlinks.
type Service struct {
	fileSystem   shared.FileSystem
	logger       *zap.Logger
	outputWriter io.Writer
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	outputWriter := dependencies.OutputWriter
	if outputWriter == nil {
		outputWriter = io.Discard
	}

	return &Service{fileSystem: dependencies.FileSystem, logger: logger, outputWriter: outputWriter}, nil
}

// Link ensures every entry is a symlink from the target root to the source
// root. Existing correct links are left alone; occupied targets are replaced
// only when Overwrite is set. Per-entry failures do not abort the batch.
func (service *Service) Link(options LinkOptions) (LinkResult, error) {
	sourceRoot := strings.TrimSpace(options.SourceRoot)
	if len(sourceRoot) == 0 {
		return LinkResult{}, ErrSourceRootRequired
	}

	targetRoot := strings.TrimSpace(options.TargetRoot)
	if len(targetRoot) == 0 {
		return LinkResult{}, ErrTargetRootRequired
	}

	linkResult := LinkResult{
		CreatedLinks:   []string{},
		UnchangedLinks: []string{},
		ReplacedLinks:  []string{},
		Failures:       []LinkFailure{},
	}

	for _, linkEntry := range options.Entries {
		targetRelativePath := linkEntry.TargetRelativePath
		if len(strings.TrimSpace(targetRelativePath)) == 0 {
			targetRelativePath = linkEntry.SourceRelativePath
		}

		sourcePath := filepath.Join(sourceRoot, linkEntry.SourceRelativePath)
		targetPath := filepath.Join(targetRoot, targetRelativePath)

		entryOutcome := service.ensureLink(sourcePath, targetPath, options.Overwrite)
		switch entryOutcome.state {
		case linkStateCreated:
			linkResult.CreatedLinks = append(linkResult.CreatedLinks, targetPath)
			fmt.Fprintf(service.outputWriter, linkCreatedMessageTemplateConstant, targetPath, sourcePath)
		case linkStateUnchanged:
			linkResult.UnchangedLinks = append(linkResult.UnchangedLinks, targetPath)
			fmt.Fprintf(service.outputWriter, linkUnchangedMessageTemplateConstant, targetPath, sourcePath)
		case linkStateReplaced:
			linkResult.ReplacedLinks = append(linkResult.ReplacedLinks, targetPath)
			fmt.Fprintf(service.outputWriter, linkReplacedMessageTemplateConstant, targetPath, sourcePath)
		case linkStateFailed:
			linkResult.Failures = append(linkResult.Failures, LinkFailure{TargetPath: targetPath, Reason: entryOutcome.failureReason})
			fmt.Fprintf(service.outputWriter, linkFailureMessageTemplateConstant, targetPath, entryOutcome.failureReason)
			service.logger.Warn(
				linkFailureLogMessageConstant,
				zap.String(logFieldLinkTargetConstant, targetPath),
				zap.String(logFieldLinkFailureReasonConstant, entryOutcome.failureReason),
			)
		}
	}

	fmt.Fprintf(
		service.outputWriter,
		linkSummaryMessageTemplateConstant,
		len(linkResult.CreatedLinks),
		len(linkResult.UnchangedLinks),
		len(linkResult.ReplacedLinks),
		len(linkResult.Failures),
	)

	return linkResult, nil
}

type linkState int

const (
	linkStateCreated linkState = iota
	linkStateUnchanged
	linkStateReplaced
	linkStateFailed
)

type linkOutcome struct {
	state         linkState
	failureReason string
}

func (service *Service) ensureLink(sourcePath string, targetPath string, overwrite bool) linkOutcome {
	if _, sourceStatError := service.fileSystem.Stat(sourcePath); sourceStatError != nil {
		return linkOutcome{state: linkStateFailed, failureReason: fmt.Sprintf(sourceMissingReasonTemplateConstant, sourcePath)}
	}

	targetInfo, targetStatError := service.fileSystem.Lstat(targetPath)
	if targetStatError != nil {
		if parentError := service.fileSystem.MkdirAll(filepath.Dir(targetPath), parentDirectoryPermissionsConstant); parentError != nil {
			return linkOutcome{state: linkStateFailed, failureReason: fmt.Sprintf(parentCreationReasonTemplateConstant, parentError)}
		}
		if creationError := service.fileSystem.Symlink(sourcePath, targetPath); creationError != nil {
			return linkOutcome{state: linkStateFailed, failureReason: fmt.Sprintf(linkCreationReasonTemplateConstant, creationError)}
		}
		return linkOutcome{state: linkStateCreated}
	}

	if targetInfo.Mode()&fs.ModeSymlink != 0 {
		existingDestination, readlinkError := service.fileSystem.Readlink(targetPath)
		if readlinkError == nil && existingDestination == sourcePath {
			return linkOutcome{state: linkStateUnchanged}
		}
	}

	if !overwrite {
		return linkOutcome{state: linkStateFailed, failureReason: fmt.Sprintf(targetOccupiedReasonTemplateConstant, targetPath, sourcePath)}
	}

	if removalError := service.fileSystem.Remove(targetPath); removalError != nil {
		return linkOutcome{state: linkStateFailed, failureReason: fmt.Sprintf(targetRemovalReasonTemplateConstant, removalError)}
	}
	if creationError := service.fileSystem.Symlink(sourcePath, targetPath); creationError != nil {
		return linkOutcome{state: linkStateFailed, failureReason: fmt.Sprintf(linkCreationReasonTemplateConstant, creationError)}
	}

	return linkOutcome{state: linkStateReplaced}
}
