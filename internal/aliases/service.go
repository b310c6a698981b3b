package aliases

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/gitdot/internal/gitrepo"
)

const (
	repositoryManagerMissingMessageConstant = "repository manager not configured"
	aliasListingWarningMessageConstant      = "unable to read git aliases; showing built-in defaults"
	shellCommandDescriptionPrefixConstant   = "Shell: "
	truncationSuffixConstant                = "..."
	descriptionLengthLimitConstant          = 80
	truncatedDescriptionLengthConstant      = 77
	aliasCountFooterTemplateConstant        = "\nFound %d git aliases\n"
)

// ErrRepositoryManagerNotConfigured indicates the repository manager dependency was missing.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// curatedDescriptions replaces raw commands for the aliases this toolkit manages.
var curatedDescriptions = map[string]string{
	"alias":    "List all git aliases in a formatted table",
	"branches": "Download all remote branches and create local tracking branches",
	"cleanup":  "Delete local branches with no remote tracking or that no longer exist on remote",
}

// fallbackDescriptions is shown when git configuration cannot be read at all.
var fallbackDescriptions = []AliasDescription{
	{Name: "alias", Description: "List all aliases"},
	{Name: "branches", Description: "Track all remote branches"},
	{Name: "cleanup", Description: "Cleanup merged branches"},
}

// RepositoryService enumerates the repository operations alias listing depends on.
type RepositoryService interface {
	ListAliases(executionContext context.Context, repositoryPath string) ([]gitrepo.AliasEntry, error)
}

// Dependencies enumerates the collaborators required by the alias service.
type Dependencies struct {
	RepositoryManager RepositoryService
	Logger            *zap.Logger
	OutputWriter      io.Writer
}

// ListOptions configures an alias listing run.
type ListOptions struct {
	RepositoryPath string
}

// AliasDescription pairs an alias name with its display description.
type AliasDescription struct {
	Name        string
	Description string
}

// AliasListing captures the outcome of an alias listing run.
type AliasListing struct {
	Entries      []AliasDescription
	UsedFallback bool
}

// Service lists configured Git aliases.
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

// PrintAliases renders the configured aliases as a table.
//
// Listing failures fall back to a built-in alias set so the command always
// succeeds; an empty configuration renders an empty table.
func (service *Service) PrintAliases(executionContext context.Context, options ListOptions) AliasListing {
	aliasEntries, listingError := service.repositoryManager.ListAliases(executionContext, strings.TrimSpace(options.RepositoryPath))

	aliasListing := AliasListing{Entries: []AliasDescription{}}
	if listingError != nil {
		service.logger.Warn(aliasListingWarningMessageConstant, zap.Error(listingError))
		aliasListing.Entries = append(aliasListing.Entries, fallbackDescriptions...)
		aliasListing.UsedFallback = true
	} else {
		for _, aliasEntry := range aliasEntries {
			aliasListing.Entries = append(aliasListing.Entries, AliasDescription{
				Name:        aliasEntry.Name,
				Description: DescribeAlias(aliasEntry.Name, aliasEntry.Command),
			})
		}
		sort.Slice(aliasListing.Entries, func(firstIndex, secondIndex int) bool {
			return aliasListing.Entries[firstIndex].Name < aliasListing.Entries[secondIndex].Name
		})
	}

	fmt.Fprint(service.outputWriter, renderAliasTable(aliasListing.Entries))
	fmt.Fprintf(service.outputWriter, aliasCountFooterTemplateConstant, len(aliasListing.Entries))

	return aliasListing
}

// DescribeAlias produces the display description for a configured alias.
//
// Aliases this toolkit installs get curated descriptions. Shell aliases are
// prefixed and truncated; plain git sub-command aliases are shown as-is up to
// the display limit.
func DescribeAlias(aliasName string, aliasCommand string) string {
	if curatedDescription, hasCuratedDescription := curatedDescriptions[aliasName]; hasCuratedDescription {
		return curatedDescription
	}

	if strings.HasPrefix(aliasCommand, "!") {
		shellCommand := aliasCommand[1:]
		return shellCommandDescriptionPrefixConstant + truncateDescription(shellCommand)
	}

	return truncateDescription(aliasCommand)
}

func truncateDescription(rawDescription string) string {
	descriptionRunes := []rune(rawDescription)
	if len(descriptionRunes) <= descriptionLengthLimitConstant {
		return rawDescription
	}
	return string(descriptionRunes[:truncatedDescriptionLengthConstant]) + truncationSuffixConstant
}
