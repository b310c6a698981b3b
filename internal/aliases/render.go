package aliases

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const (
	aliasTableTitleConstant          = "Git Aliases"
	aliasColumnHeaderConstant        = "Alias"
	descriptionColumnHeaderConstant  = "Command/Description"
	aliasTableTitleSeparatorConstant = "\n"
)

var aliasTableTitleStyle = lipgloss.NewStyle().Bold(true)

func renderAliasTable(aliasEntries []AliasDescription) string {
	tableRows := make([][]string, 0, len(aliasEntries))
	for _, aliasEntry := range aliasEntries {
		tableRows = append(tableRows, []string{aliasEntry.Name, aliasEntry.Description})
	}

	renderedTable := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(aliasColumnHeaderConstant, descriptionColumnHeaderConstant).
		Rows(tableRows...).
		String()

	return aliasTableTitleStyle.Render(aliasTableTitleConstant) + aliasTableTitleSeparatorConstant + renderedTable
}
