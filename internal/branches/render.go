package branches

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/temirov/gitdot/internal/gitrepo"
)

var branchTableTitleStyle = lipgloss.NewStyle().Bold(true)

func renderBranchTable(tableTitle string, branchRecords []gitrepo.BranchRecord) string {
	tableRows := make([][]string, 0, len(branchRecords))
	for _, branchRecord := range branchRecords {
		upstreamDisplay := branchRecord.UpstreamName
		if branchRecord.UpstreamStatus == gitrepo.UpstreamStatusNone {
			upstreamDisplay = upstreamNeverConfiguredDisplayConstant
		}
		tableRows = append(tableRows, []string{branchRecord.Name, upstreamDisplay, string(branchRecord.UpstreamStatus)})
	}

	renderedTable := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(branchTableColumnHeaderConstant, upstreamTableColumnHeaderConstant, "Status").
		Rows(tableRows...).
		String()

	return branchTableTitleStyle.Render(tableTitle) + cleanupTableRenderedNewlineConstant + renderedTable
}
