package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var tableStyles = struct {
	Header lipgloss.Style
	Cell   lipgloss.Style
	Border lipgloss.Style
}{
	Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1),
	Cell:   lipgloss.NewStyle().Padding(0, 1),
	Border: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
}

// Table renders rows under headers as a bordered table. Header styling is
// dropped when colors are disabled.
func Table(headers []string, rows [][]string) string {
	header := tableStyles.Header
	if !IsColorEnabled() {
		header = lipgloss.NewStyle().Padding(0, 1)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableStyles.Border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return tableStyles.Cell
		})
	return t.String()
}
