package cli

import "github.com/charmbracelet/lipgloss"

// printStyles holds the lipgloss styles shared by the commands.
type printStyles struct {
	header lipgloss.Style
	name   lipgloss.Style
	total  lipgloss.Style
	warm   lipgloss.Style
	cool   lipgloss.Style
	dim    lipgloss.Style
	errTag lipgloss.Style
}

// newPrintStyles creates a new set of print styles.
func newPrintStyles() printStyles {
	return printStyles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		name:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		total:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		warm:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		cool:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		errTag: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
}
