package pills

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	name     lipgloss.Style
	reading  lipgloss.Style
	detail   lipgloss.Style
	warning  lipgloss.Style
	critical lipgloss.Style
	section  lipgloss.Style
	empty    lipgloss.Style
	faint    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		name:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		reading:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		detail:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		warning:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		critical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section:  lipgloss.NewStyle().MarginTop(1),
		empty:    lipgloss.NewStyle().Faint(true),
		faint:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}
