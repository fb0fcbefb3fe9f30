package ui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("212")
	muted  = lipgloss.Color("245")
	danger = lipgloss.Color("203")
)

type Styles struct {
	Title    lipgloss.Style
	Selected lipgloss.Style
	Done     lipgloss.Style
	Muted    lipgloss.Style
	Filter   lipgloss.Style
	Active   lipgloss.Style
	Alert    lipgloss.Style
}

func NewStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(accent),
		Done:     lipgloss.NewStyle().Strikethrough(true).Foreground(muted),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Filter:   lipgloss.NewStyle().Padding(0, 1).Foreground(muted),
		Active:   lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(accent),
		Alert: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(danger).
			Padding(1, 2).
			Bold(true),
	}
}
