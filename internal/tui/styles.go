package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/roadmap/internal/roadmap"
)

var (
	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	activeColumnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	titleBarStyle = activeColumnHeaderStyle

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("226")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	fileStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	fidelityStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("141")).Bold(true)

	// Same palette as the list tables.
	priorityStyles = map[roadmap.Priority]lipgloss.Style{
		roadmap.PriorityCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		roadmap.PriorityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		roadmap.PriorityMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
	}
)

func priorityStyle(p roadmap.Priority) lipgloss.Style {
	if s, ok := priorityStyles[p]; ok {
		return s
	}
	return dimStyle
}
