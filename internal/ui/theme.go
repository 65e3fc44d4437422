package ui

import (
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Hint     lipgloss.Style

	UserMessage      lipgloss.Style
	AssistantMessage lipgloss.Style
	SystemMessage    lipgloss.Style
	ErrorMessage     lipgloss.Style

	InputBorder lipgloss.Style
	Sidebar     lipgloss.Style
	SidebarItem lipgloss.Style
	Label       lipgloss.Style
}

func DefaultTheme() Theme {
	return Theme{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")). // Blue
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")), // Light gray

		Hint: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")). // Gray
			Italic(true),

		UserMessage: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true).
			MarginLeft(2),

		AssistantMessage: lipgloss.NewStyle().
			Foreground(lipgloss.Color("76")). // Green
			MarginLeft(2),

		SystemMessage: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			MarginLeft(2),

		ErrorMessage: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true),

		InputBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1),

		Sidebar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("238")).
			Padding(1, 2),

		SidebarItem: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),

		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Bold(true),
	}
}
