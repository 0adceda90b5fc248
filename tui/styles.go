package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
const (
	colorPrimary   = "#2563EB"
	colorSuccess   = "#04B575"
	colorError     = "#FF5555"
	colorWarning   = "#F59E0B"
	colorInfo      = "#626262"
	colorHighlight = "#FAFAFA"
	colorBorder    = "#3B82F6"
)

// Styles for the TUI application
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorPrimary)).
			MarginTop(1).
			MarginBottom(1)

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorSuccess))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorError))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorWarning))

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorInfo))

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorBorder)).
			Padding(1, 2)

	HighlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorHighlight)).
			Background(lipgloss.Color(colorPrimary)).
			Padding(0, 1)

	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorHighlight))
)
