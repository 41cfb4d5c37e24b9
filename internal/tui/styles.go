package tui

import "github.com/charmbracelet/lipgloss"

var (
	accentColor = lipgloss.AdaptiveColor{Light: "#5A3FD6", Dark: "#A68BFF"}
	mutedColor  = lipgloss.AdaptiveColor{Light: "#6B6B6B", Dark: "#9A9A9A"}
	errorColor  = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#FF6B6B"}
	okColor     = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#7BD88F"}

	logoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(accentColor).
			Padding(0, 1)
	taglineStyle       = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	helperStyle        = lipgloss.NewStyle().Foreground(mutedColor)
	errorStyle         = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	titleStyle         = lipgloss.NewStyle().Bold(true)
	paperTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	badgeStyle         = lipgloss.NewStyle().Foreground(accentColor).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(accentColor).PaddingLeft(1)
	relevanceStyle     = lipgloss.NewStyle().Foreground(okColor).Bold(true)
	linkStyle          = lipgloss.NewStyle().Foreground(accentColor).Underline(true)
	statusBarStyle     = lipgloss.NewStyle().Foreground(mutedColor)
	topicStyle         = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(mutedColor)
	activeTopicStyle   = topicStyle.Copy().BorderForeground(accentColor).Foreground(accentColor).Bold(true)
	panelStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(mutedColor).Padding(0, 1)
	errorPanelStyle    = panelStyle.Copy().BorderForeground(errorColor)
	cardStyle          = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(mutedColor).Padding(0, 1)
	selectedCardStyle  = cardStyle.Copy().BorderForeground(accentColor)
	plainStyle         = lipgloss.NewStyle()
)
