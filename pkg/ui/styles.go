package ui

import "github.com/charmbracelet/lipgloss"

// Color palette, Dracula-inspired.
var (
	ColorBg        = lipgloss.Color("#282A36")
	ColorText      = lipgloss.Color("#F8F8F2")
	ColorSubtext   = lipgloss.Color("#BFBFBF")
	ColorMuted     = lipgloss.Color("#6272A4")
	ColorPrimary   = lipgloss.Color("#BD93F9")
	ColorInfo      = lipgloss.Color("#8BE9FD")
	ColorSuccess   = lipgloss.Color("#50FA7B")
	ColorWarning   = lipgloss.Color("#FFB86C")
	ColorDanger    = lipgloss.Color("#FF5555")
	ColorHighlight = lipgloss.Color("#44475A")

	// Node kind colors.
	ColorKindRoot    = lipgloss.Color("#F1FA8C")
	ColorKindSkill   = lipgloss.Color("#8BE9FD")
	ColorKindOutcome = lipgloss.Color("#BD93F9")
	ColorKindCareer  = lipgloss.Color("#50FA7B")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	headerStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext)

	ringHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorInfo)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Background(ColorHighlight)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	errorBannerStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorText).
				Background(ColorDanger).
				Padding(0, 1)

	pendingStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	pathTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSuccess)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext)
)

// kindStyle returns the accent style for a node kind marker.
func kindStyle(kind string) lipgloss.Style {
	switch kind {
	case "root":
		return lipgloss.NewStyle().Foreground(ColorKindRoot)
	case "skill":
		return lipgloss.NewStyle().Foreground(ColorKindSkill)
	case "outcome":
		return lipgloss.NewStyle().Foreground(ColorKindOutcome)
	case "career":
		return lipgloss.NewStyle().Foreground(ColorKindCareer)
	}
	return lipgloss.NewStyle().Foreground(ColorSubtext)
}
