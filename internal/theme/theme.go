package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/momentum/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for section headers and the focus view title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// PanelStyle wraps a bordered block of content.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// HelpStyle is used for keyboard shortcut hints and secondary text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// DoneStyle marks completed tasks.
var DoneStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Strikethrough(true)

// WarningStyle highlights inactive goals and failed actions.
var WarningStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// BadgeStyle renders an earned badge label.
var BadgeStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorMagenta).
	Padding(0, 1)

// GoalStyle renders text in a goal's own color. An empty color falls
// back to the default foreground.
func GoalStyle(color string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	if color == "" {
		return base.Foreground(ColorWhite)
	}
	return base.Foreground(lipgloss.Color(color))
}

// PriorityStyle returns a color-coded style for the given priority.
func PriorityStyle(p model.Priority) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch p {
	case model.PriorityHigh:
		return base.Foreground(ColorRed)
	case model.PriorityMedium:
		return base.Foreground(ColorYellow)
	case model.PriorityLow:
		return base.Foreground(ColorBlue)
	default:
		return base.Foreground(ColorGray)
	}
}

// StreakStyle grows warmer as a streak gets longer.
func StreakStyle(streak int) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch {
	case streak >= 7:
		return base.Foreground(ColorRed)
	case streak >= 3:
		return base.Foreground(ColorYellow)
	case streak >= 1:
		return base.Foreground(ColorGreen)
	default:
		return base.Foreground(ColorGray)
	}
}

// SetDarkMode picks the Dark or Light side of every adaptive color,
// overriding terminal background detection.
func SetDarkMode(dark bool) {
	lipgloss.SetHasDarkBackground(dark)
}
