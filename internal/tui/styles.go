package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/INF-Lucas/Timeboxing/internal/core/timebox"
)

var (
	colorHigh    = lipgloss.Color("#f7768e")
	colorMedium  = lipgloss.Color("#e0af68")
	colorLow     = lipgloss.Color("#9ece6a")
	colorMuted   = lipgloss.Color("#565f89")
	colorPrimary = lipgloss.Color("#7aa2f7")
	colorSurface = lipgloss.Color("#3b4261")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	hourRuleStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	gutterStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	draftStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Underline(true)

	conflictStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHigh)

	doneStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Strikethrough(true)

	missedStyle = lipgloss.NewStyle().
			Foreground(colorHigh)

	activeBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorLow)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	promptStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorHigh).
			Padding(0, 1)

	statusLineStyle = lipgloss.NewStyle().
			Foreground(colorSurface)
)

// urgencyStyle returns the tone for a box's computed urgency.
func urgencyStyle(u timebox.Urgency) lipgloss.Style {
	switch u {
	case timebox.UrgencyHigh:
		return lipgloss.NewStyle().Foreground(colorHigh)
	case timebox.UrgencyLow:
		return lipgloss.NewStyle().Foreground(colorLow)
	default:
		return lipgloss.NewStyle().Foreground(colorMedium)
	}
}

// boxStyle resolves the card style from status, with urgency toning
// planned and active boxes.
func boxStyle(b timebox.Box) lipgloss.Style {
	switch b.Status {
	case timebox.StatusDone:
		return doneStyle
	case timebox.StatusMissed:
		return missedStyle
	default:
		return urgencyStyle(timebox.UrgencyForBox(b))
	}
}
