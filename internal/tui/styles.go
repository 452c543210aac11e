package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cuivienor/clipdeck/internal/model"
)

// Colors
var (
	colorPrimary   = lipgloss.Color("39")  // Blue
	colorSecondary = lipgloss.Color("241") // Gray
	colorSuccess   = lipgloss.Color("42")  // Green
	colorWarning   = lipgloss.Color("214") // Orange
	colorError     = lipgloss.Color("196") // Red
	colorMuted     = lipgloss.Color("240") // Dark gray
	colorAccent    = lipgloss.Color("213") // Pink
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	// Step indicator
	stepCompleted = lipgloss.NewStyle().
			Foreground(colorSuccess).
			SetString("✓")

	stepActive = lipgloss.NewStyle().
			Foreground(colorWarning).
			SetString("●")

	stepPending = lipgloss.NewStyle().
			Foreground(colorMuted).
			SetString("○")

	selectedItemStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	mutedItemStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	errorTextStyle = lipgloss.NewStyle().
			Foreground(colorError)

	hookStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(colorAccent)

	badgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	barFull = lipgloss.NewStyle().
		Foreground(colorSuccess).
		SetString("█")

	barEmpty = lipgloss.NewStyle().
			Foreground(colorMuted).
			SetString("░")

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSecondary).
			Padding(0, 1)

	selectedBoxStyle = boxStyle.
				BorderForeground(colorPrimary)

	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary).
				MarginTop(1)
)

// StepIcon returns the indicator for a step state
func StepIcon(state model.StepState) string {
	switch state {
	case model.StepCompleted:
		return stepCompleted.String()
	case model.StepActive:
		return stepActive.String()
	default:
		return stepPending.String()
	}
}

// RenderBar creates a progress bar for a 0..100 percentage
func RenderBar(percent, width int) string {
	if width <= 0 {
		return ""
	}
	if percent < 0 {
		percent = 0
	}
	filledWidth := (percent * width) / 100
	if filledWidth > width {
		filledWidth = width
	}

	var b strings.Builder
	for i := 0; i < filledWidth; i++ {
		b.WriteString(barFull.String())
	}
	for i := filledWidth; i < width; i++ {
		b.WriteString(barEmpty.String())
	}
	return b.String()
}
