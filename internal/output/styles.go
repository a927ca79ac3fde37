package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. Never use inline lipgloss.Color literals outside this block.
var (
	// colorCyan is used for identifiable nouns: module ids, package names, paths.
	colorCyan = lipgloss.Color("14")

	// colorGreen is used for the "wrapped" unit status.
	colorGreen = lipgloss.Color("82")

	// colorYellow is used for the "replaced" unit status.
	colorYellow = lipgloss.Color("220")

	// colorBoldRed is used for the "failed" unit status (matches ERROR level).
	colorBoldRed = lipgloss.Color("204")

	// colorGreenCheck is used for the completion checkmark.
	colorGreenCheck = lipgloss.Color("10")

	// colorDimGray is used for table borders.
	colorDimGray = lipgloss.Color("240")

	// colorBlue is used for table headers.
	colorBlue = lipgloss.Color("12")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns (module ids, package names, paths).
	StyleNoun = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleAction styles action verbs (resolving, transforming).
	StyleAction = lipgloss.NewStyle().Bold(true)

	// StyleDim styles structural chrome (scope prefixes, separators).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// Unit status values.
const (
	StatusResolved = "resolved"
	StatusWrapped  = "wrapped"
	StatusReplaced = "replaced"
	StatusIgnored  = "ignored"
	StatusFailed   = "failed"
)

func statusStyle(status string) lipgloss.Style {
	switch status {
	case StatusWrapped:
		return lipgloss.NewStyle().Foreground(colorGreen)
	case StatusReplaced:
		return lipgloss.NewStyle().Foreground(colorYellow)
	case StatusResolved, StatusIgnored:
		return lipgloss.NewStyle().Faint(true)
	case StatusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(colorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minUnitColumnWidth keeps status words aligned.
const minUnitColumnWidth = 40

// FormatUnitLine renders a module id with a right-aligned, color-coded status.
//
// Format: m:<moduleId>  <status>
func FormatUnitLine(moduleID, status string) string {
	padding := minUnitColumnWidth - len(moduleID)
	if padding < 2 {
		padding = 2
	}
	return StyleDim.Render("m:") + StyleNoun.Render(moduleID) + strings.Repeat(" ", padding) + statusStyle(status).Render(status)
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(colorGreenCheck).Render("✔")
	return check + " " + msg
}
