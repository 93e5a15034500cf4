package render

import (
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/source-shootout/pkg/shootout"
)

// Palette for severity bands and chrome.
const (
	colorGreen  = "#10B981"
	colorYellow = "#F59E0B"
	colorRed    = "#EF4444"
	colorBlue   = "#3B82F6"
	colorGray   = "#6B7280"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorBlue))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorGray))

	goodStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreen))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(colorYellow))
	lowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed))
	peakStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorGreen))
	criticalStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorRed))
)

// StyleFor returns the lipgloss style for a severity band.
func StyleFor(sev shootout.Severity) lipgloss.Style {
	switch sev {
	case shootout.SeverityCritical:
		return criticalStyle
	case shootout.SeverityPeak:
		return peakStyle
	case shootout.SeverityLow:
		return lowStyle
	case shootout.SeverityWarn:
		return warnStyle
	default:
		return goodStyle
	}
}
