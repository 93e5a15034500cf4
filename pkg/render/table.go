package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"gitlab.com/tinyland/lab/source-shootout/pkg/shootout"
)

// Column widths for the fixed part of the table. The name column takes
// whatever is left.
const (
	hardwareWidth = 14
	deltaWidth    = 8
	totalWidth    = 12
	percentWidth  = 7
	minNameWidth  = 8
)

// Table renders one collecting tick as a complete frame: a title line
// with the channel and elapsed time, a column header, and one row per
// source in registration order.
func Table(rows []shootout.DisplayRow, channel string, elapsed time.Duration, width int) string {
	if width < 20 {
		width = 20
	}
	nameWidth := width - hardwareWidth - deltaWidth - totalWidth - percentWidth - 4
	if nameWidth < minNameWidth {
		nameWidth = minNameWidth
	}

	var sb strings.Builder

	title := fmt.Sprintf("%s %s channel %s %s up %s",
		titleStyle.Render("shootout"),
		dimStyle.Render("•"), channel,
		dimStyle.Render("•"), formatElapsed(elapsed))
	sb.WriteString(ansi.Truncate(title, width, "…"))
	sb.WriteString("\n\n")

	header := fmt.Sprintf("%-*s %*s %*s %*s %-*s",
		nameWidth, "SOURCE",
		deltaWidth, "PKT/S",
		totalWidth, "TOTAL",
		percentWidth, "%",
		hardwareWidth, "HARDWARE")
	sb.WriteString(headerStyle.Render(header))
	sb.WriteString("\n")

	for _, row := range rows {
		line := fmt.Sprintf("%-*s %*d %*d %*s %-*s",
			nameWidth, ansi.Truncate(row.Name, nameWidth, "…"),
			deltaWidth, row.Delta,
			totalWidth, row.Total,
			percentWidth, formatPercent(row.Percent),
			hardwareWidth, ansi.Truncate(row.Hardware, hardwareWidth, "…"))
		sb.WriteString(StyleFor(row.Severity).Render(line))
		sb.WriteString("\n")
	}

	return sb.String()
}

// WaitingView renders the syncing-phase status: which sources have not
// reached the target channel yet.
func WaitingView(pending []string, channel string) string {
	if len(pending) == 0 {
		return dimStyle.Render(fmt.Sprintf("tuning to channel %s…", channel))
	}
	return fmt.Sprintf("%s %s",
		dimStyle.Render(fmt.Sprintf("waiting for %d source(s) to reach channel %s:", len(pending), channel)),
		strings.Join(pending, ", "))
}

// formatPercent renders a [0,1] fraction as a fixed-width percentage.
func formatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

// formatElapsed renders the time since sync as h/m/s components.
func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
