// Package render draws the shootout's ranked table. The Terminal type
// implements the plain renderer used outside TUI mode: on a TTY it
// repaints a cleared screen every tick, with severity colors from
// lipgloss; when output is redirected it degrades to plain scrolling
// lines so the tool can be piped into a log.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/source-shootout/pkg/shootout"
)

// Terminal renders to an output stream, typically os.Stdout.
type Terminal struct {
	out     *termenv.Output
	channel string
	isTTY   bool

	// widthFunc allows tests to pin the terminal width.
	widthFunc func() int
}

// NewTerminal creates a renderer for w. channel is shown in the frame
// title.
func NewTerminal(w io.Writer, channel string) *Terminal {
	t := &Terminal{
		out:       termenv.NewOutput(w),
		channel:   channel,
		widthFunc: terminalWidth,
	}
	if f, ok := w.(*os.File); ok {
		t.isTTY = isatty.IsTerminal(f.Fd())
	}
	return t
}

// Display implements shootout.Renderer.
func (t *Terminal) Display(rows []shootout.DisplayRow, elapsed time.Duration) {
	frame := Table(rows, t.channel, elapsed, t.widthFunc())
	if t.isTTY {
		t.out.ClearScreen()
		fmt.Fprint(t.out, frame)
		return
	}
	// Redirected output: one summary line per tick.
	parts := make([]string, 0, len(rows))
	for _, row := range rows {
		parts = append(parts, fmt.Sprintf("%s=%d/%d (%s, %s)",
			row.Name, row.Delta, row.Total, formatPercent(row.Percent), row.Severity))
	}
	fmt.Fprintf(t.out, "%s %s\n", formatElapsed(elapsed), strings.Join(parts, " "))
}

// Waiting implements shootout.Renderer.
func (t *Terminal) Waiting(pending []string) {
	if t.isTTY {
		t.out.ClearScreen()
		fmt.Fprintln(t.out, WaitingView(pending, t.channel))
		return
	}
	fmt.Fprintf(t.out, "syncing: %d source(s) pending\n", len(pending))
}
