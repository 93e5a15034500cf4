package render

import (
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

// terminalWidth returns the terminal width in columns. It tries the
// TIOCGWINSZ ioctl on stdout then stderr, falls back to the COLUMNS
// environment variable, and finally to 80.
func terminalWidth() int {
	for _, fd := range []uintptr{os.Stdout.Fd(), os.Stderr.Fd()} {
		if ws, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ); err == nil && ws.Col > 0 {
			return int(ws.Col)
		}
	}
	if v := os.Getenv("COLUMNS"); v != "" {
		if cols, err := strconv.Atoi(v); err == nil && cols > 0 {
			return cols
		}
	}
	return 80
}
