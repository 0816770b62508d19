package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const defaultWidth = 80

// IsStdoutTTY reports whether stdout is attached to a terminal.
func IsStdoutTTY() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// TermWidth returns the width of the terminal on stdout, or 80 when it
// cannot be determined.
func TermWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// DisableColor strips all color and styling from lipgloss output.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// ColorDisabled reports whether NO_COLOR is set in the environment.
func ColorDisabled() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}
