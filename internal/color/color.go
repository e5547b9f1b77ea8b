// Package color provides color detection and theming for report output.
package color

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Profile detects the current color profile based on environment variables and flags.
// Returns true if color output should be enabled.
//
// Color is disabled when any of:
//   - NO_COLOR env is set (any value, per https://no-color.org)
//   - CLICOLOR=0
//   - TERM=dumb
//   - noColorFlag is true (--no-color CLI flag)
func Profile(noColorFlag bool) bool {
	if noColorFlag {
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	if os.Getenv("CLICOLOR") == "0" {
		return false
	}

	if os.Getenv("TERM") == "dumb" {
		return false
	}

	return true
}

// IsTerminal returns true if the given file descriptor is a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Enabled reports whether output written to w should be colored.
// CLICOLOR_FORCE (any value other than "0") colors non-terminal writers.
func Enabled(noColorFlag bool, w io.Writer) bool {
	if !Profile(noColorFlag) {
		return false
	}

	if v, ok := os.LookupEnv("CLICOLOR_FORCE"); ok && v != "0" {
		return true
	}

	f, ok := w.(*os.File)

	return ok && IsTerminal(f)
}

// Theme holds lipgloss styles for frame reports.
type Theme struct {
	Header    lipgloss.Style
	Name      lipgloss.Style
	Partition lipgloss.Style
	Duration  lipgloss.Style
	Slow      lipgloss.Style
	Open      lipgloss.Style
	Log       lipgloss.Style
	Muted     lipgloss.Style
}

// NewTheme creates a Theme. When color is false, all styles are empty (no ANSI codes).
func NewTheme(color bool) Theme {
	if !color {
		return Theme{}
	}

	return Theme{
		Header:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Name:      lipgloss.NewStyle().Bold(true),
		Partition: lipgloss.NewStyle().Foreground(lipgloss.Color("12")), // bright blue
		Duration:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")), // bright green
		Slow:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Open:      lipgloss.NewStyle().Foreground(lipgloss.Color("11")), // bright yellow
		Log:       lipgloss.NewStyle().Italic(true),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}
