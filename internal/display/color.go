// Package display styles terminal output with lipgloss.
//
// Colour follows NO_COLOR (https://no-color.org/) and FORCE_COLOR, and is
// otherwise on only when stdout is a terminal.
package display

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	renderer = lipgloss.NewRenderer(os.Stdout)
	enabled  bool

	boldStyle    = renderer.NewStyle().Bold(true)
	dimStyle     = renderer.NewStyle().Faint(true)
	greenStyle   = renderer.NewStyle().Foreground(lipgloss.Color("2"))
	yellowStyle  = renderer.NewStyle().Foreground(lipgloss.Color("3"))
	cyanStyle    = renderer.NewStyle().Foreground(lipgloss.Color("6"))
	grayStyle    = renderer.NewStyle().Foreground(lipgloss.Color("8"))
	accentStyle  = renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	warningStyle = renderer.NewStyle().Foreground(lipgloss.Color("1"))
)

func init() {
	SetEnabled(shouldEnable())
}

func shouldEnable() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if _, ok := os.LookupEnv("FORCE_COLOR"); ok {
		return true
	}
	return IsTerminal(os.Stdout)
}

// IsTerminal reports whether f is connected to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns stdout's width, or fallback when unknown.
func TerminalWidth(fallback int) int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

// SetEnabled overrides the detected colour state, e.g. for --json.
func SetEnabled(b bool) {
	enabled = b
	if b {
		renderer.SetColorProfile(termenv.ANSI256)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}
}

// Enabled reports whether colour output is active.
func Enabled() bool {
	return enabled
}

func render(s lipgloss.Style, text string) string {
	if !enabled {
		return text
	}
	return s.Render(text)
}

func Bold(text string) string   { return render(boldStyle, text) }
func Dim(text string) string    { return render(dimStyle, text) }
func Green(text string) string  { return render(greenStyle, text) }
func Yellow(text string) string { return render(yellowStyle, text) }
func Cyan(text string) string   { return render(cyanStyle, text) }
func Gray(text string) string   { return render(grayStyle, text) }

// Accent marks the next event.
func Accent(text string) string { return render(accentStyle, text) }

// Warning marks clamped, estimated and missing times.
func Warning(text string) string { return render(warningStyle, text) }

// Boldf formats and bolds a string.
func Boldf(format string, a ...any) string {
	return Bold(fmt.Sprintf(format, a...))
}
