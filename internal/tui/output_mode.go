package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode selects between the interactive program and plain text.
type OutputMode int

const (
	// OutputModeInteractive runs the Bubble Tea program.
	OutputModeInteractive OutputMode = iota
	// OutputModePlain prints rows as plain lines.
	OutputModePlain
)

// String returns the mode name.
func (m OutputMode) String() string {
	if m == OutputModePlain {
		return "plain"
	}
	return "interactive"
}

// DetectOutputMode picks plain output when forced, when out is not a
// terminal, or when the terminal is dumb or CI is set.
func DetectOutputMode(forcePlain bool, out *os.File) OutputMode {
	if forcePlain || out == nil {
		return OutputModePlain
	}
	if os.Getenv("TERM") == "dumb" || os.Getenv("CI") != "" {
		return OutputModePlain
	}
	if !term.IsTerminal(int(out.Fd())) { //nolint:gosec // Fd fits in int on supported platforms.
		return OutputModePlain
	}
	return OutputModeInteractive
}

// TerminalWidth returns out's width, or fallback when unknown.
func TerminalWidth(out *os.File, fallback int) int {
	if out == nil {
		return fallback
	}
	w, _, err := term.GetSize(int(out.Fd())) //nolint:gosec // Fd fits in int on supported platforms.
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}
