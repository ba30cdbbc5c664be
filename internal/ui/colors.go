// Package ui holds the ANSI styling used by help, usage and error output.
package ui

import (
	"os"

	"github.com/mattn/go-isatty"
)

// ANSI color and style constants for CLI output
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"
	ColorDim   = "\033[2m"

	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorWhite  = "\033[97m"
	ColorRed    = "\033[31m"
)

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Paint wraps s in style when enabled, and returns s untouched otherwise
func Paint(enabled bool, style, s string) string {
	if !enabled || style == "" {
		return s
	}
	return style + s + ColorReset
}

func Bold(s string) string {
	return ColorBold + s + ColorReset
}

func Error(s string) string {
	return ColorRed + s + ColorReset
}
