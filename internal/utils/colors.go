package utils

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Terminal color codes using ANSI escape sequences
const (
	ResetColor   = "\033[0m"
	RedColor     = "\033[31m" // For errors
	GreenColor   = "\033[32m" // For success/completion
	YellowColor  = "\033[33m" // For warnings
	BlueColor    = "\033[34m" // For stage info
	MagentaColor = "\033[35m" // For emphasis
	CyanColor    = "\033[36m" // For debug
)

var colorEnabled = shouldColorize(os.Stdout)

// shouldColorize reports whether ANSI colors should be written to w.
// NO_COLOR disables colors regardless of the terminal.
func shouldColorize(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ColoredText wraps text with color codes and reset at the end
func ColoredText(text string, color string) string {
	if !colorEnabled {
		return text
	}
	return color + text + ResetColor
}

// Info returns blue-colored text for stage info messages
func Info(text string) string {
	return ColoredText(text, BlueColor)
}

// Success returns green-colored text for success messages
func Success(text string) string {
	return ColoredText(text, GreenColor)
}

// Warning returns yellow-colored text for warning messages
func Warning(text string) string {
	return ColoredText(text, YellowColor)
}

// Error returns red-colored text for error messages
func Error(text string) string {
	return ColoredText(text, RedColor)
}

// Highlight returns magenta-colored text for emphasized content
func Highlight(text string) string {
	return ColoredText(text, MagentaColor)
}

// Debug returns cyan-colored text for debug info
func Debug(text string) string {
	return ColoredText(text, CyanColor)
}
