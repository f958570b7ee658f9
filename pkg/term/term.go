// Package term has helpers for coloring terminal output.
package term

import (
	"fmt"
	"runtime"
	"strconv"
)

// Foreground colors.
const (
	FgBlack = iota + 30
	FgRed
	FgGreen
	FgYellow
	FgBlue
	FgMagenta
	FgCyan
	FgWhite
)

var escape = "\x1b"

func init() {
	if runtime.GOOS == "windows" {
		escape = ""
	}
}

// Color wraps s in a color code. Nothing is added on
// terminals that don't support escape codes.
func Color(code int, s string) string {
	if escape == "" {
		return s
	}
	return fmt.Sprintf("%[1]s[%dm%s%[1]s[0m", escape, code, s)
}

// Red returns s but colored red
func Red(s string) string { return Color(FgRed, s) }

// Green returns s but colored green
func Green(s string) string { return Color(FgGreen, s) }

// Yellow returns s but colored yellow
func Yellow(s string) string { return Color(FgYellow, s) }

// Percent formats a percentage with a fixed number of decimal
// places. When color is true the result is green at or above 90,
// yellow at or above 70, and red otherwise.
func Percent(p float64, precision int, color bool) string {
	s := strconv.FormatFloat(p, 'f', precision, 64) + "%"
	if !color {
		return s
	}
	switch {
	case p >= 90:
		return Green(s)
	case p >= 70:
		return Yellow(s)
	default:
		return Red(s)
	}
}
