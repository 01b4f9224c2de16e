package ui

import "fmt"

// ANSI256 color codes.
const (
	colorID    = 74  // blue
	colorOK    = 114 // green
	colorWarn  = 214 // orange
	colorMuted = 245 // gray
)

var noColor bool

func paint(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderID styles a question, answer, comment or activity ID.
func RenderID(s string) string { return paint(colorID, s) }

// RenderOK styles a healthy status.
func RenderOK(s string) string { return paint(colorOK, s) }

// RenderWarn styles a degraded or failing status.
func RenderWarn(s string) string { return paint(colorWarn, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return paint(colorMuted, s) }

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
