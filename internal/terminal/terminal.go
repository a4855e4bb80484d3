// Package terminal holds the raw escape sequences used outside of the
// bubbletea screen, mainly for the simple direct-print mode.
package terminal

import (
	"os"
)

type Capabilities struct {
	SupportsRGB bool
	TermProgram string
}

func DetectCapabilities() *Capabilities {
	return &Capabilities{
		SupportsRGB: true,
		TermProgram: os.Getenv("TERM_PROGRAM"),
	}
}

func HideCursor() {
	os.Stdout.WriteString("\033[?25l")
}

func ShowCursor() {
	os.Stdout.WriteString("\033[?25h")
}

func ClearScreen() {
	os.Stdout.WriteString("\033[2J\033[H")
}

// Reset restores cursor, colors, alt screen and mouse reporting. Runs
// on exit so an interrupted session does not leave the shell mangled.
func Reset() {
	os.Stdout.WriteString("\033[?25h")
	os.Stdout.WriteString("\033[0m")
	os.Stdout.WriteString("\033[?1049l")
	os.Stdout.WriteString("\033[?1000l")
	os.Stdout.WriteString("\033[?1002l")
	os.Stdout.WriteString("\033[?1003l")
	os.Stdout.WriteString("\033[?1006l")
	os.Stdout.Sync()
}
