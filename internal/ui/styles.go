// Package ui provides terminal output helpers for the CLI.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color palette
// - Default: primary text
// - Accent (soft violet): paths, URLs, highlights
// - Muted (gray): secondary info

var (
	// Accent style for paths, URLs, highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C6CF0"))

	// Muted style for secondary info and hints
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)
)

// IsTerminal reports whether stdout is a terminal; non-terminal output is
// kept plain for scripts and pipes.
func IsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// Styled applies a style only when writing to a terminal.
func Styled(style lipgloss.Style, s string) string {
	if !IsTerminal() {
		return s
	}
	return style.Render(s)
}
