// Package ui holds the color themes shared by the CLI reporter and the TUI
// dashboard, plus terminal detection. Colors are plain ANSI sequences for the
// CLI and lipgloss colors for the TUI.
package ui
