// Package ui renders CLI output with [lipgloss] styles.
//
// [Palette] holds the named styles (title, ok, err, warn, help) and formats movie rows and
// detail blocks. [Plain] renders without color for piped output.
package ui
