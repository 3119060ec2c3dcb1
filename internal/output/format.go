// Package output provides terminal output formatting for the spec-dock CLI.
// This package is designed to have minimal dependencies to avoid import cycles.
package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Marks printed in front of each result line.
const (
	MarkChanged   = "+"
	MarkUnchanged = "="
)

// PrintSuccess prints the final confirmation line, e.g.
// "spec-dock: ok (init) -> /path/to/project". Uses a green "ok".
func PrintSuccess(out io.Writer, command, target string, useColor bool) {
	green := newColor(useColor, color.FgGreen, color.Bold).SprintFunc()
	fmt.Fprintf(out, "spec-dock: %s (%s) -> %s\n", green("ok"), command, target)
}

// PrintSkipped prints the notice for a single-file install that was skipped
// because the destination already exists.
func PrintSkipped(out io.Writer, name, path string) {
	fmt.Fprintf(out, "spec-dock: %s already exists (skipped): %s (use --force to overwrite)\n", name, path)
}

// PrintResult prints one verbose result line, e.g. "  + docs (replaced)".
// Paths that were written get a green "+", paths left alone a yellow "=".
func PrintResult(out io.Writer, name, action string, changed, useColor bool) {
	fmt.Fprintf(out, "  %s %s (%s)\n", Mark(changed, useColor), name, action)
}

// Mark returns MarkChanged or MarkUnchanged, colored when useColor is set.
func Mark(changed, useColor bool) string {
	if changed {
		return newColor(useColor, color.FgGreen).Sprint(MarkChanged)
	}
	return newColor(useColor, color.FgYellow).Sprint(MarkUnchanged)
}

// newColor returns a color with output forced on or off. color.NoColor is
// decided once from stdout, which is not always the stream being written.
func newColor(enabled bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}
