package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// FormatOptions controls how an error is rendered.
type FormatOptions struct {
	// Color enables ANSI colors.
	Color bool
	// Remediation appends the "To fix this" steps below the error line.
	Remediation bool
}

// paint returns a sprint func for attrs. color.NoColor is decided from
// stdout, so the choice is forced per instance here.
func paint(enabled bool, attrs ...color.Attribute) func(a ...interface{}) string {
	c := color.New(attrs...)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.SprintFunc()
}

// FormatError renders err. The first line is always
// "Error [<Category>]: <message>".
func FormatError(err *CLIError, opts FormatOptions) string {
	if err == nil {
		return ""
	}

	var (
		errorLabel  = paint(opts.Color, color.FgRed, color.Bold)
		errorMsg    = paint(opts.Color, color.FgRed)
		categoryFmt = paint(opts.Color, color.FgYellow)
		fixLabel    = paint(opts.Color, color.FgGreen, color.Bold)
		bullet      = paint(opts.Color, color.FgGreen)
	)

	var sb strings.Builder
	sb.WriteString(errorLabel("Error"))
	sb.WriteString(" [")
	sb.WriteString(categoryFmt(err.Category.String()))
	sb.WriteString("]: ")
	sb.WriteString(errorMsg(err.Message))
	sb.WriteString("\n")

	if !opts.Remediation || len(err.Remediation) == 0 {
		return sb.String()
	}

	sb.WriteString("\n")
	sb.WriteString(fixLabel("To fix this:"))
	sb.WriteString("\n")
	for _, step := range err.Remediation {
		sb.WriteString("  ")
		sb.WriteString(bullet("•"))
		sb.WriteString(" ")
		sb.WriteString(step)
		sb.WriteString("\n")
	}

	return sb.String()
}

// FprintError prints a formatted CLIError to the given writer.
func FprintError(w io.Writer, err *CLIError, opts FormatOptions) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err, opts))
}

// ColorEnabled reports whether colored output should be written to w:
// w must be a terminal, NO_COLOR unset and noColor false.
func ColorEnabled(w io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
