package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string // Main warning title
	Message    string // Detailed explanation (optional)
	Suggestion string // Action to take (optional)
}

// Display shows a formatted warning, in yellow when out is a terminal.
func (w Warning) Display(out io.Writer) {
	w.render(out, IsTerminal(out))
}

func (w Warning) render(out io.Writer, colored bool) {
	var b strings.Builder

	b.WriteString("Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion: ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	if !colored {
		fmt.Fprint(out, b.String())
		return
	}

	yellow := color.New(color.FgYellow)
	yellow.EnableColor()
	yellow.Fprint(out, b.String())
}

// PatternWarning describes a pattern that could not be compiled.
func PatternWarning(err error) Warning {
	return Warning{
		Title:      "Invalid pattern",
		Message:    err.Error(),
		Suggestion: "Use -p to search for the pattern literally",
	}
}

// PluginWarning describes a predicate that failed during the scan.
func PluginWarning(err error) Warning {
	return Warning{
		Title:      "Plugin error",
		Message:    err.Error(),
		Suggestion: "Run 'ff plugins <name>' to see the expected argument",
	}
}
