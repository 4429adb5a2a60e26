// Package render formats relay answers for the terminal.
package render

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// Answer renders a model answer as markdown when stdout is a terminal and
// returns the tidied plain text otherwise. Error replies are never styled
// so their text stays exactly what the relay produced.
func Answer(text string) string {
	if strings.HasPrefix(text, "Error: ") {
		return text + "\n"
	}
	text = Tidy(text)
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return text + "\n"
	}
	return Markdown(text, 0)
}

// Markdown renders text with glamour. width 0 disables wrapping.
func Markdown(text string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text + "\n"
	}
	out, err := r.Render(text)
	if err != nil {
		return text + "\n"
	}
	return out
}
