package render

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	fencedBlock = regexp.MustCompile("(?s)```.*?```")
	blankRuns   = regexp.MustCompile(`\n{3,}`)
	softBreak   = regexp.MustCompile(`([^\n])\n([^\n])`)
)

// Tidy cleans up generated text before rendering: it drops trailing
// whitespace, collapses runs of blank lines and joins hard-wrapped prose
// lines. Fenced code blocks are left untouched.
func Tidy(text string) string {
	text = strings.TrimSpace(text)
	blocks := fencedBlock.FindAllString(text, -1)
	for i, b := range blocks {
		text = strings.Replace(text, b, fmt.Sprintf("\x00%d\x00", i), 1)
	}

	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	text = strings.Join(lines, "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	text = softBreak.ReplaceAllString(text, "$1 $2")

	for i, b := range blocks {
		text = strings.Replace(text, fmt.Sprintf("\x00%d\x00", i), b, 1)
	}
	return text
}
