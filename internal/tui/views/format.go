package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// avatar renders a glyph for a table cell, falling back to a bullet.
func avatar(glyph string) string {
	g := sanitizeForTerminal(glyph)
	if g == "" {
		return "•"
	}
	return g
}

// firstLine returns the first line of s, marking truncation.
func firstLine(s string) string {
	if head, _, found := strings.Cut(s, "\n"); found {
		return head + " …"
	}
	return s
}

func colorTag(c tcell.Color) string {
	return fmt.Sprintf("#%06x", c.Hex())
}

// checkbox renders a toggle, escaped for tview.
func checkbox(on bool) string {
	if on {
		return tview.Escape("[x]")
	}
	return tview.Escape("[ ]")
}
