// Package ui renders conversion reports and the interactive result browser.
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// styles is a palette bound to one renderer, so that output to a pipe or
// file carries no escape sequences.
type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	row      lipgloss.Style
	selected lipgloss.Style
	dim      lipgloss.Style
	accent   lipgloss.Style
	ok       lipgloss.Style
	warn     lipgloss.Style
	err      lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")),
		header: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		row: r.NewStyle().
			Foreground(lipgloss.Color("252")),
		selected: r.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")),
		dim:    r.NewStyle().Foreground(lipgloss.Color("60")),
		accent: r.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true),
		ok:     r.NewStyle().Foreground(lipgloss.Color("#3B82F6")),
		warn:   r.NewStyle().Foreground(lipgloss.Color("#D946EF")),
		err:    r.NewStyle().Foreground(lipgloss.Color("#E84A27")),
	}
}

func (s styles) status(word string) string {
	switch word {
	case "failed":
		return s.err.Render(word)
	case "skipped":
		return s.warn.Render(word)
	default:
		return s.ok.Render(word)
	}
}

// gradientTitle renders text with a blue -> purple -> pink gradient.
func gradientTitle(r *lipgloss.Renderer, text string) string {
	runes := []rune(text)
	out := ""
	for i, c := range runes {
		color := gradientColor(float64(i) / float64(max(len(runes)-1, 1)))
		out += r.NewStyle().Foreground(lipgloss.Color(color)).Bold(true).Render(string(c))
	}
	return out
}

// gradientColor interpolates between three stops at x in [0, 1].
func gradientColor(x float64) string {
	stops := [3][3]float64{
		{59, 130, 246}, // blue
		{139, 92, 246}, // purple
		{236, 72, 153}, // pink
	}

	from, to, t := stops[0], stops[1], x*2
	if x >= 0.5 {
		from, to, t = stops[1], stops[2], (x-0.5)*2
	}

	var c [3]int
	for i := range c {
		v := from[i] + t*(to[i]-from[i])
		c[i] = min(max(int(v), 0), 255)
	}
	return fmt.Sprintf("#%02X%02X%02X", c[0], c[1], c[2])
}
