// Package goldmark renders model output (markdown with CJK text) to
// ANSI-styled terminal output using goldmark for parsing and lipgloss for
// styling.
package goldmark

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/kaoyan"
)

const defaultWidth = 80

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs and list items are wrapped to width. Code blocks are rendered
// without reflow.
func Render(source string, width int, theme kaoyan.Theme) string {
	return New(theme).Render(source, width)
}

// RenderSection renders a titled block, such as one briefing section. An
// empty body renders placeholder in the muted color instead.
func RenderSection(title, body, placeholder string, width int, theme kaoyan.Theme) string {
	r := New(theme)
	head := lipgloss.NewStyle().Foreground(ansiColor(theme.Section)).Bold(true).Render(title)
	if strings.TrimSpace(body) == "" {
		return head + "\n" + r.muted.Render(placeholder)
	}
	return head + "\n" + r.Render(body, width)
}
