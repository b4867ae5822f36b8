package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdownRenderer converts bot replies from Markdown to styled terminal
// output. Recreated only when the width changes.
type markdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// newMarkdownRenderer creates a renderer for the given width.
// Returns nil renderer on failure; callers fall back to plain text.
func newMarkdownRenderer(width int) *markdownRenderer {
	if width <= 0 {
		width = 80
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}

	return &markdownRenderer{renderer: r, width: width}
}

// UpdateWidth recreates the renderer if the width actually changed.
func (m *markdownRenderer) UpdateWidth(width int) {
	if m == nil || width <= 0 || m.width == width {
		return
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		// Keep the existing renderer on error.
		return
	}

	m.renderer = r
	m.width = width
}

// Render converts Markdown to styled output, or returns the input unchanged
// when rendering is unavailable.
func (m *markdownRenderer) Render(markdown string) string {
	if m == nil || m.renderer == nil {
		return markdown
	}

	rendered, err := m.renderer.Render(markdown)
	if err != nil {
		return markdown
	}

	return strings.TrimSuffix(rendered, "\n")
}
