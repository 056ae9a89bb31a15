package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders markdown to styled terminal text, caching one renderer
// per wrap width.
type Markdown struct {
	width    int
	renderer *glamour.TermRenderer
}

// Render renders md wrapped to width. If glamour fails the source is
// returned unchanged.
func (m *Markdown) Render(md string, width int) string {
	if width < 20 {
		width = 20
	}
	if m.renderer == nil || m.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStylePath("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		m.renderer, m.width = r, width
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}
