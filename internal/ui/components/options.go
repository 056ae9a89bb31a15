package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/careercoach/internal/ui/theme"
)

// NoChoice marks Options.Chosen and Options.Correct as unset.
const NoChoice = -1

// Options renders the numbered answers of a multiple-choice question.
// Numbers are 1-based. Once Chosen is set the chosen and correct options
// are marked; before that the cursor is highlighted.
type Options struct {
	Items   []string
	Cursor  int
	Chosen  int
	Correct int
}

// NewOptions returns an unanswered option list.
func NewOptions(items []string) Options {
	return Options{Items: items, Chosen: NoChoice, Correct: NoChoice}
}

// Answered reports whether an option has been chosen.
func (o Options) Answered() bool {
	return o.Chosen != NoChoice
}

// Move shifts the cursor by delta, clamped to the list.
func (o *Options) Move(delta int) {
	o.Cursor += delta
	if o.Cursor < 0 {
		o.Cursor = 0
	}
	if o.Cursor > len(o.Items)-1 {
		o.Cursor = max(len(o.Items)-1, 0)
	}
}

// View renders the options, wrapping long ones to width.
func (o Options) View(width int) string {
	var b strings.Builder
	for i, opt := range o.Items {
		prefix := "  "
		if !o.Answered() && i == o.Cursor {
			prefix = "▸ "
		}
		marker := ""
		style := lipgloss.NewStyle().Foreground(theme.Text)

		switch {
		case o.Answered() && i == o.Correct:
			style = theme.Correct
			marker = "  ✓"
		case o.Answered() && i == o.Chosen:
			style = theme.Incorrect
			marker = "  ✗"
		case o.Answered():
			style = style.Foreground(theme.TextDim)
		case i == o.Cursor:
			style = theme.Selected
		}

		if width > 0 {
			style = style.Width(width)
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%d) %s%s", prefix, i+1, opt, marker)))
		b.WriteString("\n")
	}
	return b.String()
}
