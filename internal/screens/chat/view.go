package chat

import (
	"strings"

	"charm.land/lipgloss/v2"

	chatstate "github.com/abhisek/careercoach/internal/chat"
	"github.com/abhisek/careercoach/internal/ui/components"
	"github.com/abhisek/careercoach/internal/ui/layout"
	"github.com/abhisek/careercoach/internal/ui/theme"
)

func sidebarWidth(width int) int {
	if layout.IsCompactWidth(width) {
		return 22
	}
	return 28
}

func (s *ChatScreen) View(width, height int) string {
	sw := sidebarWidth(width)
	sidebar := s.renderSidebar(sw, height)
	mainWidth := max(width-sw-3, 20)
	main := s.renderMain(mainWidth, height)

	divider := lipgloss.NewStyle().
		Foreground(theme.Border).
		Render(strings.TrimSuffix(strings.Repeat("│\n", max(height, 1)), "\n"))

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", divider, " ", main)
}

func (s *ChatScreen) renderSidebar(width, height int) string {
	style := lipgloss.NewStyle().Width(width)
	header := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Chats")

	if !s.sessions.Loaded() {
		return style.Render(header + "\n\n" + theme.Hint.Render("Loading..."))
	}

	list := s.sessions.List()
	items := make([]components.MenuItem, len(list))
	selected := 0
	for i, sess := range list {
		items[i] = components.MenuItem{Label: sess.Title}
		if s.sessions.Deleting(sess.ID) {
			items[i].Detail = "deleting..."
		}
		if sess.ID == s.sessions.ActiveID() {
			selected = i
		}
	}
	menu := components.NewMenu(items)
	menu.Selected = selected

	body := menu.View(width, max(height-3, 1))
	if s.sessions.Creating() {
		body += theme.Hint.Render("  creating...")
	}
	return style.Render(header + "\n\n" + body)
}

func (s *ChatScreen) renderMain(width, height int) string {
	s.input.SetWidth(max(width-4, 10))
	composer := s.input.View()
	if !s.transcript.CanSend() {
		composer = theme.Hint.Render(composerHint(s.transcript))
	}

	var status string
	if s.errMsg != "" {
		status = lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg)
	}

	footer := []string{composer}
	if status != "" {
		footer = append([]string{status}, footer...)
	}
	bodyHeight := max(height-len(footer)-1, 1)

	body := s.renderTranscript(width, bodyHeight)
	return body + "\n\n" + strings.Join(footer, "\n")
}

func composerHint(t *chatstate.Transcript) string {
	switch {
	case t.Composing():
		return "Coach is typing..."
	case t.Phase() == chatstate.PhaseLoading:
		return "Loading history..."
	default:
		return "No chat selected."
	}
}

// renderTranscript draws the messages and keeps the newest lines in view,
// offset by the scroll position.
func (s *ChatScreen) renderTranscript(width, height int) string {
	var lines []string
	switch s.transcript.Phase() {
	case chatstate.PhaseIdle:
		lines = []string{theme.Hint.Render("Start a new chat with Ctrl+N.")}
	case chatstate.PhaseLoading:
		lines = []string{theme.Hint.Render("Loading history...")}
	default:
		msgs := s.transcript.Messages()
		if len(msgs) == 0 {
			lines = append(lines, theme.Hint.Render("Say hello to your career coach."))
		}
		for _, m := range msgs {
			lines = append(lines, strings.Split(s.renderMessage(m, width), "\n")...)
			lines = append(lines, "")
		}
		if s.transcript.Composing() {
			lines = append(lines, theme.Hint.Render("Coach is typing..."))
		}
	}

	end := len(lines) - s.scroll
	if end < height {
		end = min(height, len(lines))
		s.scroll = len(lines) - end
	}
	start := max(end-height, 0)
	visible := lines[start:end]

	return lipgloss.NewStyle().Width(width).Height(height).Render(strings.Join(visible, "\n"))
}

func (s *ChatScreen) renderMessage(m chatstate.Message, width int) string {
	if m.Role == chatstate.RoleUser {
		body := lipgloss.NewStyle().Foreground(theme.Text).Width(width).Render(m.Content)
		return theme.UserLabel.Render("You") + "\n" + body
	}
	label := theme.AssistantLabel.Render("Coach")
	if m.Fallback {
		return label + "\n" + theme.Fallback.Width(width).Render(m.Content)
	}
	return label + "\n" + s.md.Render(m.Content, width)
}
