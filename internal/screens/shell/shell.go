// Package shell hosts the main tabs: chat, quiz, progress, courses, the
// job board and local history.
package shell

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careercoach/internal/screen"
	"github.com/abhisek/careercoach/internal/ui/layout"
	"github.com/abhisek/careercoach/internal/ui/theme"
)

// Activator is implemented by tabs that refresh when shown again.
type Activator interface {
	Activate() tea.Cmd
}

// ShellScreen switches between tabs with tab and shift+tab. Input reaches
// the visible tab only; every other message reaches all tabs so results
// of requests started on a hidden tab still land.
type ShellScreen struct {
	tabs   []screen.Screen
	active int
}

var _ screen.Screen = (*ShellScreen)(nil)

// New creates a ShellScreen showing the first tab.
func New(tabs ...screen.Screen) *ShellScreen {
	return &ShellScreen{tabs: tabs}
}

// Active returns the visible tab index.
func (s *ShellScreen) Active() int {
	return s.active
}

func (s *ShellScreen) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(s.tabs))
	for _, t := range s.tabs {
		cmds = append(cmds, t.Init())
	}
	return tea.Batch(cmds...)
}

func (s *ShellScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if len(s.tabs) == 0 {
		return s, nil
	}

	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "tab":
			return s, s.show(s.active + 1)
		case "shift+tab":
			return s, s.show(s.active - 1)
		}
		return s, s.updateTab(s.active, msg)

	case tea.KeyMsg, tea.MouseMsg, tea.PasteMsg:
		return s, s.updateTab(s.active, msg)
	}

	cmds := make([]tea.Cmd, 0, len(s.tabs))
	for i := range s.tabs {
		cmds = append(cmds, s.updateTab(i, msg))
	}
	return s, tea.Batch(cmds...)
}

func (s *ShellScreen) updateTab(i int, msg tea.Msg) tea.Cmd {
	next, cmd := s.tabs[i].Update(msg)
	s.tabs[i] = next
	return cmd
}

// show makes tab i visible, wrapping around at both ends.
func (s *ShellScreen) show(i int) tea.Cmd {
	n := len(s.tabs)
	i = ((i % n) + n) % n
	if i == s.active {
		return nil
	}
	s.active = i
	if a, ok := s.tabs[i].(Activator); ok {
		return a.Activate()
	}
	return nil
}

func (s *ShellScreen) View(width, height int) string {
	if len(s.tabs) == 0 {
		return ""
	}
	bar := s.renderTabs(width)
	body := s.tabs[s.active].View(width, max(height-lipgloss.Height(bar)-1, 0))
	return bar + "\n\n" + body
}

func (s *ShellScreen) renderTabs(width int) string {
	labels := make([]string, len(s.tabs))
	for i, t := range s.tabs {
		if i == s.active {
			labels[i] = theme.TabActive.Render(t.Title())
		} else {
			labels[i] = theme.TabInactive.Render(t.Title())
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, labels...)
	rule := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(strings.Repeat("─", max(width, 0)))
	return bar + "\n" + rule
}

func (s *ShellScreen) Title() string {
	if len(s.tabs) == 0 {
		return ""
	}
	return s.tabs[s.active].Title()
}

func (s *ShellScreen) KeyHints() []layout.KeyHint {
	var hints []layout.KeyHint
	if len(s.tabs) > 0 {
		if p, ok := s.tabs[s.active].(screen.KeyHintProvider); ok {
			hints = append(hints, p.KeyHints()...)
		}
	}
	return append(hints, layout.KeyHint{Key: "Tab", Description: "Next tab"})
}
