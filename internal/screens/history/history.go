// Package history lists the quiz runs recorded in the local journal.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	quizstate "github.com/abhisek/careercoach/internal/quiz"
	"github.com/abhisek/careercoach/internal/router"
	"github.com/abhisek/careercoach/internal/screen"
	"github.com/abhisek/careercoach/internal/screens/summary"
	"github.com/abhisek/careercoach/internal/store"
	"github.com/abhisek/careercoach/internal/ui/layout"
	"github.com/abhisek/careercoach/internal/ui/theme"
)

const pageSize = 50

type historyLoadedMsg struct {
	Runs []store.QuizRunRecord
	Err  error
}

// HistoryScreen displays past quiz runs.
type HistoryScreen struct {
	eventRepo store.EventRepo
	runs      []store.QuizRunRecord
	selected  int
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{eventRepo: eventRepo}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		if s.eventRepo == nil {
			return historyLoadedMsg{}
		}
		runs, err := s.eventRepo.QueryQuizRuns(context.Background(), store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Runs: runs, Err: err}
	}
}

// Activate reloads the journal when the tab is shown again.
func (s *HistoryScreen) Activate() tea.Cmd {
	return s.Init()
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.errMsg = ""
			s.runs = msg.Runs
			s.selected = min(s.selected, max(len(s.runs)-1, 0))
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.runs)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if s.selected < len(s.runs) {
				run := s.runs[s.selected]
				return s, func() tea.Msg {
					return router.PushScreenMsg{Screen: summary.New(run)}
				}
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.runs) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No quizzes yet. Take one from the Quiz tab!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, run := range s.runs {
		dateStr := run.FinishedAt.Local().Format("Jan 02, 2006 15:04")

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		saved := ""
		if !run.Submitted {
			saved = "  (not saved)"
		}

		line := fmt.Sprintf("%s%s  %-16s  %d/%d  %3d%%%s",
			prefix, dateStr, run.Topic, run.Score, run.QuestionCount,
			quizstate.Percent(run.Score, run.QuestionCount), saved)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}
