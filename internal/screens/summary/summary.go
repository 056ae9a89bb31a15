// Package summary shows one journaled quiz run question by question.
package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	quizstate "github.com/abhisek/careercoach/internal/quiz"
	"github.com/abhisek/careercoach/internal/router"
	"github.com/abhisek/careercoach/internal/screen"
	"github.com/abhisek/careercoach/internal/store"
	"github.com/abhisek/careercoach/internal/ui/layout"
	"github.com/abhisek/careercoach/internal/ui/theme"
)

// SummaryScreen displays a finished quiz run.
type SummaryScreen struct {
	run store.QuizRunRecord
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(run store.QuizRunRecord) *SummaryScreen {
	return &SummaryScreen{run: run}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Quiz Run"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Done"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	run := s.run
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString(center.Foreground(theme.Primary).Bold(true).
		Render(heading(run.Topic)))
	b.WriteString("\n\n")

	b.WriteString(center.Foreground(theme.TextDim).
		Render(run.FinishedAt.Local().Format("Jan 02, 2006 15:04")))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Questions: %d        Correct: %d        Score: %d%%",
		run.QuestionCount, run.Score, quizstate.Percent(run.Score, run.QuestionCount))
	b.WriteString(center.Foreground(theme.Text).Render(statsLine))
	b.WriteString("\n")

	saved := lipgloss.NewStyle().Foreground(theme.Success).Render("saved to your progress")
	if !run.Submitted {
		saved = lipgloss.NewStyle().Foreground(theme.Error).Render("not saved to the server")
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, saved))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", max(min(width-8, 60), 0)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Questions")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	lineWidth := max(min(width-8, 60), 20)
	for i, o := range run.Outcomes {
		mark, style := "✓", theme.Correct
		if !o.Correct {
			mark, style = "✗", theme.Incorrect
		}
		prompt := o.Question
		if prompt == "" {
			prompt = "(question text not recorded)"
		}
		line := fmt.Sprintf("%s %2d. %s", style.Render(mark), i+1,
			lipgloss.NewStyle().Foreground(theme.Text).Render(prompt))
		meta := theme.Hint.Render(fmt.Sprintf("      %s · %s", o.Topic, o.Difficulty))
		block := lipgloss.NewStyle().Width(lineWidth).Render(line + "\n" + meta)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, block))
		b.WriteString("\n")
	}

	return b.String()
}

func heading(topic string) string {
	switch topic {
	case "":
		return "Quiz"
	case quizstate.RandomTopic:
		return "Random mix quiz"
	}
	return strings.ToUpper(topic[:1]) + topic[1:] + " quiz"
}
