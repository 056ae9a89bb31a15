package quiz

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/samber/lo"

	quizstate "github.com/abhisek/careercoach/internal/quiz"
	"github.com/abhisek/careercoach/internal/ui/components"
	"github.com/abhisek/careercoach/internal/ui/theme"
)

const (
	cardWidth   = 72
	passPercent = 60
)

func (s *QuizScreen) View(width, height int) string {
	cw := min(cardWidth, max(width-4, 20))

	var body string
	switch s.machine.State() {
	case quizstate.StatePlaying:
		body = s.renderPlaying(cw)
	case quizstate.StateFinished:
		body = s.renderFinished(cw)
	default:
		body = s.renderConfig(cw)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, "\n"+body)
}

func (s *QuizScreen) renderConfig(cw int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("Test your knowledge"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Topic"))
	b.WriteString("\n")
	b.WriteString(s.topics.View(cw, 0))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Questions"))
	b.WriteString("  ")
	b.WriteString(s.count.View())
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("between %d and %d", quizstate.MinCount, quizstate.MaxCount)))
	if s.formErr != nil {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(errText(s.formErr)))
	}
	return b.String()
}

func (s *QuizScreen) renderPlaying(cw int) string {
	m := s.machine
	cfg := m.Config()

	var b strings.Builder
	left := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("Question %d of %d", m.Index()+1, cfg.Count))
	right := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("Score %d", m.Score()))
	gap := max(cw-lipgloss.Width(left)-lipgloss.Width(right), 1)
	b.WriteString(left + strings.Repeat(" ", gap) + right)
	b.WriteString("\n")

	bar := components.NewProgressBar("", float64(m.Index())/float64(cfg.Count), false, cw)
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	switch {
	case m.FetchFailed():
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("Couldn't load the next question."))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Press r to retry or Esc to abandon the quiz."))
		return b.String()
	case m.Question() == nil:
		b.WriteString(theme.Hint.Render("Fetching question..."))
		return b.String()
	}

	q := m.Question()
	if q.Topic != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render(q.Topic))
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(cw).Render(q.Question))
	b.WriteString("\n\n")
	b.WriteString(s.options.View(cw))

	if m.Step() == quizstate.StepAnswered {
		b.WriteString("\n")
		if quizstate.IsCorrect(m.Selected(), q.CorrectAnswer) {
			b.WriteString(theme.Correct.Render("Correct!"))
		} else {
			b.WriteString(theme.Incorrect.Render("Not quite."))
		}
		if q.Explanation != "" {
			b.WriteString("\n")
			b.WriteString(s.md.Render(q.Explanation, cw))
		}
		b.WriteString("\n\n")
		next := lo.Ternary(m.Index() < cfg.Count-1, "Next question", "See results")
		b.WriteString(components.NewButton(next, "", true).View())
	}
	return b.String()
}

func (s *QuizScreen) renderFinished(cw int) string {
	m := s.machine
	cfg := m.Config()

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("Quiz complete!"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Foreground(theme.Text).Bold(true).
		Render(fmt.Sprintf("You scored %d out of %d (%d%%)", m.Score(), cfg.Count, m.Percent())))
	b.WriteString("\n\n")

	bar := components.NewProgressBar("", float64(m.Percent())/100, true, cw)
	bar.Fill = lo.Ternary[color.Color](m.Percent() >= passPercent, theme.Success, theme.Accent)
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	var status string
	switch m.SubmitStatus() {
	case quizstate.SubmitPending:
		status = theme.Hint.Render("Saving your results...")
	case quizstate.SubmitOK:
		status = lipgloss.NewStyle().Foreground(theme.Success).Render("Results saved to your progress.")
	case quizstate.SubmitFailed:
		status = lipgloss.NewStyle().Foreground(theme.Error).Render("Couldn't save your results. Your score above still counts here.")
	}
	b.WriteString(lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(status))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(cw, lipgloss.Center,
		components.NewButton("Take another quiz", "r", true).View()))
	return b.String()
}
