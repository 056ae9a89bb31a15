// Package quiz is the quiz screen: pick a topic and a question count, play
// the run one question at a time, then see the score.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/careercoach/internal/api"
	quizstate "github.com/abhisek/careercoach/internal/quiz"
	"github.com/abhisek/careercoach/internal/screen"
	"github.com/abhisek/careercoach/internal/store"
	"github.com/abhisek/careercoach/internal/ui/components"
	"github.com/abhisek/careercoach/internal/ui/layout"
)

// QuizAPI is the part of the backend client the quiz screen uses.
type QuizAPI interface {
	FetchQuestion(ctx context.Context, topic, difficulty string) (api.Question, error)
	SubmitQuiz(ctx context.Context, sub api.QuizSubmission) error
}

// QuizScreen implements screen.Screen for quiz runs.
type QuizScreen struct {
	api     QuizAPI
	journal store.EventRepo
	user    string
	logger  *zap.Logger

	machine *quizstate.Machine
	topics  components.Menu
	count   components.TextInput
	options components.Options
	md      components.Markdown
	formErr error
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates a QuizScreen. journal and logger may be nil.
func New(a QuizAPI, journal store.EventRepo, user string, logger *zap.Logger) *QuizScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &QuizScreen{
		api:     a,
		journal: journal,
		user:    user,
		logger:  logger,
		machine: quizstate.NewMachine(),
	}
	s.resetForm()
	return s
}

func topicLabel(t string) string {
	if t == quizstate.RandomTopic {
		return "Random mix"
	}
	return t
}

// resetForm rebuilds the configuring form from the machine's last config.
func (s *QuizScreen) resetForm() {
	cfg := s.machine.Config()
	items := make([]components.MenuItem, len(quizstate.Topics))
	selected := 0
	for i, t := range quizstate.Topics {
		items[i] = components.MenuItem{Label: topicLabel(t)}
		if t == cfg.Topic {
			selected = i
		}
	}
	s.topics = components.NewMenu(items)
	s.topics.Selected = selected

	s.count = components.NewTextInput(strconv.Itoa(quizstate.DefaultCount), true, 2)
	s.count.SetValue(strconv.Itoa(cfg.Count))
	s.formErr = nil
}

// WithDefaultCount pre-fills the question count of the first run. Later
// runs start from the previous run's settings.
func (s *QuizScreen) WithDefaultCount(n int) *QuizScreen {
	s.count.SetValue(strconv.Itoa(quizstate.ClampCount(n)))
	return s
}

func (s *QuizScreen) Init() tea.Cmd {
	return nil
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch s.machine.State() {
	case quizstate.StatePlaying:
		if s.machine.FetchFailed() {
			return []layout.KeyHint{
				{Key: "R", Description: "Retry"},
				{Key: "Esc", Description: "Abandon"},
			}
		}
		if s.machine.Step() == quizstate.StepAnswered {
			return []layout.KeyHint{
				{Key: "Enter", Description: "Next"},
				{Key: "Esc", Description: "Abandon"},
			}
		}
		return []layout.KeyHint{
			{Key: "1-9", Description: "Answer"},
			{Key: "↑↓ Enter", Description: "Choose"},
			{Key: "Esc", Description: "Abandon"},
		}
	case quizstate.StateFinished:
		return []layout.KeyHint{
			{Key: "Enter", Description: "New quiz"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Topic"},
		{Key: "0-9", Description: "Questions"},
		{Key: "Enter", Description: "Start"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionMsg:
		return s.handleQuestion(msg)

	case submittedMsg:
		return s.handleSubmitted(msg)

	case tea.KeyPressMsg:
		switch s.machine.State() {
		case quizstate.StateConfiguring:
			return s.handleConfigKey(msg)
		case quizstate.StatePlaying:
			return s.handlePlayKey(msg)
		case quizstate.StateFinished:
			return s.handleFinishedKey(msg)
		}
	}
	return s, nil
}

func (s *QuizScreen) handleQuestion(msg questionMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		if s.machine.ApplyQuestionFailed(msg.Ticket) {
			s.logger.Warn("fetch question failed",
				zap.String("run", msg.Ticket.RunID),
				zap.Int("index", msg.Ticket.Index),
				zap.Error(msg.Err))
		}
		return s, nil
	}
	if s.machine.ApplyQuestion(msg.Ticket, msg.Question) {
		s.options = components.NewOptions(msg.Question.Options)
	}
	return s, nil
}

func (s *QuizScreen) handleSubmitted(msg submittedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.logger.Warn("submit quiz failed", zap.String("run", msg.RunID), zap.Error(msg.Err))
	}
	if msg.JournalErr != nil {
		s.logger.Warn("journal quiz run failed", zap.String("run", msg.RunID), zap.Error(msg.JournalErr))
	}
	if msg.RunID == s.machine.RunID() {
		s.machine.MarkSubmitted(msg.Err == nil)
	}
	return s, nil
}

func (s *QuizScreen) handleConfigKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return s, s.start()
	case "up", "down", "k", "j":
		s.topics, _ = s.topics.Update(msg)
		return s, nil
	}
	var cmd tea.Cmd
	s.count, cmd = s.count.Update(msg)
	return s, cmd
}

// start validates the form and begins a run.
func (s *QuizScreen) start() tea.Cmd {
	n, err := s.count.NumericValue()
	if err != nil {
		s.formErr = quizstate.ErrInvalidCount
		return nil
	}
	cfg := quizstate.Config{Count: n, Topic: quizstate.Topics[s.topics.Selected]}
	ticket, err := s.machine.Start(cfg)
	if err != nil {
		s.formErr = err
		return nil
	}
	s.formErr = nil
	return s.fetch(ticket)
}

func (s *QuizScreen) handlePlayKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	k := msg.String()
	if k == "esc" {
		s.machine.Abandon()
		s.resetForm()
		return s, nil
	}

	if s.machine.FetchFailed() {
		if k == "r" {
			if t, ok := s.machine.Retry(); ok {
				return s, s.fetch(t)
			}
		}
		return s, nil
	}

	if s.machine.Question() == nil {
		return s, nil
	}

	if s.machine.Step() == quizstate.StepAnswered {
		if k == "enter" || k == "n" || k == "space" {
			return s, s.advance()
		}
		return s, nil
	}

	switch k {
	case "up", "k":
		s.options.Move(-1)
	case "down", "j":
		s.options.Move(1)
	case "enter":
		s.answer(s.options.Cursor)
	default:
		if n, err := strconv.Atoi(k); err == nil && n >= 1 {
			s.answer(n - 1)
		}
	}
	return s, nil
}

func (s *QuizScreen) answer(idx int) {
	if _, ok := s.machine.Answer(idx); !ok {
		return
	}
	s.options.Chosen = idx
	if q := s.machine.Question(); q != nil {
		s.options.Correct = quizstate.CorrectIndex(*q)
	}
}

func (s *QuizScreen) advance() tea.Cmd {
	switch s.machine.Advance() {
	case quizstate.NextFetch:
		return s.fetch(s.machine.Ticket())
	case quizstate.NextSubmit:
		return s.submit()
	}
	return nil
}

func (s *QuizScreen) handleFinishedKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter", "r":
		if s.machine.Restart() {
			s.resetForm()
		}
	}
	return s, nil
}

func (s *QuizScreen) fetch(t quizstate.Ticket) tea.Cmd {
	return func() tea.Msg {
		q, err := s.api.FetchQuestion(context.Background(), t.Topic, t.Difficulty)
		return questionMsg{Ticket: t, Question: q, Err: err}
	}
}

// submit posts the finished run and records it in the local journal. The
// result only changes the status line; the score is final either way.
func (s *QuizScreen) submit() tea.Cmd {
	sub := s.machine.Submission(s.user)
	record := s.machine.Record(s.user)
	return func() tea.Msg {
		ctx := context.Background()
		err := s.api.SubmitQuiz(ctx, sub)
		record.Submitted = err == nil

		var journalErr error
		if s.journal != nil {
			journalErr = s.journal.AppendQuizRun(ctx, record)
		}
		return submittedMsg{RunID: record.RunID, Err: err, JournalErr: journalErr}
	}
}

// errText renders a form error for display.
func errText(err error) string {
	if errors.Is(err, quizstate.ErrInvalidCount) {
		return fmt.Sprintf("Pick between %d and %d questions.", quizstate.MinCount, quizstate.MaxCount)
	}
	return err.Error()
}
