// Package quiz implements the quiz run state machine: configuring, then
// playing one fetched question at a time, then finished with a batch of
// outcomes ready for submission. The machine performs no I/O. Callers
// fetch questions for the Ticket it hands out and feed the results back.
package quiz

import (
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/abhisek/careercoach/internal/api"
	"github.com/abhisek/careercoach/internal/store"
)

// State is the top-level quiz state.
type State int

const (
	StateConfiguring State = iota
	StatePlaying
	StateFinished
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateFinished:
		return "finished"
	default:
		return "configuring"
	}
}

// Step is the sub-state while playing.
type Step int

const (
	StepAwaiting Step = iota // question loading or waiting for an answer
	StepAnswered             // answer locked, explanation shown
)

// Next tells the owner what to do after Advance.
type Next int

const (
	NextNone   Next = iota // Advance was not valid
	NextFetch              // fetch the question for Ticket()
	NextSubmit             // run finished, post Submission()
)

// SubmitStatus tracks the end-of-run submission.
type SubmitStatus int

const (
	SubmitPending SubmitStatus = iota
	SubmitOK
	SubmitFailed
)

// Ticket tags a question request with the run and position it was made
// for. Responses carrying any other ticket are stale.
type Ticket struct {
	RunID      string
	Index      int
	Topic      string
	Difficulty string
}

// Machine is one learner's quiz flow.
type Machine struct {
	state State
	step  Step
	cfg   Config

	runID       string
	index       int
	question    *api.Question
	selected    int
	fetchFailed bool

	score    int
	outcomes []api.QuizOutcome
	prompts  []string

	startedAt  time.Time
	finishedAt time.Time
	submit     SubmitStatus

	now   func() time.Time
	newID func() string
}

// NewMachine returns a machine in the configuring state.
func NewMachine() *Machine {
	return &Machine{
		cfg:      DefaultConfig(),
		selected: -1,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (m *Machine) State() State   { return m.state }
func (m *Machine) Step() Step     { return m.step }
func (m *Machine) Config() Config { return m.cfg }
func (m *Machine) RunID() string  { return m.runID }
func (m *Machine) Score() int     { return m.score }

// Index is the 0-based position of the current question.
func (m *Machine) Index() int { return m.index }

// Question returns the current question, or nil while one is loading.
func (m *Machine) Question() *api.Question { return m.question }

// Selected returns the chosen option index, or -1 before answering.
func (m *Machine) Selected() int { return m.selected }

// FetchFailed reports whether the last fetch for the current question
// failed. The owner may call Retry or Abandon.
func (m *Machine) FetchFailed() bool { return m.fetchFailed }

// Loading reports whether a question fetch is in flight.
func (m *Machine) Loading() bool {
	return m.state == StatePlaying && m.step == StepAwaiting && m.question == nil && !m.fetchFailed
}

func (m *Machine) SubmitStatus() SubmitStatus { return m.submit }

// Outcomes returns the recorded outcomes in answer order.
func (m *Machine) Outcomes() []api.QuizOutcome {
	return append([]api.QuizOutcome(nil), m.outcomes...)
}

// Ticket returns the tag for the current question request.
func (m *Machine) Ticket() Ticket {
	return Ticket{RunID: m.runID, Index: m.index, Topic: m.cfg.Topic, Difficulty: Difficulty}
}

// Start begins a run with cfg. It is only valid while configuring and
// returns the ticket for the first question.
func (m *Machine) Start(cfg Config) (Ticket, error) {
	if m.state != StateConfiguring {
		return Ticket{}, ErrRunActive
	}
	if err := cfg.Validate(); err != nil {
		return Ticket{}, err
	}
	m.reset()
	m.cfg = cfg
	m.runID = m.newID()
	m.state = StatePlaying
	m.startedAt = m.now()
	return m.Ticket(), nil
}

// ApplyQuestion installs q for ticket t. Stale or unexpected responses are
// discarded and false is returned.
func (m *Machine) ApplyQuestion(t Ticket, q api.Question) bool {
	if !m.expecting(t) {
		return false
	}
	m.question = &q
	m.fetchFailed = false
	return true
}

// ApplyQuestionFailed marks the fetch for t as failed.
func (m *Machine) ApplyQuestionFailed(t Ticket) bool {
	if !m.expecting(t) {
		return false
	}
	m.fetchFailed = true
	return true
}

// Retry re-requests the current question after a failed fetch.
func (m *Machine) Retry() (Ticket, bool) {
	if m.state != StatePlaying || !m.fetchFailed {
		return Ticket{}, false
	}
	m.fetchFailed = false
	return m.Ticket(), true
}

func (m *Machine) expecting(t Ticket) bool {
	return m.state == StatePlaying &&
		m.step == StepAwaiting &&
		m.question == nil &&
		t.RunID == m.runID &&
		t.Index == m.index
}

// Answer locks in option idx for the current question. Only the first
// valid call per question counts; later calls return ok false and change
// nothing.
func (m *Machine) Answer(idx int) (correct, ok bool) {
	if m.state != StatePlaying || m.step != StepAwaiting || m.question == nil {
		return false, false
	}
	if idx < 0 || idx >= len(m.question.Options) {
		return false, false
	}
	if len(m.outcomes) >= m.cfg.Count {
		return false, false
	}

	correct = IsCorrect(idx, m.question.CorrectAnswer)
	if correct {
		m.score++
	}
	m.outcomes = append(m.outcomes, api.QuizOutcome{
		Topic:      m.question.Topic,
		Difficulty: Difficulty,
		Correct:    correct,
	})
	m.prompts = append(m.prompts, m.question.Question)
	m.selected = idx
	m.step = StepAnswered
	return correct, true
}

// IsCorrect compares the 1-based position of idx with the answer token
// as text, so "2", 2 and 2.0 all match the second option.
func IsCorrect(idx int, token api.AnswerToken) bool {
	return strconv.Itoa(idx+1) == string(token)
}

// CorrectIndex returns the 0-based index of q's correct option, or -1 when
// the token names no option.
func CorrectIndex(q api.Question) int {
	return lo.IndexOf(lo.Map(q.Options, func(_ string, i int) bool {
		return IsCorrect(i, q.CorrectAnswer)
	}), true)
}

// Advance moves past an answered question. It either clears the answer
// and asks for the next question, or finishes the run.
func (m *Machine) Advance() Next {
	if m.state != StatePlaying || m.step != StepAnswered {
		return NextNone
	}
	if m.index < m.cfg.Count-1 {
		m.index++
		m.question = nil
		m.selected = -1
		m.step = StepAwaiting
		return NextFetch
	}
	m.state = StateFinished
	m.finishedAt = m.now()
	m.submit = SubmitPending
	return NextSubmit
}

// Submission builds the batch for a finished run.
func (m *Machine) Submission(user string) api.QuizSubmission {
	return api.QuizSubmission{
		UserID:    user,
		Timestamp: m.finishedAt.UTC().Format(time.RFC3339),
		Type:      SubmissionType,
		Score:     m.score,
		Results:   m.Outcomes(),
	}
}

// MarkSubmitted records the submission result. It never changes the
// finished state or the score.
func (m *Machine) MarkSubmitted(ok bool) {
	if m.state != StateFinished {
		return
	}
	m.submit = lo.Ternary(ok, SubmitOK, SubmitFailed)
}

// Record returns the finished run in journal form.
func (m *Machine) Record(user string) store.QuizRunData {
	outcomes := make([]store.QuizOutcomeData, len(m.outcomes))
	for i, o := range m.outcomes {
		outcomes[i] = store.QuizOutcomeData{
			Topic:      o.Topic,
			Difficulty: o.Difficulty,
			Correct:    o.Correct,
			Question:   m.prompts[i],
		}
	}
	return store.QuizRunData{
		RunID:         m.runID,
		UserID:        user,
		Topic:         m.cfg.Topic,
		QuestionCount: m.cfg.Count,
		Score:         m.score,
		Submitted:     m.submit == SubmitOK,
		StartedAt:     m.startedAt,
		FinishedAt:    m.finishedAt,
		Outcomes:      outcomes,
	}
}

// Percent is the score as a rounded percentage of the configured count.
func (m *Machine) Percent() int {
	return Percent(m.score, m.cfg.Count)
}

// Percent returns round(score/count*100), or 0 for a zero count.
func Percent(score, count int) int {
	if count <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(count) * 100))
}

// Restart returns a finished run to configuring. The last config stays
// as the form default.
func (m *Machine) Restart() bool {
	if m.state != StateFinished {
		return false
	}
	m.reset()
	return true
}

// Abandon drops a run in progress without submitting anything.
func (m *Machine) Abandon() bool {
	if m.state != StatePlaying {
		return false
	}
	m.reset()
	return true
}

func (m *Machine) reset() {
	m.state = StateConfiguring
	m.step = StepAwaiting
	m.runID = ""
	m.index = 0
	m.question = nil
	m.selected = -1
	m.fetchFailed = false
	m.score = 0
	m.outcomes = nil
	m.prompts = nil
	m.startedAt = time.Time{}
	m.finishedAt = time.Time{}
	m.submit = SubmitPending
}
