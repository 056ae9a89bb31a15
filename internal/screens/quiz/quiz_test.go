package quiz

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/careercoach/internal/api"
	quizstate "github.com/abhisek/careercoach/internal/quiz"
	"github.com/abhisek/careercoach/internal/store"
)

type fakeAPI struct {
	fetches   []string
	failFetch int // number of upcoming fetches that fail
	failSub   bool
	submitted []api.QuizSubmission
}

func (f *fakeAPI) FetchQuestion(_ context.Context, topic, difficulty string) (api.Question, error) {
	f.fetches = append(f.fetches, topic+"/"+difficulty)
	if f.failFetch > 0 {
		f.failFetch--
		return api.Question{}, errors.New("500 generating question")
	}
	return api.Question{
		Question:      "Which is robust to outliers?",
		Options:       []string{"Mean", "Median", "Range"},
		CorrectAnswer: "2",
		Explanation:   "The **median** ignores extremes.",
		Topic:         "statistics",
	}, nil
}

func (f *fakeAPI) SubmitQuiz(_ context.Context, sub api.QuizSubmission) error {
	if f.failSub {
		return errors.New("connection refused")
	}
	f.submitted = append(f.submitted, sub)
	return nil
}

type fakeJournal struct {
	runs []store.QuizRunData
}

func (j *fakeJournal) AppendRequest(context.Context, store.RequestEventData) error { return nil }
func (j *fakeJournal) AppendQuizRun(_ context.Context, d store.QuizRunData) error {
	j.runs = append(j.runs, d)
	return nil
}
func (j *fakeJournal) QueryRequests(context.Context, store.QueryOpts) ([]store.RequestEventRecord, error) {
	return nil, nil
}
func (j *fakeJournal) QueryQuizRuns(context.Context, store.QueryOpts) ([]store.QuizRunRecord, error) {
	return nil, nil
}

func keyRune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func keyCode(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// send delivers msg and runs any resulting command chain to completion.
func send(t *testing.T, s *QuizScreen, msg tea.Msg) {
	t.Helper()
	for steps := 0; msg != nil; steps++ {
		require.Less(t, steps, 20)
		_, cmd := s.Update(msg)
		if cmd == nil {
			return
		}
		msg = cmd()
	}
}

func startQuiz(t *testing.T, f *fakeAPI, j store.EventRepo, count string) *QuizScreen {
	t.Helper()
	s := New(f, j, "u", nil)
	s.count.SetValue(count)
	send(t, s, keyCode(tea.KeyEnter))
	return s
}

func TestStart_FetchesFirstQuestion(t *testing.T) {
	f := &fakeAPI{}
	s := startQuiz(t, f, &fakeJournal{}, "3")

	assert.Equal(t, quizstate.StatePlaying, s.machine.State())
	require.NotNil(t, s.machine.Question())
	assert.Equal(t, []string{quizstate.RandomTopic + "/easy"}, f.fetches, "the form defaults to a random mix")
	assert.Contains(t, s.View(100, 30), "Question 1 of 3")
}

func TestStart_RejectsBadCount(t *testing.T) {
	for _, count := range []string{"0", "51", ""} {
		f := &fakeAPI{}
		s := startQuiz(t, f, &fakeJournal{}, count)
		assert.Equal(t, quizstate.StateConfiguring, s.machine.State(), "count %q", count)
		assert.Empty(t, f.fetches)
		assert.Contains(t, s.View(100, 30), "Pick between 1 and 50 questions.")
	}
}

func TestTopicMenuPicksTopic(t *testing.T) {
	f := &fakeAPI{}
	s := New(f, nil, "u", nil)
	s.Update(keyCode(tea.KeyUp))
	s.count.SetValue("1")
	send(t, s, keyCode(tea.KeyEnter))

	assert.Equal(t, []string{quizstate.Topics[len(quizstate.Topics)-2] + "/easy"}, f.fetches)
}

// Three questions answered correctly by number key: score 3, one batch
// submitted with three outcomes, and the run journaled as submitted.
func TestFullRun_AllCorrect(t *testing.T) {
	f := &fakeAPI{}
	j := &fakeJournal{}
	s := startQuiz(t, f, j, "3")

	for i := 0; i < 3; i++ {
		send(t, s, keyRune('2'))
		assert.Equal(t, quizstate.StepAnswered, s.machine.Step())
		assert.Contains(t, s.View(100, 40), "Correct!")
		send(t, s, keyCode(tea.KeyEnter))
	}

	assert.Equal(t, quizstate.StateFinished, s.machine.State())
	assert.Equal(t, 3, s.machine.Score())
	require.Len(t, f.submitted, 1)
	assert.Equal(t, 3, f.submitted[0].Score)
	assert.Len(t, f.submitted[0].Results, 3)
	assert.Equal(t, quizstate.SubmitOK, s.machine.SubmitStatus())

	require.Len(t, j.runs, 1)
	assert.True(t, j.runs[0].Submitted)
	assert.Equal(t, "Which is robust to outliers?", j.runs[0].Outcomes[0].Question)

	view := s.View(100, 30)
	assert.Contains(t, view, "You scored 3 out of 3 (100%)")
	assert.Contains(t, view, "Results saved")
}

func TestAnswer_OnlyFirstCounts(t *testing.T) {
	s := startQuiz(t, &fakeAPI{}, nil, "2")

	send(t, s, keyRune('1'))
	send(t, s, keyRune('2'))

	assert.Equal(t, 0, s.machine.Score())
	assert.Equal(t, 0, s.options.Chosen)
	assert.Equal(t, 1, s.options.Correct)
	assert.Contains(t, s.View(100, 40), "Not quite.")
}

func TestAnswer_ArrowsAndEnter(t *testing.T) {
	s := startQuiz(t, &fakeAPI{}, nil, "1")

	send(t, s, keyCode(tea.KeyDown))
	send(t, s, keyCode(tea.KeyEnter))

	assert.Equal(t, 1, s.machine.Score())
}

func TestAnswer_OutOfRangeIgnored(t *testing.T) {
	s := startQuiz(t, &fakeAPI{}, nil, "1")
	send(t, s, keyRune('9'))
	assert.Equal(t, quizstate.StepAwaiting, s.machine.Step())
}

func TestFetchFailure_RetryThenAbandon(t *testing.T) {
	f := &fakeAPI{failFetch: 2}
	s := startQuiz(t, f, nil, "2")

	assert.True(t, s.machine.FetchFailed())
	assert.Contains(t, s.View(100, 30), "Couldn't load the next question.")

	send(t, s, keyRune('r'))
	assert.True(t, s.machine.FetchFailed(), "second fetch also fails")
	assert.Len(t, f.fetches, 2)

	send(t, s, keyCode(tea.KeyEscape))
	assert.Equal(t, quizstate.StateConfiguring, s.machine.State())
	assert.Empty(t, f.submitted)
}

func TestStaleQuestionDiscarded(t *testing.T) {
	s := startQuiz(t, &fakeAPI{}, nil, "2")
	stale := s.machine.Ticket()

	send(t, s, keyRune('2'))
	_, cmd := s.Update(keyCode(tea.KeyEnter))
	require.NotNil(t, cmd)

	// An answer to an old request must not fill the new slot.
	s.Update(questionMsg{Ticket: stale, Question: api.Question{Question: "old", Options: []string{"x"}}})
	assert.Nil(t, s.machine.Question())

	s.Update(cmd())
	require.NotNil(t, s.machine.Question())
	assert.Equal(t, "Which is robust to outliers?", s.machine.Question().Question)
}

func TestSubmitFailure_KeepsScore(t *testing.T) {
	f := &fakeAPI{failSub: true}
	j := &fakeJournal{}
	s := startQuiz(t, f, j, "1")

	send(t, s, keyRune('2'))
	send(t, s, keyCode(tea.KeyEnter))

	assert.Equal(t, quizstate.StateFinished, s.machine.State())
	assert.Equal(t, 1, s.machine.Score())
	assert.Equal(t, quizstate.SubmitFailed, s.machine.SubmitStatus())
	require.Len(t, j.runs, 1)
	assert.False(t, j.runs[0].Submitted)
	assert.Contains(t, s.View(100, 30), "Couldn't save your results.")
}

func TestRestartKeepsLastConfig(t *testing.T) {
	s := startQuiz(t, &fakeAPI{}, nil, "1")
	send(t, s, keyRune('1'))
	send(t, s, keyCode(tea.KeyEnter))
	require.Equal(t, quizstate.StateFinished, s.machine.State())

	send(t, s, keyCode(tea.KeyEnter))
	assert.Equal(t, quizstate.StateConfiguring, s.machine.State())
	assert.Equal(t, "1", s.count.Value())
	assert.Equal(t, 0, s.machine.Score())
}

func TestWithDefaultCount(t *testing.T) {
	s := New(&fakeAPI{}, nil, "u", nil).WithDefaultCount(8)
	assert.Equal(t, "8", s.count.Value())

	s = New(&fakeAPI{}, nil, "u", nil).WithDefaultCount(500)
	assert.Equal(t, "50", s.count.Value())
}
