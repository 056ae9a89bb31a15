package quiz

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/abhisek/careercoach/internal/api"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func testMachine() *Machine {
	m := NewMachine()
	m.now = func() time.Time { return testNow }
	n := 0
	m.newID = func() string {
		n++
		return fmt.Sprintf("run-%d", n)
	}
	return m
}

func testQuestion(topic string, answer api.AnswerToken) api.Question {
	return api.Question{
		Question:      "Which metric suits imbalanced classes?",
		Options:       []string{"Accuracy", "F1 score", "MSE", "R squared"},
		CorrectAnswer: answer,
		Explanation:   "F1 balances precision and recall.",
		Topic:         topic,
	}
}

func mustStart(t *testing.T, m *Machine, count int, topic string) Ticket {
	t.Helper()
	tk, err := m.Start(Config{Count: count, Topic: topic})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return tk
}

func TestStart_Transitions(t *testing.T) {
	m := testMachine()
	tk := mustStart(t, m, 3, "statistics")

	if m.State() != StatePlaying || m.Step() != StepAwaiting {
		t.Errorf("state = %v step = %v", m.State(), m.Step())
	}
	if !m.Loading() {
		t.Error("expected Loading after Start")
	}
	if tk.Topic != "statistics" || tk.Difficulty != Difficulty || tk.Index != 0 {
		t.Errorf("ticket = %+v", tk)
	}
	if _, err := m.Start(DefaultConfig()); !errors.Is(err, ErrRunActive) {
		t.Errorf("second Start err = %v, want ErrRunActive", err)
	}
}

func TestStart_RejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"zero count", Config{Count: 0, Topic: "statistics"}, ErrInvalidCount},
		{"over cap", Config{Count: MaxCount + 1, Topic: "statistics"}, ErrInvalidCount},
		{"unknown topic", Config{Count: 3, Topic: "astrology"}, ErrInvalidTopic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testMachine()
			if _, err := m.Start(tt.cfg); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if m.State() != StateConfiguring {
				t.Errorf("state = %v, want configuring", m.State())
			}
		})
	}
}

func TestAnswer_NoInputWhileLoading(t *testing.T) {
	m := testMachine()
	mustStart(t, m, 2, "statistics")
	if _, ok := m.Answer(0); ok {
		t.Error("answer accepted while loading")
	}
}

func TestAnswer_ComparesOneBasedPosition(t *testing.T) {
	m := testMachine()
	tk := mustStart(t, m, 1, "statistics")
	m.ApplyQuestion(tk, testQuestion("statistics", "2"))

	correct, ok := m.Answer(1)
	if !ok || !correct {
		t.Errorf("correct = %v ok = %v", correct, ok)
	}
	if IsCorrect(0, "2") || !IsCorrect(0, "1") || IsCorrect(1, "B") {
		t.Error("IsCorrect must compare 1-based positions as text")
	}
}

func TestAnswer_IsIdempotent(t *testing.T) {
	m := testMachine()
	tk := mustStart(t, m, 3, "statistics")
	m.ApplyQuestion(tk, testQuestion("statistics", "2"))

	m.Answer(1)
	if _, ok := m.Answer(0); ok {
		t.Error("second answer should be ignored")
	}
	if _, ok := m.Answer(1); ok {
		t.Error("repeat answer should be ignored")
	}
	if m.Score() != 1 || len(m.Outcomes()) != 1 || m.Selected() != 1 {
		t.Errorf("score = %d outcomes = %d selected = %d", m.Score(), len(m.Outcomes()), m.Selected())
	}
}

func TestAnswer_OutOfRange(t *testing.T) {
	m := testMachine()
	tk := mustStart(t, m, 1, "statistics")
	m.ApplyQuestion(tk, testQuestion("statistics", "1"))
	if _, ok := m.Answer(4); ok {
		t.Error("out of range option accepted")
	}
	if m.Step() != StepAwaiting {
		t.Error("rejected answer must not lock the question")
	}
}

func TestAnswer_UsesQuestionTopic(t *testing.T) {
	m := testMachine()
	tk := mustStart(t, m, 1, RandomTopic)
	m.ApplyQuestion(tk, testQuestion("deep learning", "1"))
	m.Answer(0)

	got := m.Outcomes()[0]
	if got.Topic != "deep learning" || got.Difficulty != "easy" || !got.Correct {
		t.Errorf("outcome = %+v", got)
	}
}

func TestApplyQuestion_DiscardsStale(t *testing.T) {
	m := testMachine()
	first := mustStart(t, m, 3, "statistics")
	m.Abandon()
	second := mustStart(t, m, 3, "statistics")

	if m.ApplyQuestion(first, testQuestion("statistics", "1")) {
		t.Error("question for an abandoned run applied")
	}
	if !m.ApplyQuestion(second, testQuestion("statistics", "1")) {
		t.Fatal("current question discarded")
	}
	if m.ApplyQuestion(second, testQuestion("statistics", "2")) {
		t.Error("duplicate response replaced the loaded question")
	}
}

func TestFetchFailure_RetryAndAbandon(t *testing.T) {
	m := testMachine()
	tk := mustStart(t, m, 2, "statistics")

	m.ApplyQuestionFailed(tk)
	if !m.FetchFailed() || m.Loading() || m.State() != StatePlaying {
		t.Errorf("failed = %v loading = %v state = %v", m.FetchFailed(), m.Loading(), m.State())
	}

	retry, ok := m.Retry()
	if !ok || retry != tk || !m.Loading() {
		t.Errorf("retry = %+v ok = %v", retry, ok)
	}
	if _, ok := m.Retry(); ok {
		t.Error("Retry without a failure should be refused")
	}

	m.ApplyQuestionFailed(tk)
	if !m.Abandon() || m.State() != StateConfiguring {
		t.Error("Abandon should return to configuring")
	}
	if len(m.Outcomes()) != 0 || m.Score() != 0 {
		t.Error("Abandon must discard run state")
	}
}

func TestAdvance_OnlyFromAnswered(t *testing.T) {
	m := testMachine()
	tk := mustStart(t, m, 2, "statistics")
	if m.Advance() != NextNone {
		t.Error("Advance while loading should be refused")
	}
	m.ApplyQuestion(tk, testQuestion("statistics", "1"))
	if m.Advance() != NextNone {
		t.Error("Advance before answering should be refused")
	}
}

// Three correct answers finish with score 3, 100% and three outcome
// records in one batch.
func TestRun_ThreeCorrect(t *testing.T) {
	m := testMachine()
	tk := mustStart(t, m, 3, "machine learning")

	for i := 0; i < 3; i++ {
		if !m.ApplyQuestion(tk, testQuestion("machine learning", "2")) {
			t.Fatalf("question %d discarded", i)
		}
		m.Answer(1)
		next := m.Advance()
		if i < 2 {
			if next != NextFetch {
				t.Fatalf("advance %d = %v, want NextFetch", i, next)
			}
			tk = m.Ticket()
			if tk.Index != i+1 {
				t.Errorf("ticket index = %d, want %d", tk.Index, i+1)
			}
		} else if next != NextSubmit {
			t.Fatalf("final advance = %v, want NextSubmit", next)
		}
	}

	if m.State() != StateFinished || m.Score() != 3 || m.Percent() != 100 {
		t.Errorf("state = %v score = %d percent = %d", m.State(), m.Score(), m.Percent())
	}

	sub := m.Submission("default_user")
	if sub.Type != "web_quiz" || sub.Score != 3 || len(sub.Results) != 3 || sub.UserID != "default_user" {
		t.Errorf("submission = %+v", sub)
	}
	if sub.Timestamp != "2026-03-01T10:00:00Z" {
		t.Errorf("timestamp = %q", sub.Timestamp)
	}
}

// Score stays within [0, count] and outcomes match answered questions
// across mixed answers.
func TestRun_ScoreBounds(t *testing.T) {
	pattern := []int{0, 1, 1, 0, 3}
	m := testMachine()
	tk := mustStart(t, m, len(pattern), "statistics")

	for i, pick := range pattern {
		m.ApplyQuestion(tk, testQuestion("statistics", "2"))
		m.Answer(pick)
		if got := len(m.Outcomes()); got != i+1 {
			t.Errorf("after %d answers outcomes = %d", i+1, got)
		}
		if m.Score() < 0 || m.Score() > len(pattern) {
			t.Errorf("score %d out of bounds", m.Score())
		}
		m.Advance()
		tk = m.Ticket()
	}

	if m.Score() != 2 || m.Percent() != 40 {
		t.Errorf("score = %d percent = %d", m.Score(), m.Percent())
	}
	if m.Advance() != NextNone {
		t.Error("Advance after finishing should be refused")
	}
}

func TestSubmitFailure_KeepsFinished(t *testing.T) {
	m := testMachine()
	tk := mustStart(t, m, 1, "statistics")
	m.ApplyQuestion(tk, testQuestion("statistics", "1"))
	m.Answer(0)
	m.Advance()

	m.MarkSubmitted(false)
	if m.State() != StateFinished || m.Score() != 1 || m.SubmitStatus() != SubmitFailed {
		t.Errorf("state = %v score = %d submit = %v", m.State(), m.Score(), m.SubmitStatus())
	}

	rec := m.Record("u")
	if rec.Submitted || rec.RunID != "run-1" || len(rec.Outcomes) != 1 {
		t.Errorf("record = %+v", rec)
	}
	if rec.Outcomes[0].Question != "Which metric suits imbalanced classes?" {
		t.Errorf("outcome question = %q", rec.Outcomes[0].Question)
	}
}

func TestRestart_KeepsConfigDropsRun(t *testing.T) {
	m := testMachine()
	tk := mustStart(t, m, 1, "AI ethics")
	m.ApplyQuestion(tk, testQuestion("AI ethics", "1"))
	m.Answer(0)
	if m.Restart() {
		t.Error("Restart before finishing should be refused")
	}
	m.Advance()

	if !m.Restart() {
		t.Fatal("Restart refused")
	}
	if m.State() != StateConfiguring || m.Score() != 0 || len(m.Outcomes()) != 0 || m.RunID() != "" {
		t.Errorf("state = %v score = %d", m.State(), m.Score())
	}
	if m.Config().Topic != "AI ethics" {
		t.Errorf("config topic = %q", m.Config().Topic)
	}
}

func TestPercent(t *testing.T) {
	tests := []struct{ score, count, want int }{
		{0, 5, 0},
		{1, 3, 33},
		{2, 3, 67},
		{5, 5, 100},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := Percent(tt.score, tt.count); got != tt.want {
			t.Errorf("Percent(%d, %d) = %d, want %d", tt.score, tt.count, got, tt.want)
		}
	}
}

func TestConcreteTopics(t *testing.T) {
	topics := ConcreteTopics()
	if len(topics) != len(Topics)-1 {
		t.Fatalf("len = %d", len(topics))
	}
	for _, tp := range topics {
		if tp == RandomTopic {
			t.Error("random sentinel leaked into concrete topics")
		}
	}
	if Topics[len(Topics)-1] != RandomTopic {
		t.Error("Topics must keep the sentinel")
	}
	if ClampCount(0) != 1 || ClampCount(99) != 50 || ClampCount(7) != 7 {
		t.Error("ClampCount bounds")
	}
}

func TestCorrectIndex(t *testing.T) {
	tests := []struct {
		token api.AnswerToken
		want  int
	}{
		{"1", 0},
		{"3", 2},
		{"4", -1},
		{"B", -1},
		{"", -1},
	}
	for _, tt := range tests {
		q := api.Question{Options: []string{"a", "b", "c"}, CorrectAnswer: tt.token}
		if got := CorrectIndex(q); got != tt.want {
			t.Errorf("CorrectIndex(%q) = %d, want %d", tt.token, got, tt.want)
		}
	}
}

func TestDefaultConfig_RandomMix(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Topic != RandomTopic || cfg.Count != DefaultCount {
		t.Errorf("DefaultConfig = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if got := NewMachine().Config().Topic; got != RandomTopic {
		t.Errorf("new machine topic = %q, want %q", got, RandomTopic)
	}
}
