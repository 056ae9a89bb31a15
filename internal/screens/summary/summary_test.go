package summary

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careercoach/internal/router"
	"github.com/abhisek/careercoach/internal/store"
)

func testRun() store.QuizRunRecord {
	return store.QuizRunRecord{
		Sequence: 7,
		QuizRunData: store.QuizRunData{
			RunID:         "run-1",
			UserID:        "u",
			Topic:         "statistics",
			QuestionCount: 2,
			Score:         1,
			Submitted:     false,
			StartedAt:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			FinishedAt:    time.Date(2026, 3, 1, 10, 5, 0, 0, time.UTC),
			Outcomes: []store.QuizOutcomeData{
				{Topic: "statistics", Difficulty: "easy", Correct: true, Question: "Which is robust to outliers?"},
				{Topic: "statistics", Difficulty: "easy", Correct: false, Question: "What is a p-value?"},
			},
		},
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testRun())
	if s.Title() != "Quiz Run" {
		t.Errorf("Title = %q, want %q", s.Title(), "Quiz Run")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	s := New(testRun())
	view := s.View(100, 30)
	for _, want := range []string{
		"Statistics quiz",
		"Score: 50%",
		"not saved to the server",
		"Which is robust to outliers?",
		"What is a p-value?",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryScreen_Navigation(t *testing.T) {
	for _, code := range []rune{tea.KeyEnter, tea.KeyEscape} {
		s := New(testRun())
		_, cmd := s.Update(tea.KeyPressMsg{Code: code})
		if cmd == nil {
			t.Fatal("expected a command")
		}
		if _, ok := cmd().(router.PopScreenMsg); !ok {
			t.Errorf("expected PopScreenMsg for key %v", code)
		}
	}
}

func TestHeading(t *testing.T) {
	tests := map[string]string{
		"":           "Quiz",
		"random":     "Random mix quiz",
		"AI ethics":  "AI ethics quiz",
		"statistics": "Statistics quiz",
	}
	for topic, want := range tests {
		if got := heading(topic); got != want {
			t.Errorf("heading(%q) = %q, want %q", topic, got, want)
		}
	}
}
