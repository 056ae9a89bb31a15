package progress

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careercoach/internal/api"
)

type fakeAPI struct {
	snap  *api.PerformanceSnapshot
	err   error
	calls int
}

func (f *fakeAPI) Performance(context.Context, string) (*api.PerformanceSnapshot, error) {
	f.calls++
	return f.snap, f.err
}

func load(s *ProgressScreen) {
	s.Update(s.Init()())
}

func TestView_NoData(t *testing.T) {
	for name, f := range map[string]*fakeAPI{
		"not found":    {snap: nil},
		"empty topics": {snap: &api.PerformanceSnapshot{Message: "x"}},
	} {
		t.Run(name, func(t *testing.T) {
			s := New(f, "u", nil)
			load(s)
			if !strings.Contains(s.View(100, 20), "No quiz data yet.") {
				t.Errorf("expected neutral empty state, got:\n%s", s.View(100, 20))
			}
		})
	}
}

func TestView_Report(t *testing.T) {
	f := &fakeAPI{snap: &api.PerformanceSnapshot{
		Message: "Keep going",
		Topics: []api.TopicPerformance{
			{Topic: "statistics", Summary: "33.3% overall (1/3)", Details: map[string]string{"easy": "33.3% (1/3)"}},
			{Topic: "deep learning", Summary: "100.0% overall (1/1)"},
		},
		WeakestAreas: []string{"statistics"},
	}}
	s := New(f, "u", nil)
	load(s)

	view := s.View(110, 30)
	for _, want := range []string{
		"Keep going",
		"Strongest: ",
		"deep learning",
		"Needs work: ",
		"(33.3%)",
		"easy: 33.3% (1/3)",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestFailure_ThenRefresh(t *testing.T) {
	f := &fakeAPI{err: errors.New("offline")}
	s := New(f, "u", nil)
	load(s)
	if !strings.Contains(s.View(100, 20), "Couldn't load your progress.") {
		t.Errorf("expected error state, got:\n%s", s.View(100, 20))
	}

	f.err = nil
	f.snap = &api.PerformanceSnapshot{Topics: []api.TopicPerformance{{Topic: "statistics", Summary: "50.0% overall (1/2)"}}}
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if cmd == nil {
		t.Fatal("expected a reload command")
	}
	s.Update(cmd())

	if s.failed || !s.hasData {
		t.Errorf("expected data after refresh, failed=%v hasData=%v", s.failed, s.hasData)
	}
	if f.calls != 2 {
		t.Errorf("expected 2 fetches, got %d", f.calls)
	}
}
