package shell

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"

	"github.com/abhisek/careercoach/internal/screen"
	"github.com/abhisek/careercoach/internal/ui/layout"
)

type loadedMsg struct{}

type fakeTab struct {
	title     string
	keys      []string
	loads     int
	activated int
	inits     int
}

func (f *fakeTab) Init() tea.Cmd {
	f.inits++
	return nil
}

func (f *fakeTab) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		f.keys = append(f.keys, msg.String())
	case loadedMsg:
		f.loads++
	}
	return f, nil
}

func (f *fakeTab) View(int, int) string { return "body of " + f.title }
func (f *fakeTab) Title() string        { return f.title }

func (f *fakeTab) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "r", Description: "Refresh " + f.title}}
}

type activeTab struct{ fakeTab }

func (a *activeTab) Activate() tea.Cmd {
	a.activated++
	return nil
}

func key(r rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: r, Text: string(r)} }

func TestShell_TabCycles(t *testing.T) {
	a, b := &fakeTab{title: "Chat"}, &activeTab{fakeTab{title: "Progress"}}
	s := New(a, b)
	s.Init()
	assert.Equal(t, 1, a.inits)
	assert.Equal(t, 1, b.inits)

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	assert.Equal(t, 1, s.Active())
	assert.Equal(t, "Progress", s.Title())
	assert.Equal(t, 1, b.activated)

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	assert.Equal(t, 0, s.Active(), "tab wraps to the first tab")

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	assert.Equal(t, 1, s.Active(), "shift+tab wraps to the last tab")
	assert.Equal(t, 2, b.activated)

	assert.Empty(t, a.keys, "tab keys are not forwarded")
}

func TestShell_KeysReachVisibleTabOnly(t *testing.T) {
	a, b := &fakeTab{title: "Chat"}, &fakeTab{title: "Quiz"}
	s := New(a, b)

	s.Update(key('x'))
	assert.Equal(t, []string{"x"}, a.keys)
	assert.Empty(t, b.keys)
}

func TestShell_ResultsReachAllTabs(t *testing.T) {
	a, b := &fakeTab{title: "Chat"}, &fakeTab{title: "Quiz"}
	s := New(a, b)

	s.Update(loadedMsg{})
	assert.Equal(t, 1, a.loads)
	assert.Equal(t, 1, b.loads)
}

func TestShell_ViewAndHints(t *testing.T) {
	s := New(&fakeTab{title: "Chat"}, &fakeTab{title: "Courses"})
	view := s.View(80, 20)
	assert.Contains(t, view, "Chat")
	assert.Contains(t, view, "Courses")
	assert.Contains(t, view, "body of Chat")

	hints := s.KeyHints()
	assert.Equal(t, "Refresh Chat", hints[0].Description)
	assert.Equal(t, "Tab", hints[len(hints)-1].Key)
}

func TestShell_Empty(t *testing.T) {
	s := New()
	_, cmd := s.Update(key('x'))
	assert.Nil(t, cmd)
	assert.Equal(t, "", s.Title())
	assert.Equal(t, "", s.View(80, 20))
}
