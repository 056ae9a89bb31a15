// Package board shows job listings and upcoming events side by side.
package board

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/careercoach/internal/api"
	"github.com/abhisek/careercoach/internal/catalog"
	"github.com/abhisek/careercoach/internal/screen"
	"github.com/abhisek/careercoach/internal/ui/components"
	"github.com/abhisek/careercoach/internal/ui/layout"
	"github.com/abhisek/careercoach/internal/ui/theme"
)

type boardMsg struct {
	Board catalog.Board
}

// BoardScreen implements screen.Screen for jobs and events.
type BoardScreen struct {
	api       catalog.BoardAPI
	logger    *zap.Logger
	board     catalog.Board
	filter    catalog.JobFilter
	search    components.TextInput
	searching bool
	loaded    bool
}

var _ screen.Screen = (*BoardScreen)(nil)
var _ screen.KeyHintProvider = (*BoardScreen)(nil)

// New creates a BoardScreen. logger may be nil.
func New(a catalog.BoardAPI, logger *zap.Logger) *BoardScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	search := components.NewTextInput("search jobs and events", false, 64)
	search.Blur()
	return &BoardScreen{api: a, logger: logger, search: search}
}

func (s *BoardScreen) Init() tea.Cmd {
	return s.load()
}

func (s *BoardScreen) Title() string {
	return "Jobs & Events"
}

func (s *BoardScreen) KeyHints() []layout.KeyHint {
	if s.searching {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Done"},
			{Key: "Esc", Description: "Clear"},
		}
	}
	return []layout.KeyHint{
		{Key: "F", Description: "Filter: " + s.filter.String()},
		{Key: "/", Description: "Search"},
		{Key: "R", Description: "Refresh"},
	}
}

func (s *BoardScreen) load() tea.Cmd {
	return func() tea.Msg {
		return boardMsg{Board: catalog.FetchBoard(context.Background(), s.api, s.logger)}
	}
}

// Jobs returns the listings that pass the filter and the search box.
func (s *BoardScreen) Jobs() []api.Job {
	return catalog.FilterJobs(s.board.Jobs, s.filter, s.search.Value())
}

// Events returns the events that match the search box.
func (s *BoardScreen) Events() []api.Event {
	return catalog.SearchEvents(s.board.Events, s.search.Value())
}

func (s *BoardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case boardMsg:
		s.board = msg.Board
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.searching {
		var cmd tea.Cmd
		s.search, cmd = s.search.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *BoardScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	k := msg.String()
	if s.searching {
		switch k {
		case "enter":
			s.searching = false
			s.search.Blur()
		case "esc":
			s.searching = false
			s.search.Reset()
			s.search.Blur()
		default:
			var cmd tea.Cmd
			s.search, cmd = s.search.Update(msg)
			return s, cmd
		}
		return s, nil
	}

	switch k {
	case "f":
		s.filter = s.filter.Next()
	case "/":
		s.searching = true
		return s, s.search.Focus()
	case "r":
		return s, s.load()
	}
	return s, nil
}

func (s *BoardScreen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading jobs and events...")
	}

	var b strings.Builder
	b.WriteString("\n")
	if s.searching || s.search.Value() != "" {
		b.WriteString("  " + s.search.View() + "\n\n")
	}

	colWidth := max((width-6)/2, 30)
	jobs := s.renderJobs(colWidth)
	events := s.renderEvents(colWidth)
	if width < 2*30+6 {
		b.WriteString(jobs + "\n\n" + events)
	} else {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, "  ", jobs, "  ", events))
	}
	return b.String()
}

func heading(text string) string {
	return lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(text)
}

func (s *BoardScreen) renderJobs(w int) string {
	var b strings.Builder
	b.WriteString(heading(fmt.Sprintf("Jobs (%s)", s.filter)))
	b.WriteString("\n\n")

	jobs := s.Jobs()
	switch {
	case s.board.JobsErr != nil:
		b.WriteString(theme.Hint.Render("Job listings are unavailable right now."))
	case len(jobs) == 0:
		b.WriteString(theme.Hint.Render("No jobs match."))
	}
	for _, j := range jobs {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(j.Title))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(fmt.Sprintf("%s · %s · %s", j.Company, j.Location, j.Type)))
		b.WriteString("\n")
		if j.URL != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render(j.URL))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return lipgloss.NewStyle().Width(w).Render(b.String())
}

func (s *BoardScreen) renderEvents(w int) string {
	var b strings.Builder
	b.WriteString(heading("Events"))
	b.WriteString("\n\n")

	events := s.Events()
	switch {
	case s.board.EventsErr != nil:
		b.WriteString(theme.Hint.Render("Events are unavailable right now."))
	case len(events) == 0:
		b.WriteString(theme.Hint.Render("No events match."))
	}
	for _, e := range events {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(e.Title))
		b.WriteString("\n")
		if e.Description != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(e.Description))
			b.WriteString("\n")
		}
		if e.URL != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render(e.URL))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return lipgloss.NewStyle().Width(w).Render(b.String())
}
