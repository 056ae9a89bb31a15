package board

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"

	"github.com/abhisek/careercoach/internal/api"
	"github.com/abhisek/careercoach/internal/catalog"
)

type fakeBoard struct {
	eventsErr error
}

func (fakeBoard) Jobs(context.Context) ([]api.Job, error) {
	return []api.Job{
		{ID: 1, Title: "Data Scientist", Company: "Acme", Location: "Remote", Type: "Full-time"},
		{ID: 2, Title: "ML Engineer", Company: "Globex", Location: "Berlin", Type: "Full-time"},
	}, nil
}

func (f fakeBoard) Events(context.Context) ([]api.Event, error) {
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	return []api.Event{{ID: 0, Title: "Data Meetup", Description: "Talks"}}, nil
}

func loaded(f fakeBoard) *BoardScreen {
	s := New(f, nil)
	s.Update(s.Init()())
	return s
}

func press(s *BoardScreen, r rune) {
	s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
}

func TestFilterCycle(t *testing.T) {
	s := loaded(fakeBoard{})
	assert.Len(t, s.Jobs(), 2)

	press(s, 'f')
	assert.Equal(t, catalog.FilterRemote, s.filter)
	if assert.Len(t, s.Jobs(), 1) {
		assert.Equal(t, "Data Scientist", s.Jobs()[0].Title)
	}

	press(s, 'f')
	if assert.Len(t, s.Jobs(), 1) {
		assert.Equal(t, "ML Engineer", s.Jobs()[0].Title)
	}

	press(s, 'f')
	assert.Equal(t, catalog.FilterAll, s.filter)
}

func TestSearchAppliesToBothLists(t *testing.T) {
	s := loaded(fakeBoard{})
	press(s, '/')
	for _, r := range "globex" {
		press(s, r)
	}
	assert.Len(t, s.Jobs(), 1)
	assert.Empty(t, s.Events())

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Len(t, s.Jobs(), 2)
	assert.Len(t, s.Events(), 1)
}

func TestEventsFailureKeepsJobs(t *testing.T) {
	s := loaded(fakeBoard{eventsErr: errors.New("boom")})
	view := s.View(120, 30)
	assert.Contains(t, view, "Data Scientist")
	assert.Contains(t, view, "Events are unavailable right now.")
}
