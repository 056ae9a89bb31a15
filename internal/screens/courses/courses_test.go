package courses

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"

	"github.com/abhisek/careercoach/internal/api"
	"github.com/abhisek/careercoach/internal/catalog"
)

type fakeAPI struct {
	courses []api.Course
	err     error
}

func (f fakeAPI) Recommendations(context.Context, string) ([]api.Course, error) {
	return f.courses, f.err
}

func loaded(f fakeAPI) *CoursesScreen {
	s := New(f, "u", nil)
	s.Update(s.Init()())
	return s
}

func typeText(s *CoursesScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

var testCourses = []api.Course{
	{Title: "Machine Learning Crash Course", Platform: "Google", TopicsCovered: []string{"machine learning"}},
	{Title: "Statistics for Data Science", Platform: "edX", TopicsCovered: []string{"statistics"}},
}

func TestEmptyShowsNoCoursesMessage(t *testing.T) {
	s := loaded(fakeAPI{})
	assert.Contains(t, s.View(100, 20), catalog.NoCoursesMessage)
}

func TestFailureShowsNoCoursesMessage(t *testing.T) {
	s := loaded(fakeAPI{err: errors.New("offline")})
	assert.True(t, s.failed)
	assert.Contains(t, s.View(100, 20), catalog.NoCoursesMessage)
}

func TestListsCourses(t *testing.T) {
	s := loaded(fakeAPI{courses: testCourses})
	view := s.View(110, 30)
	assert.Contains(t, view, "Machine Learning Crash Course")
	assert.Contains(t, view, "Statistics for Data Science")
}

func TestSearchFilters(t *testing.T) {
	s := loaded(fakeAPI{courses: testCourses})

	typeText(s, "/")
	assert.True(t, s.searching)
	typeText(s, "statis")
	if assert.Len(t, s.visible, 1) {
		assert.Equal(t, "Statistics for Data Science", s.visible[0].Title)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.False(t, s.searching)
	assert.Len(t, s.visible, 2, "esc clears the search")
}

func TestNavigationClamps(t *testing.T) {
	s := loaded(fakeAPI{courses: testCourses})
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 0, s.selected)
	for i := 0; i < 5; i++ {
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	assert.Equal(t, 1, s.selected)
}
