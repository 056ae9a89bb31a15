// Package courses lists course recommendations with a fuzzy search box.
package courses

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

// RecommendationsAPI fetches course recommendations.
type RecommendationsAPI interface {
	Recommendations(ctx context.Context, user string) ([]api.Course, error)
}

type coursesMsg struct {
	Courses []api.Course
	Err     error
}

// CoursesScreen implements screen.Screen for recommendations.
type CoursesScreen struct {
	api       RecommendationsAPI
	user      string
	logger    *zap.Logger
	courses   []api.Course
	visible   []api.Course
	selected  int
	search    components.TextInput
	searching bool
	loaded    bool
	failed    bool
}

var _ screen.Screen = (*CoursesScreen)(nil)
var _ screen.KeyHintProvider = (*CoursesScreen)(nil)

// New creates a CoursesScreen. logger may be nil.
func New(a RecommendationsAPI, user string, logger *zap.Logger) *CoursesScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	search := components.NewTextInput("search courses", false, 64)
	search.Blur()
	return &CoursesScreen{api: a, user: user, logger: logger, search: search}
}

func (s *CoursesScreen) Init() tea.Cmd {
	return s.load()
}

// Activate reloads recommendations when the tab is shown again.
func (s *CoursesScreen) Activate() tea.Cmd {
	return s.load()
}

func (s *CoursesScreen) Title() string {
	return "Courses"
}

func (s *CoursesScreen) KeyHints() []layout.KeyHint {
	if s.searching {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Done"},
			{Key: "Esc", Description: "Clear"},
		}
	}
	return []layout.KeyHint{
		{Key: "/", Description: "Search"},
		{Key: "↑↓", Description: "Browse"},
		{Key: "R", Description: "Refresh"},
	}
}

func (s *CoursesScreen) load() tea.Cmd {
	return func() tea.Msg {
		courses, err := s.api.Recommendations(context.Background(), s.user)
		return coursesMsg{Courses: courses, Err: err}
	}
}

func (s *CoursesScreen) filter() {
	s.visible = catalog.SearchCourses(s.courses, s.search.Value())
	s.selected = min(s.selected, max(len(s.visible)-1, 0))
}

func (s *CoursesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case coursesMsg:
		s.loaded = true
		if msg.Err != nil {
			s.logger.Warn("fetch recommendations failed", zap.String("user", s.user), zap.Error(msg.Err))
			s.failed = true
			s.courses = nil
		} else {
			s.failed = false
			s.courses = msg.Courses
		}
		s.filter()
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

func (s *CoursesScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	k := msg.String()
	if s.searching {
		switch k {
		case "enter":
			s.searching = false
			s.search.Blur()
			return s, nil
		case "esc":
			s.searching = false
			s.search.Reset()
			s.search.Blur()
			s.filter()
			return s, nil
		}
		var cmd tea.Cmd
		s.search, cmd = s.search.Update(msg)
		s.filter()
		return s, cmd
	}

	switch k {
	case "/":
		s.searching = true
		return s, s.search.Focus()
	case "r":
		return s, s.load()
	case "up", "k":
		s.selected = max(s.selected-1, 0)
	case "down", "j":
		s.selected = min(s.selected+1, max(len(s.visible)-1, 0))
	}
	return s, nil
}

func (s *CoursesScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case !s.loaded:
		return center.Foreground(theme.TextDim).Render("\n\n  Loading courses...")
	case len(s.courses) == 0:
		return center.Foreground(theme.TextDim).Italic(true).Render("\n\n" + catalog.NoCoursesMessage)
	}

	cw := min(width-4, 84)
	var b strings.Builder
	b.WriteString("\n")
	if s.searching || s.search.Value() != "" {
		b.WriteString(s.search.View())
		b.WriteString("\n\n")
	}
	if len(s.visible) == 0 {
		b.WriteString(theme.Hint.Render("No courses match your search."))
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
	}

	for i, c := range s.visible {
		b.WriteString(renderCourse(c, i == s.selected, cw))
		b.WriteString("\n")
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func renderCourse(c api.Course, selected bool, cw int) string {
	title := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	prefix := "  "
	if selected {
		title = theme.Selected
		prefix = "▸ "
	}

	meta := []string{}
	for _, v := range []string{c.Platform, c.DifficultyLevel, c.Duration, catalog.CoursePrice(c)} {
		if v != "" {
			meta = append(meta, v)
		}
	}

	line := prefix + title.Render(c.Title)
	if len(meta) > 0 {
		line += "  " + theme.Hint.Render(strings.Join(meta, " · "))
	}
	if !selected {
		return line
	}

	detail := lipgloss.NewStyle().Foreground(theme.TextDim).Width(cw - 4).PaddingLeft(4)
	var b strings.Builder
	b.WriteString(line)
	if c.Description != "" {
		b.WriteString("\n" + detail.Render(c.Description))
	}
	if len(c.TopicsCovered) > 0 {
		b.WriteString("\n" + detail.Render(fmt.Sprintf("Topics: %s", strings.Join(c.TopicsCovered, ", "))))
	}
	if c.URL != "" {
		b.WriteString("\n" + detail.Foreground(theme.Secondary).Render(c.URL))
	}
	return b.String()
}
