// Package progress shows the learner's quiz performance as reported by
// the backend.
package progress

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/careercoach/internal/api"
	perf "github.com/abhisek/careercoach/internal/progress"
	"github.com/abhisek/careercoach/internal/screen"
	"github.com/abhisek/careercoach/internal/ui/components"
	"github.com/abhisek/careercoach/internal/ui/layout"
	"github.com/abhisek/careercoach/internal/ui/theme"
)

// PerformanceAPI fetches the performance snapshot.
type PerformanceAPI interface {
	Performance(ctx context.Context, user string) (*api.PerformanceSnapshot, error)
}

type performanceMsg struct {
	Snapshot *api.PerformanceSnapshot
	Err      error
}

// ProgressScreen renders perf.Aggregate over the latest snapshot.
type ProgressScreen struct {
	api     PerformanceAPI
	user    string
	logger  *zap.Logger
	report  perf.Report
	hasData bool
	loaded  bool
	failed  bool
}

var _ screen.Screen = (*ProgressScreen)(nil)
var _ screen.KeyHintProvider = (*ProgressScreen)(nil)

// New creates a ProgressScreen. logger may be nil.
func New(a PerformanceAPI, user string, logger *zap.Logger) *ProgressScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressScreen{api: a, user: user, logger: logger}
}

func (s *ProgressScreen) Init() tea.Cmd {
	return s.load()
}

// Activate reloads the snapshot whenever the tab is shown again, so runs
// submitted since the last visit are counted.
func (s *ProgressScreen) Activate() tea.Cmd {
	return s.load()
}

func (s *ProgressScreen) Title() string {
	return "Progress"
}

func (s *ProgressScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "R", Description: "Refresh"}}
}

func (s *ProgressScreen) load() tea.Cmd {
	return func() tea.Msg {
		snap, err := s.api.Performance(context.Background(), s.user)
		return performanceMsg{Snapshot: snap, Err: err}
	}
}

func (s *ProgressScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case performanceMsg:
		s.loaded = true
		if msg.Err != nil {
			s.logger.Warn("fetch performance failed", zap.String("user", s.user), zap.Error(msg.Err))
			s.failed = true
			return s, nil
		}
		s.failed = false
		s.report, s.hasData = perf.Aggregate(msg.Snapshot)
		return s, nil

	case tea.KeyPressMsg:
		if msg.String() == "r" {
			return s, s.load()
		}
	}
	return s, nil
}

func (s *ProgressScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case !s.loaded:
		return center.Foreground(theme.TextDim).Render("\n\n  Loading progress...")
	case s.failed:
		return center.Foreground(theme.Error).Render("\n\nCouldn't load your progress. Press r to try again.")
	case !s.hasData:
		return center.Foreground(theme.TextDim).Italic(true).
			Render("\n\nNo quiz data yet. Take a quiz to see your progress.")
	}

	cw := min(width-4, 76)
	r := s.report

	var b strings.Builder
	b.WriteString("\n")
	if r.Message != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(cw).Render(r.Message))
		b.WriteString("\n\n")
	}
	b.WriteString(highlight("Strongest", r.Strongest, theme.Success))
	b.WriteString("\n")
	b.WriteString(highlight("Needs work", r.Weakest, theme.Accent))
	b.WriteString("\n\n")

	labelWidth := 0
	for _, t := range r.Topics {
		labelWidth = max(labelWidth, lipgloss.Width(t.Topic))
	}
	for _, t := range r.Topics {
		bar := components.NewProgressBar(t.Topic, t.Accuracy/100, true, cw)
		bar.LabelWidth = labelWidth
		b.WriteString(bar.View())
		b.WriteString("\n")
		details := make([]string, 0, len(t.Details))
		for _, k := range t.DetailKeys() {
			details = append(details, fmt.Sprintf("%s: %s", k, t.Details[k]))
		}
		line := t.Summary
		if len(details) > 0 {
			line += "  ·  " + strings.Join(details, "  ·  ")
		}
		b.WriteString(theme.Hint.Render(strings.Repeat(" ", labelWidth+2) + line))
		b.WriteString("\n")
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func highlight(label string, t perf.TopicAccuracy, c color.Color) string {
	return lipgloss.NewStyle().Foreground(theme.TextDim).Render(label+": ") +
		lipgloss.NewStyle().Foreground(c).Bold(true).Render(t.Topic) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf(" (%.1f%%)", t.Accuracy))
}
