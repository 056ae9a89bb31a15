// Package welcome is the splash shown while the first requests load.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careercoach/internal/router"
	"github.com/abhisek/careercoach/internal/screen"
	"github.com/abhisek/careercoach/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	bannerAt     = 400 * time.Millisecond
	totalDur     = 2000 * time.Millisecond
)

const tagline = "Your AI career coach"

// cursorFrames blink after the tagline while it types out.
var cursorFrames = []string{"▌", " "}

type tickMsg time.Time

// WelcomeScreen types out the tagline under the banner, then hands over
// to the screen built by next on the first key press.
type WelcomeScreen struct {
	next         func() screen.Screen
	user         string
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen greeting user that replaces itself with the
// screen produced by next.
func New(user string, next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next, user: user}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

// typed returns how much of the tagline is visible.
func (w *WelcomeScreen) typed() string {
	if w.elapsed < bannerAt {
		return ""
	}
	span := totalDur - bannerAt
	n := int(float64(len(tagline)) * float64(w.elapsed-bannerAt) / float64(span))
	return tagline[:min(n, len(tagline))]
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	if w.elapsed >= bannerAt {
		sections = append(sections, RenderBanner(width), "")
	}

	text := w.typed()
	if text != "" {
		line := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(text)
		if len(text) < len(tagline) {
			line += lipgloss.NewStyle().Foreground(theme.Accent).
				Render(cursorFrames[w.tickCount%len(cursorFrames)])
		}
		sections = append(sections, line)
	}

	if w.elapsed >= totalDur {
		if w.user != "" {
			sections = append(sections, "", lipgloss.NewStyle().Foreground(theme.Secondary).
				Render("Welcome back, "+w.user))
		}
		sections = append(sections, "", lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to continue"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
