// Package app wires the backend client, the local journal and the screens
// into the Bubble Tea program.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/careercoach/internal/api"
	"github.com/abhisek/careercoach/internal/router"
	"github.com/abhisek/careercoach/internal/screen"
	"github.com/abhisek/careercoach/internal/screens/board"
	"github.com/abhisek/careercoach/internal/screens/chat"
	"github.com/abhisek/careercoach/internal/screens/courses"
	"github.com/abhisek/careercoach/internal/screens/history"
	"github.com/abhisek/careercoach/internal/screens/progress"
	"github.com/abhisek/careercoach/internal/screens/quiz"
	"github.com/abhisek/careercoach/internal/screens/shell"
	"github.com/abhisek/careercoach/internal/screens/welcome"
	"github.com/abhisek/careercoach/internal/store"
	"github.com/abhisek/careercoach/internal/ui/layout"
)

// Options holds the dependencies the TUI runs against.
type Options struct {
	Client    *api.Client
	EventRepo store.EventRepo
	User      string
	QuizCount int
	Logger    *zap.Logger
	// SkipSplash starts on the tabs directly.
	SkipSplash bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	user   string
	width  int
	height int
}

// NewShell builds the tabbed main screen.
func NewShell(opts Options) *shell.ShellScreen {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return shell.New(
		chat.New(opts.Client, opts.User, logger.Named("chat")),
		quiz.New(opts.Client, opts.EventRepo, opts.User, logger.Named("quiz")).
			WithDefaultCount(opts.QuizCount),
		progress.New(opts.Client, opts.User, logger.Named("progress")),
		courses.New(opts.Client, opts.User, logger.Named("courses")),
		board.New(opts.Client, logger.Named("board")),
		history.New(opts.EventRepo),
	)
}

// newAppModel creates an AppModel starting at the splash screen.
func newAppModel(opts Options) AppModel {
	next := func() screen.Screen { return NewShell(opts) }
	var first screen.Screen
	if opts.SkipSplash {
		first = next()
	} else {
		first = welcome.New(opts.User, next)
	}
	return AppModel{
		router: router.New(first),
		user:   opts.User,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) footerHints() []layout.KeyHint {
	var hints []layout.KeyHint
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	}
	if m.router.Depth() > 1 {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.user, m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
