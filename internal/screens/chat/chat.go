// Package chat is the tutor chat screen: a session sidebar next to the
// transcript of the active session and a composer.
package chat

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	chatstate "github.com/abhisek/careercoach/internal/chat"
	"github.com/abhisek/careercoach/internal/screen"
	"github.com/abhisek/careercoach/internal/ui/components"
	"github.com/abhisek/careercoach/internal/ui/layout"
)

// ChatScreen implements screen.Screen for tutor conversations.
type ChatScreen struct {
	api        chatstate.SessionAPI
	user       string
	logger     *zap.Logger
	sessions   *chatstate.Sessions
	transcript *chatstate.Transcript
	input      components.TextInput
	md         components.Markdown
	scroll     int // lines scrolled up from the bottom
	errMsg     string
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)

// New creates a ChatScreen for user. logger may be nil.
func New(a chatstate.SessionAPI, user string, logger *zap.Logger) *ChatScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatScreen{
		api:        a,
		user:       user,
		logger:     logger,
		sessions:   chatstate.NewSessions(),
		transcript: chatstate.NewTranscript(),
		input:      components.NewTextInput("Ask your coach anything...", false, 0),
	}
}

func (s *ChatScreen) Init() tea.Cmd {
	return tea.Batch(s.listSessions(), s.input.Init())
}

func (s *ChatScreen) Title() string {
	return "Chat"
}

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Ctrl+N", Description: "New chat"},
		{Key: "Ctrl+X", Description: "Delete chat"},
		{Key: "Ctrl+↑↓", Description: "Switch chat"},
		{Key: "PgUp/PgDn", Description: "Scroll"},
	}
}

func (s *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionsLoadedMsg:
		if msg.Err != nil {
			s.logger.Warn("list sessions failed", zap.Error(msg.Err))
			s.errMsg = "Couldn't load your chats."
			return s, nil
		}
		s.errMsg = ""
		return s, s.settle(s.sessions.ApplyList(msg.Gen, msg.Sessions))

	case sessionCreatedMsg:
		if msg.Err != nil {
			s.logger.Warn("create session failed", zap.Error(msg.Err))
			s.sessions.ApplyCreateFailed()
			s.errMsg = "Couldn't start a new chat."
			return s, nil
		}
		s.errMsg = ""
		return s, s.settle(s.sessions.ApplyCreated(msg.Session))

	case sessionDeletedMsg:
		if msg.Err != nil {
			s.logger.Warn("delete session failed", zap.String("session", msg.ID), zap.Error(msg.Err))
			s.sessions.ApplyDeleteFailed(msg.ID)
			s.errMsg = "Couldn't delete that chat."
			return s, nil
		}
		return s, s.settle(s.sessions.ApplyDeleted(msg.ID))

	case historyLoadedMsg:
		if msg.Err != nil {
			s.logger.Warn("load history failed", zap.String("session", msg.SessionID), zap.Error(msg.Err))
			s.transcript.ApplyHistoryFailed(msg.SessionID)
			return s, nil
		}
		if s.transcript.ApplyHistory(msg.SessionID, msg.Turns) {
			s.scroll = 0
		}
		return s, nil

	case replyMsg:
		if msg.Err != nil {
			s.logger.Warn("send message failed", zap.String("session", msg.Pending.SessionID), zap.Error(msg.Err))
			s.transcript.ApplySendFailed(msg.Pending)
			return s, nil
		}
		s.scroll = 0
		if s.transcript.ApplyReply(msg.Pending, msg.Turn) {
			return s, s.listSessions()
		}
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ChatScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return s, s.send()
	case "ctrl+n":
		return s, s.create()
	case "ctrl+x":
		return s, s.deleteActive()
	case "ctrl+up", "ctrl+k":
		return s, s.settle(s.sessions.SelectOffset(-1))
	case "ctrl+down", "ctrl+j":
		return s, s.settle(s.sessions.SelectOffset(1))
	case "pgup":
		s.scroll += 5
		return s, nil
	case "pgdown":
		s.scroll = max(0, s.scroll-5)
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// settle turns a Sessions result into follow-up commands: a fresh listing
// when the last one was stale, a create when the list emptied, or a
// history load when the active session moved.
func (s *ChatScreen) settle(res chatstate.Result) tea.Cmd {
	if res.NeedList {
		return s.listSessions()
	}
	if res.NeedCreate {
		return s.create()
	}
	if !res.ActiveChanged && s.transcript.SessionID() == s.sessions.ActiveID() {
		return nil
	}
	id := s.sessions.ActiveID()
	if !s.transcript.Switch(id) {
		return nil
	}
	s.scroll = 0
	return func() tea.Msg {
		turns, err := s.api.History(context.Background(), s.user, id)
		return historyLoadedMsg{SessionID: id, Turns: turns, Err: err}
	}
}

func (s *ChatScreen) listSessions() tea.Cmd {
	gen := s.sessions.BeginList()
	return func() tea.Msg {
		list, err := s.api.ListSessions(context.Background(), s.user)
		return sessionsLoadedMsg{Gen: gen, Sessions: list, Err: err}
	}
}

func (s *ChatScreen) create() tea.Cmd {
	if !s.sessions.BeginCreate() {
		return nil
	}
	return func() tea.Msg {
		sess, err := s.api.CreateSession(context.Background(), s.user)
		return sessionCreatedMsg{Session: sess, Err: err}
	}
}

func (s *ChatScreen) deleteActive() tea.Cmd {
	id := s.sessions.ActiveID()
	if !s.sessions.BeginDelete(id) {
		return nil
	}
	return func() tea.Msg {
		err := s.api.DeleteSession(context.Background(), s.user, id)
		return sessionDeletedMsg{ID: id, Err: err}
	}
}

func (s *ChatScreen) send() tea.Cmd {
	p, ok := s.transcript.BeginSend(s.input.Value())
	if !ok {
		return nil
	}
	s.input.Reset()
	s.scroll = 0
	return func() tea.Msg {
		turn, err := s.api.SendMessage(context.Background(), s.user, p.SessionID, p.Text)
		return replyMsg{Pending: p, Turn: turn, Err: err}
	}
}
