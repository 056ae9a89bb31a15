package chat

import (
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/abhisek/careercoach/internal/api"
)

// FallbackReply is shown as the assistant turn when a send fails, so a
// message never goes unanswered.
const FallbackReply = "Sorry, I'm having trouble connecting to my brain right now. Please try again later."

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one rendered line of the transcript.
type Message struct {
	ID      string
	Role    Role
	Content string
	// Fallback marks the synthetic reply appended after a failed send.
	Fallback bool
}

// Phase is the transcript lifecycle for the current session.
type Phase int

const (
	PhaseIdle    Phase = iota // no active session
	PhaseLoading              // history fetch in flight
	PhaseReady                // history applied, sending allowed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading-history"
	case PhaseReady:
		return "ready"
	default:
		return "idle"
	}
}

// PendingSend is the tentative half of a send. The owner performs the
// remote call and completes it with ApplyReply or ApplySendFailed.
type PendingSend struct {
	SessionID string
	Text      string
	// FirstMessage is set when the transcript was empty before this send.
	FirstMessage bool
}

// Transcript owns the messages of the active session. All messages are
// dropped whenever the session changes.
type Transcript struct {
	sessionID string
	phase     Phase
	messages  []Message
	composing bool
	newID     func() string
}

// NewTranscript returns an idle transcript.
func NewTranscript() *Transcript {
	return &Transcript{newID: func() string { return uuid.NewString() }}
}

func (t *Transcript) SessionID() string { return t.sessionID }

func (t *Transcript) Phase() Phase { return t.phase }

// Composing reports whether a send is awaiting its reply.
func (t *Transcript) Composing() bool { return t.composing }

// Messages returns a copy of the transcript in display order.
func (t *Transcript) Messages() []Message {
	return append([]Message(nil), t.messages...)
}

// CanSend reports whether the compose control should be enabled.
func (t *Transcript) CanSend() bool {
	return t.phase == PhaseReady && !t.composing && t.sessionID != ""
}

// Switch tears down the transcript for a new session id. It returns true
// when the owner must fetch history for sessionID. Switching to the
// current id is a no-op.
func (t *Transcript) Switch(sessionID string) bool {
	if sessionID == t.sessionID && t.phase != PhaseIdle {
		return false
	}
	t.sessionID = sessionID
	t.messages = nil
	t.composing = false
	if sessionID == "" {
		t.phase = PhaseIdle
		return false
	}
	t.phase = PhaseLoading
	return true
}

// ApplyHistory installs the fetched history for sessionID. Responses for
// any session other than the current one are discarded and false is
// returned.
func (t *Transcript) ApplyHistory(sessionID string, turns []api.Turn) bool {
	if sessionID != t.sessionID || t.phase != PhaseLoading {
		return false
	}
	t.messages = lo.FlatMap(turns, func(turn api.Turn, _ int) []Message {
		return []Message{
			{ID: t.newID(), Role: RoleUser, Content: turn.User},
			{ID: t.newID(), Role: RoleAssistant, Content: turn.Bot},
		}
	})
	t.phase = PhaseReady
	return true
}

// ApplyHistoryFailed leaves an empty, ready transcript for sessionID.
// Stale failures are discarded.
func (t *Transcript) ApplyHistoryFailed(sessionID string) bool {
	if sessionID != t.sessionID || t.phase != PhaseLoading {
		return false
	}
	t.messages = nil
	t.phase = PhaseReady
	return true
}

// BeginSend appends text as a user message and marks the assistant as
// composing. It returns false, changing nothing, when text is blank or
// sending is not enabled.
func (t *Transcript) BeginSend(text string) (PendingSend, bool) {
	if strings.TrimSpace(text) == "" || !t.CanSend() {
		return PendingSend{}, false
	}
	p := PendingSend{
		SessionID:    t.sessionID,
		Text:         text,
		FirstMessage: len(t.messages) == 0,
	}
	t.messages = append(t.messages, Message{ID: t.newID(), Role: RoleUser, Content: text})
	t.composing = true
	return p, true
}

// ApplyReply confirms a send by appending the assistant reply. It returns
// true when session titles may have changed on the server, which holds
// for a successful first message even if the user has since switched
// sessions.
func (t *Transcript) ApplyReply(p PendingSend, reply api.Turn) bool {
	if t.owns(p) {
		t.messages = append(t.messages, Message{ID: t.newID(), Role: RoleAssistant, Content: reply.Bot})
		t.composing = false
	}
	return p.FirstMessage
}

// ApplySendFailed compensates a failed send with the fallback reply.
func (t *Transcript) ApplySendFailed(p PendingSend) {
	if !t.owns(p) {
		return
	}
	t.messages = append(t.messages, Message{ID: t.newID(), Role: RoleAssistant, Content: FallbackReply, Fallback: true})
	t.composing = false
}

func (t *Transcript) owns(p PendingSend) bool {
	return p.SessionID == t.sessionID && t.composing
}
