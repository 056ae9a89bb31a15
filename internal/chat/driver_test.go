package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/careercoach/internal/api"
)

// fakeBackend is an in-memory SessionAPI. Sessions are kept most recent
// first; the first message retitles a session the way the server does.
type fakeBackend struct {
	sessions  []api.Session
	history   map[string][]api.Turn
	nextID    int
	failSend  bool
	failDel   bool
	listCalls int
}

func newFakeBackend(sessions ...api.Session) *fakeBackend {
	return &fakeBackend{sessions: sessions, history: map[string][]api.Turn{}}
}

func (f *fakeBackend) ListSessions(context.Context, string) ([]api.Session, error) {
	f.listCalls++
	return append([]api.Session(nil), f.sessions...), nil
}

func (f *fakeBackend) CreateSession(context.Context, string) (api.Session, error) {
	f.nextID++
	s := api.Session{ID: fmt.Sprintf("session_%d", f.nextID), Title: "New Chat"}
	f.sessions = append([]api.Session{s}, f.sessions...)
	return s, nil
}

func (f *fakeBackend) DeleteSession(_ context.Context, _, id string) error {
	if f.failDel {
		return errors.New("boom")
	}
	for i, s := range f.sessions {
		if s.ID == id {
			f.sessions = append(f.sessions[:i], f.sessions[i+1:]...)
			return nil
		}
	}
	return &api.StatusError{Op: api.OpDeleteSession, StatusCode: 404}
}

func (f *fakeBackend) History(_ context.Context, _, id string) ([]api.Turn, error) {
	return f.history[id], nil
}

func (f *fakeBackend) SendMessage(_ context.Context, _, id, text string) (api.Turn, error) {
	if f.failSend {
		return api.Turn{}, &api.TransportError{Op: api.OpSendMessage, Err: errors.New("connection refused")}
	}
	turn := api.Turn{User: text, Bot: "echo: " + text}
	if len(f.history[id]) == 0 {
		for i := range f.sessions {
			if f.sessions[i].ID == id {
				f.sessions[i].Title = text
			}
		}
	}
	f.history[id] = append(f.history[id], turn)
	return turn, nil
}

// Loading an empty list creates exactly one session, active and empty.
func TestDriver_BootstrapEmptyCreatesOne(t *testing.T) {
	backend := newFakeBackend()
	d := NewDriver(backend, "default_user", nil)

	require.NoError(t, d.Bootstrap(context.Background()))

	assert.Equal(t, 1, d.Sessions.Len())
	assert.Equal(t, "session_1", d.Sessions.ActiveID())
	assert.Equal(t, "session_1", d.Transcript.SessionID())
	assert.Equal(t, PhaseReady, d.Transcript.Phase())
	assert.Empty(t, d.Transcript.Messages())
}

func TestDriver_BootstrapLoadsMostRecentHistory(t *testing.T) {
	backend := newFakeBackend(api.Session{ID: "b", Title: "B"}, api.Session{ID: "a", Title: "A"})
	backend.history["b"] = []api.Turn{{User: "hi", Bot: "hello"}}
	backend.history["a"] = []api.Turn{{User: "other", Bot: "thread"}}
	d := NewDriver(backend, "u", nil)

	require.NoError(t, d.Bootstrap(context.Background()))
	assert.Equal(t, []string{"user:hi", "assistant:hello"}, contents(d.Transcript.Messages()))

	require.NoError(t, d.Select(context.Background(), "a"))
	assert.Equal(t, []string{"user:other", "assistant:thread"}, contents(d.Transcript.Messages()))
}

// Every deletion of the active session leaves exactly one active session.
func TestDriver_DeleteActiveUntilEmpty(t *testing.T) {
	backend := newFakeBackend(api.Session{ID: "c"}, api.Session{ID: "b"}, api.Session{ID: "a"})
	d := NewDriver(backend, "u", nil)
	ctx := context.Background()
	require.NoError(t, d.Bootstrap(ctx))

	for _, want := range []string{"b", "a", "session_1"} {
		require.NoError(t, d.Delete(ctx, d.Sessions.ActiveID()))
		assert.Equal(t, want, d.Sessions.ActiveID())
		assertSingleActive(t, d.Sessions)
		assert.Equal(t, want, d.Transcript.SessionID())
	}
	assert.Equal(t, 1, d.Sessions.Len())
}

func TestDriver_DeleteFailureIsFailClosed(t *testing.T) {
	backend := newFakeBackend(api.Session{ID: "b"}, api.Session{ID: "a"})
	backend.failDel = true
	d := NewDriver(backend, "u", nil)
	ctx := context.Background()
	require.NoError(t, d.Bootstrap(ctx))

	err := d.Delete(ctx, "b")
	require.Error(t, err)
	assert.Equal(t, 2, d.Sessions.Len())
	assert.Equal(t, "b", d.Sessions.ActiveID())
}

func TestDriver_FirstMessageRefreshesTitles(t *testing.T) {
	backend := newFakeBackend()
	d := NewDriver(backend, "u", nil)
	ctx := context.Background()
	require.NoError(t, d.Bootstrap(ctx))
	calls := backend.listCalls

	require.NoError(t, d.Send(ctx, "Which SQL course first?"))
	assert.Equal(t, calls+1, backend.listCalls)
	active, _ := d.Sessions.Active()
	assert.Equal(t, "Which SQL course first?", active.Title)
	// the refresh must not wipe the transcript of the same session
	assert.Len(t, d.Transcript.Messages(), 2)

	require.NoError(t, d.Send(ctx, "thanks"))
	assert.Equal(t, calls+1, backend.listCalls)
}

// A failed send shows the user's message followed by the fallback reply.
func TestDriver_SendFailureFallback(t *testing.T) {
	backend := newFakeBackend(api.Session{ID: "s"})
	backend.failSend = true
	d := NewDriver(backend, "u", nil)
	ctx := context.Background()
	require.NoError(t, d.Bootstrap(ctx))

	require.NoError(t, d.Send(ctx, "hello?"))
	assert.Equal(t, []string{"user:hello?", "assistant:" + FallbackReply}, contents(d.Transcript.Messages()))
	assert.True(t, d.Transcript.CanSend())
}

func TestDriver_SendBlankIsRefused(t *testing.T) {
	backend := newFakeBackend(api.Session{ID: "s"})
	d := NewDriver(backend, "u", nil)
	require.NoError(t, d.Bootstrap(context.Background()))
	assert.Error(t, d.Send(context.Background(), "  "))
	assert.Empty(t, d.Transcript.Messages())
}
