package chat

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/careercoach/internal/api"
)

// SessionAPI is the subset of the backend client the chat core needs.
type SessionAPI interface {
	ListSessions(ctx context.Context, user string) ([]api.Session, error)
	CreateSession(ctx context.Context, user string) (api.Session, error)
	DeleteSession(ctx context.Context, user, id string) error
	History(ctx context.Context, user, id string) ([]api.Turn, error)
	SendMessage(ctx context.Context, user, id, text string) (api.Turn, error)
}

// Driver runs the session and transcript transitions synchronously
// against a SessionAPI. The TUI issues the same calls as commands; the
// CLI subcommands use Driver directly.
type Driver struct {
	api        SessionAPI
	user       string
	logger     *zap.Logger
	Sessions   *Sessions
	Transcript *Transcript
}

// NewDriver returns a Driver for user. logger may be nil.
func NewDriver(a SessionAPI, user string, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{
		api:        a,
		user:       user,
		logger:     logger,
		Sessions:   NewSessions(),
		Transcript: NewTranscript(),
	}
}

// Bootstrap loads the session list, activates the most recent session
// and loads its history. An empty list creates a first session.
func (d *Driver) Bootstrap(ctx context.Context) error {
	return d.Refresh(ctx)
}

// Refresh re-fetches the session list. The active session is kept when
// it is still listed.
func (d *Driver) Refresh(ctx context.Context) error {
	gen := d.Sessions.BeginList()
	list, err := d.api.ListSessions(ctx, d.user)
	if err != nil {
		d.logger.Warn("list sessions failed", zap.Error(err))
		return fmt.Errorf("list sessions: %w", err)
	}
	return d.settle(ctx, d.Sessions.ApplyList(gen, list))
}

// Create makes a new session and activates it.
func (d *Driver) Create(ctx context.Context) (api.Session, error) {
	if !d.Sessions.BeginCreate() {
		return api.Session{}, fmt.Errorf("create session: already in progress")
	}
	sess, err := d.api.CreateSession(ctx, d.user)
	if err != nil {
		d.Sessions.ApplyCreateFailed()
		d.logger.Warn("create session failed", zap.Error(err))
		return api.Session{}, fmt.Errorf("create session: %w", err)
	}
	return sess, d.settle(ctx, d.Sessions.ApplyCreated(sess))
}

// Delete removes id once the server confirms. On failure the list is
// left untouched.
func (d *Driver) Delete(ctx context.Context, id string) error {
	if !d.Sessions.BeginDelete(id) {
		return fmt.Errorf("delete session %s: unknown or already deleting", id)
	}
	if err := d.api.DeleteSession(ctx, d.user, id); err != nil {
		d.Sessions.ApplyDeleteFailed(id)
		d.logger.Warn("delete session failed", zap.String("session", id), zap.Error(err))
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return d.settle(ctx, d.Sessions.ApplyDeleted(id))
}

// Select activates id and loads its history.
func (d *Driver) Select(ctx context.Context, id string) error {
	return d.settle(ctx, d.Sessions.Select(id))
}

// Send posts text to the active session. Transport failures are absorbed
// into the transcript as the fallback reply; only a blank or disallowed
// send reports an error.
func (d *Driver) Send(ctx context.Context, text string) error {
	p, ok := d.Transcript.BeginSend(text)
	if !ok {
		return fmt.Errorf("send: not ready")
	}
	turn, err := d.api.SendMessage(ctx, d.user, p.SessionID, p.Text)
	if err != nil {
		d.logger.Warn("send message failed", zap.String("session", p.SessionID), zap.Error(err))
		d.Transcript.ApplySendFailed(p)
		return nil
	}
	if d.Transcript.ApplyReply(p, turn) {
		// titles are derived server-side from the first message
		if err := d.Refresh(ctx); err != nil {
			d.logger.Debug("title refresh failed", zap.Error(err))
		}
	}
	return nil
}

// settle applies a Sessions result: listing again after a stale listing,
// creating a session when required and reloading the transcript when the
// active session changed.
func (d *Driver) settle(ctx context.Context, res Result) error {
	if res.NeedList {
		return d.Refresh(ctx)
	}
	if res.NeedCreate {
		_, err := d.Create(ctx)
		return err
	}
	if res.ActiveChanged || d.Transcript.SessionID() != d.Sessions.ActiveID() {
		d.loadHistory(ctx)
	}
	return nil
}

func (d *Driver) loadHistory(ctx context.Context) {
	id := d.Sessions.ActiveID()
	if !d.Transcript.Switch(id) {
		return
	}
	turns, err := d.api.History(ctx, d.user, id)
	if err != nil {
		d.logger.Warn("load history failed", zap.String("session", id), zap.Error(err))
		d.Transcript.ApplyHistoryFailed(id)
		return
	}
	d.Transcript.ApplyHistory(id, turns)
}
