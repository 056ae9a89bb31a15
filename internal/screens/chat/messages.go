package chat

import (
	"github.com/abhisek/careercoach/internal/api"
	chatstate "github.com/abhisek/careercoach/internal/chat"
)

// sessionsLoadedMsg carries a session listing requested at Gen.
type sessionsLoadedMsg struct {
	Gen      uint64
	Sessions []api.Session
	Err      error
}

// sessionCreatedMsg is sent when a create call returns.
type sessionCreatedMsg struct {
	Session api.Session
	Err     error
}

// sessionDeletedMsg is sent when a delete call for ID returns.
type sessionDeletedMsg struct {
	ID  string
	Err error
}

// historyLoadedMsg carries the history of SessionID. It is discarded when
// the transcript has moved on to another session.
type historyLoadedMsg struct {
	SessionID string
	Turns     []api.Turn
	Err       error
}

// replyMsg is the outcome of a send.
type replyMsg struct {
	Pending chatstate.PendingSend
	Turn    api.Turn
	Err     error
}
