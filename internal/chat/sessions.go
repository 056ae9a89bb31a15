// Package chat holds the chat session list and the transcript of the
// active session. Both are plain state: callers perform the remote calls
// and feed results back in, so every transition happens on one goroutine.
package chat

import (
	"github.com/samber/lo"

	"github.com/abhisek/careercoach/internal/api"
)

// Result reports what a Sessions transition requires of its owner.
type Result struct {
	// ActiveChanged is set when the active session id differs from before
	// the transition. The owner must reset the transcript.
	ActiveChanged bool
	// NeedCreate is set when the list became empty and a session must be
	// created to restore the single-active-session rule.
	NeedCreate bool
	// NeedList is set when a listing was discarded because a create or
	// delete landed after it was requested. The owner must list again.
	NeedList bool
}

// Sessions is the known session list and the active session pointer.
// Once the list is non-empty exactly one session is active.
type Sessions struct {
	list     []api.Session
	activeID string
	loaded   bool
	creating bool
	deleting map[string]bool
	// gen counts confirmed creates and deletes. A listing requested at an
	// older gen predates them and is not applied.
	gen uint64
}

// NewSessions returns an empty, not yet loaded session list.
func NewSessions() *Sessions {
	return &Sessions{deleting: make(map[string]bool)}
}

// List returns a copy of the sessions in display order.
func (s *Sessions) List() []api.Session {
	return append([]api.Session(nil), s.list...)
}

// Len returns the number of known sessions.
func (s *Sessions) Len() int { return len(s.list) }

// Loaded reports whether a list response has been applied at least once.
func (s *Sessions) Loaded() bool { return s.loaded }

// ActiveID returns the active session id, or "" when none is active.
func (s *Sessions) ActiveID() string { return s.activeID }

// Active returns the active session.
func (s *Sessions) Active() (api.Session, bool) {
	return lo.Find(s.list, func(x api.Session) bool { return x.ID == s.activeID })
}

// Creating reports whether a create call is in flight.
func (s *Sessions) Creating() bool { return s.creating }

// Deleting reports whether a delete call for id is in flight.
func (s *Sessions) Deleting(id string) bool { return s.deleting[id] }

func (s *Sessions) indexOf(id string) int {
	_, idx, ok := lo.FindIndexOf(s.list, func(x api.Session) bool { return x.ID == id })
	if !ok {
		return -1
	}
	return idx
}

func (s *Sessions) setActive(id string) Result {
	changed := id != s.activeID
	s.activeID = id
	return Result{ActiveChanged: changed}
}

// repair re-establishes the active-session rule after the list changed.
func (s *Sessions) repair() Result {
	if s.activeID != "" && s.indexOf(s.activeID) >= 0 {
		return Result{}
	}
	if len(s.list) > 0 {
		return s.setActive(s.list[0].ID)
	}
	res := s.setActive("")
	res.NeedCreate = !s.creating
	return res
}

// BeginList returns the generation to pass to ApplyList with the
// response of a listing issued now.
func (s *Sessions) BeginList() uint64 { return s.gen }

// ApplyList replaces the list with a fresh server listing requested at
// gen. On first load the most recent session becomes active, or a create
// is requested when the listing is empty. Later listings keep the active
// session when it is still present. A listing requested before the last
// confirmed create or delete is dropped with NeedList set.
func (s *Sessions) ApplyList(gen uint64, list []api.Session) Result {
	if gen != s.gen {
		return Result{NeedList: true}
	}
	s.list = lo.UniqBy(list, func(x api.Session) string { return x.ID })
	s.loaded = true
	return s.repair()
}

// BeginCreate marks a create call as in flight. It returns false when one
// already is, so the caller must not issue another.
func (s *Sessions) BeginCreate() bool {
	if s.creating {
		return false
	}
	s.creating = true
	return true
}

// ApplyCreated prepends the new session and makes it active.
func (s *Sessions) ApplyCreated(sess api.Session) Result {
	s.creating = false
	s.loaded = true
	s.gen++
	s.list = append([]api.Session{sess}, lo.Reject(s.list, func(x api.Session, _ int) bool {
		return x.ID == sess.ID
	})...)
	return s.setActive(sess.ID)
}

// ApplyCreateFailed clears the in-flight create. The list is unchanged.
func (s *Sessions) ApplyCreateFailed() {
	s.creating = false
}

// BeginDelete marks a delete for id as in flight. Nothing is removed
// until the server confirms. It returns false for unknown ids or when a
// delete for id is already in flight.
func (s *Sessions) BeginDelete(id string) bool {
	if s.deleting[id] || s.indexOf(id) < 0 {
		return false
	}
	s.deleting[id] = true
	return true
}

// ApplyDeleted removes id after the server confirmed the delete. When id
// was active the first remaining session becomes active, or a create is
// requested if none remain.
func (s *Sessions) ApplyDeleted(id string) Result {
	delete(s.deleting, id)
	s.gen++
	s.list = lo.Reject(s.list, func(x api.Session, _ int) bool { return x.ID == id })
	return s.repair()
}

// ApplyDeleteFailed clears the in-flight delete and leaves the list as is.
func (s *Sessions) ApplyDeleteFailed(id string) {
	delete(s.deleting, id)
}

// Select makes id the active session. Unknown ids are ignored.
func (s *Sessions) Select(id string) Result {
	if s.indexOf(id) < 0 {
		return Result{}
	}
	return s.setActive(id)
}

// SelectOffset moves the active session by delta positions, clamped to
// the list bounds.
func (s *Sessions) SelectOffset(delta int) Result {
	if len(s.list) == 0 {
		return Result{}
	}
	idx := s.indexOf(s.activeID) + delta
	idx = max(0, min(idx, len(s.list)-1))
	return s.setActive(s.list[idx].ID)
}
