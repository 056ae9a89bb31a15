// Package devserver is an in-memory implementation of the tutor backend's
// HTTP contract, for offline use and tests. Replies and questions come
// from canned data; nothing is persisted.
package devserver

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/abhisek/careercoach/internal/api"
)

const (
	newChatTitle = "New Chat"
	maxTitleLen  = 50

	weakThreshold   = 60.0
	minWeakQuestion = 3

	msgNoHistory = "No quiz history available for analysis."
	msgNoWeak    = "Great job! No significant weak areas identified."
	msgWeak      = "Based on your quiz history, here are some areas where you could improve:"
)

type chatSession struct {
	id      string
	title   string
	history []api.Turn
}

type profile struct {
	// sessions are kept most recent first
	sessions []*chatSession
	quizzes  []api.QuizSubmission
}

// Backend holds all users' state.
type Backend struct {
	mu       sync.Mutex
	users    map[string]*profile
	lastID   int64
	now      func() time.Time
	rng      *rand.Rand
	replyFor func(history []api.Turn, message string) string
}

// NewBackend returns an empty backend.
func NewBackend() *Backend {
	return &Backend{
		users:    make(map[string]*profile),
		now:      time.Now,
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		replyFor: cannedReply,
	}
}

func (b *Backend) profile(user string) *profile {
	p, ok := b.users[user]
	if !ok {
		p = &profile{}
		b.users[user] = p
	}
	return p
}

func (b *Backend) findSession(user, id string) *chatSession {
	s, _ := lo.Find(b.profile(user).sessions, func(s *chatSession) bool { return s.id == id })
	return s
}

// nextSessionID returns session_<unix seconds>, bumped past the last id
// when sessions are created within the same second.
func (b *Backend) nextSessionID() string {
	id := b.now().Unix()
	if id <= b.lastID {
		id = b.lastID + 1
	}
	b.lastID = id
	return fmt.Sprintf("session_%d", id)
}

// Sessions lists a user's sessions, most recent first.
func (b *Backend) Sessions(user string) []api.Session {
	b.mu.Lock()
	defer b.mu.Unlock()
	return lo.Map(b.profile(user).sessions, func(s *chatSession, _ int) api.Session {
		return api.Session{ID: s.id, Title: s.title}
	})
}

// CreateSession adds an empty session titled "New Chat".
func (b *Backend) CreateSession(user string) api.Session {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.profile(user)
	s := &chatSession{id: b.nextSessionID(), title: newChatTitle}
	p.sessions = append([]*chatSession{s}, p.sessions...)
	return api.Session{ID: s.id, Title: s.title}
}

// DeleteSession removes a session. Unknown ids are a no-op.
func (b *Backend) DeleteSession(user, id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.profile(user)
	p.sessions = slices.DeleteFunc(p.sessions, func(s *chatSession) bool { return s.id == id })
}

// History returns the turns of a session, or nil for unknown ids.
func (b *Backend) History(user, id string) []api.Turn {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s := b.findSession(user, id); s != nil {
		return slices.Clone(s.history)
	}
	return nil
}

// AddMessage stores a turn with a generated reply. The first message of a
// session becomes its title. It returns false for unknown sessions.
func (b *Backend) AddMessage(user, id, message string) (api.Turn, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.findSession(user, id)
	if s == nil {
		return api.Turn{}, false
	}
	turn := api.Turn{User: message, Bot: b.replyFor(s.history, message)}
	if len(s.history) == 0 {
		s.title = truncateRunes(message, maxTitleLen)
	}
	s.history = append(s.history, turn)
	return turn, true
}

// Question returns a canned question for topic. The random topic picks a
// concrete one first.
func (b *Backend) Question(topic string) (api.Question, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if topic == "random" {
		topic = questionTopics[b.rng.IntN(len(questionTopics))]
	}
	bank, ok := questionBank[topic]
	if !ok || len(bank) == 0 {
		return api.Question{}, fmt.Errorf("no questions for topic %q", topic)
	}
	q := bank[b.rng.IntN(len(bank))]
	q.Topic = topic
	q.Options = slices.Clone(q.Options)
	return q, nil
}

// AddQuizResult appends a submitted run to the user's history.
func (b *Backend) AddQuizResult(sub api.QuizSubmission) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.profile(sub.UserID)
	p.quizzes = append(p.quizzes, sub)
}

type tally struct {
	correct, total int
}

func (t tally) accuracy() float64 {
	return float64(t.correct) / float64(t.total) * 100
}

// Analysis is the wire form of a performance snapshot. Topics keep first
// appearance order in the quiz history.
type Analysis struct {
	Message      string
	Topics       []string
	ByTopic      map[string]TopicAnalysis
	WeakestAreas []string
}

// TopicAnalysis is one topic's summary and per-difficulty breakdown.
type TopicAnalysis struct {
	Summary string            `json:"summary"`
	Details map[string]string `json:"details"`
}

// Analyze summarises a user's quiz history. It returns false when the user
// has none.
func (b *Backend) Analyze(user string) (Analysis, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := b.profile(user)
	if len(p.quizzes) == 0 {
		return Analysis{}, false
	}

	var order []string
	perTopic := map[string]map[string]*tally{}
	diffOrder := map[string][]string{}
	for _, sub := range p.quizzes {
		for _, r := range sub.Results {
			if r.Topic == "" {
				continue
			}
			byDiff, ok := perTopic[r.Topic]
			if !ok {
				byDiff = map[string]*tally{}
				perTopic[r.Topic] = byDiff
				order = append(order, r.Topic)
			}
			t, ok := byDiff[r.Difficulty]
			if !ok {
				t = &tally{}
				byDiff[r.Difficulty] = t
				diffOrder[r.Topic] = append(diffOrder[r.Topic], r.Difficulty)
			}
			t.total++
			if r.Correct {
				t.correct++
			}
		}
	}
	if len(order) == 0 {
		return Analysis{}, false
	}

	type weak struct {
		topic    string
		accuracy float64
	}
	var weakAreas []weak

	a := Analysis{Topics: order, ByTopic: make(map[string]TopicAnalysis, len(order))}
	for _, topic := range order {
		var overall tally
		details := map[string]string{}
		for _, diff := range diffOrder[topic] {
			t := perTopic[topic][diff]
			overall.correct += t.correct
			overall.total += t.total
			details[diff] = fmt.Sprintf("%.1f%% (%d/%d)", t.accuracy(), t.correct, t.total)
		}
		acc := overall.accuracy()
		a.ByTopic[topic] = TopicAnalysis{
			Summary: fmt.Sprintf("%.1f%% overall (%d/%d)", acc, overall.correct, overall.total),
			Details: details,
		}
		if overall.total >= minWeakQuestion && acc < weakThreshold {
			weakAreas = append(weakAreas, weak{topic, acc})
		}
	}

	sort.SliceStable(weakAreas, func(i, j int) bool { return weakAreas[i].accuracy < weakAreas[j].accuracy })
	a.WeakestAreas = lo.Map(weakAreas, func(w weak, _ int) string { return w.topic })
	a.Message = lo.Ternary(len(weakAreas) == 0, msgNoWeak, msgWeak)
	return a, true
}

// Recommendations returns the generic courses covering the user's weak
// areas, or every course when none match. Users without weak areas get
// nothing.
func (b *Backend) Recommendations(user string) []api.Course {
	a, ok := b.Analyze(user)
	if !ok || len(a.WeakestAreas) == 0 {
		return []api.Course{}
	}
	matched := lo.Filter(genericCourses, func(c api.Course, _ int) bool {
		return lo.Some(c.TopicsCovered, a.WeakestAreas)
	})
	if len(matched) == 0 {
		return slices.Clone(genericCourses)
	}
	return matched
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
