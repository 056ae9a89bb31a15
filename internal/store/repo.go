package store

import (
	"context"
	"time"
)

// QueryOpts configures journal queries with filtering and pagination.
type QueryOpts struct {
	Limit      int  // max results (0 = unlimited)
	FailedOnly bool // request queries only
}

// RequestEventData captures a single remote API call.
type RequestEventData struct {
	Op           string
	Method       string
	Path         string
	Status       int // 0 when the request never got a response
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// RequestEventRecord is a journalled RequestEventData.
type RequestEventRecord struct {
	Sequence  int64
	Timestamp time.Time
	RequestEventData
}

// QuizOutcomeData is one answered question of a quiz run.
type QuizOutcomeData struct {
	Topic      string
	Difficulty string
	Correct    bool
	Question   string
}

// QuizRunData captures a finished quiz run as the learner saw it.
type QuizRunData struct {
	RunID         string
	UserID        string
	Topic         string
	QuestionCount int
	Score         int
	Submitted     bool
	StartedAt     time.Time
	FinishedAt    time.Time
	Outcomes      []QuizOutcomeData
}

// QuizRunRecord is a journalled QuizRunData.
type QuizRunRecord struct {
	Sequence int64
	QuizRunData
}

// EventRepo provides append and query access to the local journal.
type EventRepo interface {
	// AppendRequest records a remote API call.
	AppendRequest(ctx context.Context, data RequestEventData) error

	// AppendQuizRun records a finished quiz run with its outcomes.
	AppendQuizRun(ctx context.Context, data QuizRunData) error

	// QueryRequests returns recorded API calls, newest first.
	QueryRequests(ctx context.Context, opts QueryOpts) ([]RequestEventRecord, error)

	// QueryQuizRuns returns recorded quiz runs with outcomes, newest first.
	QueryQuizRuns(ctx context.Context, opts QueryOpts) ([]QuizRunRecord, error)
}
