package api

import "context"

type contextKey string

const opKey contextKey = "api_op"

// Operation names attached to each request for logging and the journal.
const (
	OpListSessions    = "list_sessions"
	OpCreateSession   = "create_session"
	OpDeleteSession   = "delete_session"
	OpGetHistory      = "get_history"
	OpSendMessage     = "send_message"
	OpFetchQuestion   = "fetch_question"
	OpSubmitQuiz      = "submit_quiz"
	OpPerformance     = "performance"
	OpRecommendations = "recommendations"
	OpJobs            = "jobs"
	OpEvents          = "events"
)

// WithOp attaches an operation label to the context.
func WithOp(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, opKey, op)
}

// OpFrom extracts the operation label from the context.
func OpFrom(ctx context.Context) string {
	if v, ok := ctx.Value(opKey).(string); ok {
		return v
	}
	return "unknown"
}
