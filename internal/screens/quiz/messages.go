package quiz

import (
	"github.com/abhisek/careercoach/internal/api"
	quizstate "github.com/abhisek/careercoach/internal/quiz"
)

// questionMsg carries the fetch result for Ticket.
type questionMsg struct {
	Ticket   quizstate.Ticket
	Question api.Question
	Err      error
}

// submittedMsg reports the end-of-run submission for RunID. JournalErr is
// the outcome of recording the run locally.
type submittedMsg struct {
	RunID      string
	Err        error
	JournalErr error
}
