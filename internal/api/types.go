package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Session is a chat session as listed by the backend.
type Session struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Turn is one stored (user, bot) exchange of a chat session.
type Turn struct {
	User string `json:"user"`
	Bot  string `json:"bot"`
}

// AnswerToken identifies the correct option of a question by its 1-based
// position. The backend sends it either as a JSON string or a number;
// both decode to the same textual form ("2" for 2, 2.0 and "2").
type AnswerToken string

func (t *AnswerToken) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*t = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = AnswerToken(s)
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("correct_answer: %w", err)
	}
	*t = AnswerToken(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// Question is a single multiple-choice quiz question.
type Question struct {
	Question      string      `json:"question"`
	Options       []string    `json:"options"`
	CorrectAnswer AnswerToken `json:"correct_answer"`
	Explanation   string      `json:"explanation"`
	Topic         string      `json:"topic"`
}

// QuizOutcome is the per-question result sent with a quiz submission.
type QuizOutcome struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	Correct    bool   `json:"correct"`
}

// QuizSubmission is the batch posted to /api/quiz/result when a run ends.
type QuizSubmission struct {
	UserID    string        `json:"user_id"`
	Timestamp string        `json:"timestamp"`
	Type      string        `json:"type"`
	Score     int           `json:"score"`
	Results   []QuizOutcome `json:"results"`
}

// TopicPerformance is the server summary for one topic.
type TopicPerformance struct {
	Topic   string
	Summary string
	// Details maps difficulty to a human-readable accuracy string.
	Details map[string]string
}

// PerformanceSnapshot is the server's performance analysis for a user.
// Topics keep the order in which the server listed them.
type PerformanceSnapshot struct {
	Message      string
	Topics       []TopicPerformance
	WeakestAreas []string
}

// Course is a learning resource recommendation.
type Course struct {
	Title           string   `json:"title"`
	URL             string   `json:"url"`
	Description     string   `json:"description"`
	TopicsCovered   []string `json:"topics_covered"`
	DifficultyLevel string   `json:"difficulty_level"`
	Duration        string   `json:"duration,omitempty"`
	Platform        string   `json:"platform,omitempty"`
	IsPaid          *bool    `json:"isPaid,omitempty"`
}

// Job is a job listing.
type Job struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	Type     string `json:"type"`
	URL      string `json:"url,omitempty"`
}

// Event is an upcoming community or learning event.
type Event struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}
