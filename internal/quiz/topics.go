package quiz

import (
	"errors"
	"fmt"
	"slices"
)

// Fixed quiz parameters.
const (
	// Difficulty is the only tier the client asks for.
	Difficulty = "easy"

	// RandomTopic asks the backend to pick a concrete topic per question.
	RandomTopic = "random"

	// SubmissionType tags submitted batches.
	SubmissionType = "web_quiz"

	DefaultCount = 5
	MinCount     = 1
	MaxCount     = 50
)

// Topics are the selectable quiz topics in display order. RandomTopic is
// last.
var Topics = []string{
	"data science",
	"machine learning",
	"deep learning",
	"statistics",
	"data engineering",
	"AI ethics",
	RandomTopic,
}

var (
	ErrInvalidCount = fmt.Errorf("question count must be between %d and %d", MinCount, MaxCount)
	ErrInvalidTopic = errors.New("unknown quiz topic")
	ErrRunActive    = errors.New("a quiz run is already in progress")
)

// IsTopic reports whether t is a selectable topic, including RandomTopic.
func IsTopic(t string) bool {
	return slices.Contains(Topics, t)
}

// ConcreteTopics returns the topics without the random sentinel.
func ConcreteTopics() []string {
	return slices.DeleteFunc(slices.Clone(Topics), func(t string) bool { return t == RandomTopic })
}

// Config is the user's choice for one run. It is fixed once the run
// starts.
type Config struct {
	Count int
	Topic string
}

// DefaultConfig returns the form defaults: a random mix of DefaultCount
// questions.
func DefaultConfig() Config {
	return Config{Count: DefaultCount, Topic: RandomTopic}
}

// Validate checks the count bounds and the topic.
func (c Config) Validate() error {
	if c.Count < MinCount || c.Count > MaxCount {
		return ErrInvalidCount
	}
	if !IsTopic(c.Topic) {
		return fmt.Errorf("%w: %q", ErrInvalidTopic, c.Topic)
	}
	return nil
}

// ClampCount bounds n to the allowed question count range.
func ClampCount(n int) int {
	return max(MinCount, min(n, MaxCount))
}
