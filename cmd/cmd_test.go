package cmd

import (
	"bytes"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/careercoach/internal/api"
	"github.com/abhisek/careercoach/internal/devserver"
)

type harness struct {
	dir     string
	backend *devserver.Backend
	url     string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	backend := devserver.NewBackend()
	srv := httptest.NewServer(devserver.New(backend, nil).Handler())
	t.Cleanup(srv.Close)
	return &harness{dir: t.TempDir(), backend: backend, url: srv.URL}
}

// run executes the root command with the harness flags and returns stdout.
func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{
		"--config", filepath.Join(h.dir, "config.toml"),
		"--api", h.url,
		"--user", "ada",
		"--db", filepath.Join(h.dir, "journal.db"),
		"--log", filepath.Join(h.dir, "careercoach.log"),
	}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "careercoach")
}

func TestSessions_NewListDelete(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "sessions", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No chat sessions yet.")

	out, err = h.run(t, "sessions", "new")
	require.NoError(t, err)
	assert.Contains(t, out, "Created session_")

	sessions := h.backend.Sessions("ada")
	require.Len(t, sessions, 1)
	id := sessions[0].ID

	out, err = h.run(t, "sessions", "list")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "New Chat")

	// deleting the only session leaves a fresh one active
	out, err = h.run(t, "sessions", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted "+id)
	assert.Contains(t, out, "Active session: session_")

	remaining := h.backend.Sessions("ada")
	require.Len(t, remaining, 1)
	assert.NotEqual(t, id, remaining[0].ID)
}

func TestSessions_Show(t *testing.T) {
	h := newHarness(t)
	s := h.backend.CreateSession("ada")
	_, ok := h.backend.AddMessage("ada", s.ID, "How do I learn statistics?")
	require.True(t, ok)

	out, err := h.run(t, "sessions", "show", s.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "You: How do I learn statistics?")
	assert.Contains(t, out, "Coach: ")
}

func TestProgress(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "progress")
	require.NoError(t, err)
	assert.Contains(t, out, "No quiz data yet.")

	h.backend.AddQuizResult(api.QuizSubmission{
		UserID: "ada",
		Type:   "web_quiz",
		Results: []api.QuizOutcome{
			{Topic: "statistics", Difficulty: "easy", Correct: true},
			{Topic: "AI ethics", Difficulty: "easy", Correct: false},
		},
	})
	out, err = h.run(t, "progress")
	require.NoError(t, err)
	assert.Contains(t, out, "Strongest:  statistics (100.0%)")
	assert.Contains(t, out, "Needs work: AI ethics (0.0%)")
}

func TestRequestsAndHistory(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "sessions", "list")
	require.NoError(t, err)

	out, err := h.run(t, "requests", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "/api/chats/ada")

	out, err = h.run(t, "requests", "--failed")
	require.NoError(t, err)
	assert.Contains(t, out, "No requests found.")

	out, err = h.run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No quizzes yet.")
}

func TestConfigInitAndShow(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")

	_, err = h.run(t, "config", "init")
	assert.Error(t, err, "existing file needs --force")

	_, err = h.run(t, "config", "init", "--force")
	require.NoError(t, err)

	out, err = h.run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# read from")
	assert.Contains(t, out, h.url, "flags override the file")
}
