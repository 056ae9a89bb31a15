package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/careercoach/internal/config"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, err := New(config.LogConfig{Path: path, Level: "info"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("quiz submitted")
	logger.Debug("hidden at info level")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "quiz submitted") {
		t.Errorf("log file missing info entry: %q", data)
	}
	if strings.Contains(string(data), "hidden at info level") {
		t.Errorf("debug entry written at info level: %q", data)
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
