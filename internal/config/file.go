package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// ErrConfigExists is returned by WriteFile when the target already exists
// and overwriting was not requested.
var ErrConfigExists = errors.New("config file already exists")

// FileConfig is the on-disk TOML representation of Config.
type FileConfig struct {
	API   FileAPI   `toml:"api"`
	User  FileUser  `toml:"user"`
	Store FileStore `toml:"store"`
	Log   FileLog   `toml:"log"`
	Quiz  FileQuiz  `toml:"quiz"`
}

type FileAPI struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
}

type FileUser struct {
	ID string `toml:"id"`
}

type FileStore struct {
	Path string `toml:"path"`
}

type FileLog struct {
	Path  string `toml:"path"`
	Level string `toml:"level"`
}

type FileQuiz struct {
	DefaultCount int `toml:"default_count"`
}

// ToFile converts c into its TOML form.
func (c Config) ToFile() FileConfig {
	return FileConfig{
		API:   FileAPI{BaseURL: c.API.BaseURL, Timeout: c.API.Timeout.String()},
		User:  FileUser{ID: c.User.ID},
		Store: FileStore{Path: c.Store.Path},
		Log:   FileLog{Path: c.Log.Path, Level: c.Log.Level},
		Quiz:  FileQuiz{DefaultCount: c.Quiz.DefaultCount},
	}
}

// Encode writes c as TOML to w.
func (c Config) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c.ToFile()); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// WriteFile writes c as TOML to path, creating parent directories.
func WriteFile(path string, c Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}
	if err := EnsureDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
