// Package config loads careercoach settings from flags, environment,
// an optional .env file and an optional TOML config file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultBaseURL    = "http://127.0.0.1:8000"
	DefaultUserID     = "default_user"
	DefaultQuizCount  = 5
	MaxQuizCount      = 50
	envPrefix         = "CAREERCOACH"
	defaultLogLevel   = "info"
	defaultDebugLevel = "debug"
	defaultConfigType = "toml"
	defaultAPITimeout = time.Duration(0)
)

var (
	ErrInvalidBaseURL = errors.New("api.base_url must be an absolute http(s) URL")
	ErrEmptyUser      = errors.New("user.id must not be empty")
	ErrQuizCount      = fmt.Errorf("quiz.default_count must be between 1 and %d", MaxQuizCount)
)

// Config holds the effective application configuration.
type Config struct {
	API   APIConfig   `mapstructure:"api"`
	User  UserConfig  `mapstructure:"user"`
	Store StoreConfig `mapstructure:"store"`
	Log   LogConfig   `mapstructure:"log"`
	Quiz  QuizConfig  `mapstructure:"quiz"`

	// Path is the config file that was read, empty if none was found.
	Path string `mapstructure:"-"`
}

// APIConfig describes how to reach the tutor backend.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// Timeout bounds a single request. Zero leaves requests unbounded.
	Timeout time.Duration `mapstructure:"timeout"`
}

type UserConfig struct {
	ID string `mapstructure:"id"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

type QuizConfig struct {
	DefaultCount int `mapstructure:"default_count"`
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// ConfigPath overrides the default config file location.
	ConfigPath string
	// Flags, when set, are bound to their config keys. Only flags the
	// user actually changed take precedence over env and file values.
	Flags *pflag.FlagSet
	// EnvFile is loaded into the process environment before reading
	// env vars. A missing file is ignored.
	EnvFile string
}

// flagKeys maps persistent CLI flag names to config keys.
var flagKeys = map[string]string{
	"api":   "api.base_url",
	"user":  "user.id",
	"db":    "store.path",
	"log":   "log.path",
	"debug": "log.debug",
}

// Load reads configuration with precedence flag > env > file > defaults.
func Load(opts LoadOptions) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetConfigType(defaultConfigType)
	if opts.ConfigPath != "" {
		v.SetConfigFile(opts.ConfigPath)
	} else {
		v.SetConfigFile(DefaultConfigPath())
	}

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for name, key := range flagKeys {
			f := opts.Flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag --%s: %w", name, err)
			}
		}
	}

	var path string
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		path = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Path = path

	if v.GetBool("log.debug") {
		cfg.Log.Level = defaultDebugLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.timeout", defaultAPITimeout)
	v.SetDefault("user.id", DefaultUserID)
	v.SetDefault("store.path", DefaultDBPath())
	v.SetDefault("log.path", DefaultLogPath())
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.debug", false)
	v.SetDefault("quiz.default_count", DefaultQuizCount)
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		API:   APIConfig{BaseURL: DefaultBaseURL, Timeout: defaultAPITimeout},
		User:  UserConfig{ID: DefaultUserID},
		Store: StoreConfig{Path: DefaultDBPath()},
		Log:   LogConfig{Path: DefaultLogPath(), Level: defaultLogLevel},
		Quiz:  QuizConfig{DefaultCount: DefaultQuizCount},
	}
}

// Validate checks the values that the rest of the app relies on.
func (c Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.API.BaseURL)
	}
	if strings.TrimSpace(c.User.ID) == "" {
		return ErrEmptyUser
	}
	if c.Quiz.DefaultCount < 1 || c.Quiz.DefaultCount > MaxQuizCount {
		return fmt.Errorf("%w: got %d", ErrQuizCount, c.Quiz.DefaultCount)
	}
	return nil
}
