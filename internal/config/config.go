package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultFeedURL is the published question spreadsheet, served as CSV.
const DefaultFeedURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vSKOTdOabg8YkThCV3pmIJjUNapPu_3WRoVsXSKPG4JMiH8jEvzQy-N-C8Badz20zMsua0Ni6fk8Dt7/pub?output=csv"

// Config holds application configuration.
type Config struct {
	// DBPath is the SQLite database file. Empty resolves to the XDG data dir.
	DBPath string

	// LogPath is the log file. The terminal UI owns stdout, so logs never
	// go there. Empty resolves to the XDG state dir.
	LogPath string

	// LogLevel is a logrus level name. Default: info.
	LogLevel string

	// FeedURL is the remote CSV question feed. Empty disables fetching.
	FeedURL string

	// FeedTimeout bounds a single feed fetch. Default: 15s.
	FeedTimeout time.Duration

	// QuestionCount is the default number of questions per practice run.
	QuestionCount int

	// SnapshotKeep is how many question bank snapshots are retained.
	SnapshotKeep int

	// ServeAddr is the listen address for the worksheet server.
	ServeAddr string
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		LogLevel:      "info",
		FeedURL:       DefaultFeedURL,
		FeedTimeout:   15 * time.Second,
		QuestionCount: 5,
		SnapshotKeep:  5,
		ServeAddr:     "127.0.0.1:8765",
	}
}

// FromEnv builds a Config from environment variables, falling back to
// defaults for unset values.
func FromEnv() Config {
	cfg := Default()

	if p := os.Getenv("ADDMATH_DB"); p != "" {
		cfg.DBPath = p
	}
	if p := os.Getenv("ADDMATH_LOG"); p != "" {
		cfg.LogPath = p
	}
	if l := os.Getenv("ADDMATH_LOG_LEVEL"); l != "" {
		cfg.LogLevel = l
	}
	if u, ok := os.LookupEnv("ADDMATH_FEED_URL"); ok {
		cfg.FeedURL = u
	}
	if d := os.Getenv("ADDMATH_FEED_TIMEOUT"); d != "" {
		if v, err := time.ParseDuration(d); err == nil {
			cfg.FeedTimeout = v
		}
	}
	if n := os.Getenv("ADDMATH_QUESTION_COUNT"); n != "" {
		if v, err := strconv.Atoi(n); err == nil {
			cfg.QuestionCount = v
		}
	}
	if a := os.Getenv("ADDMATH_SERVE_ADDR"); a != "" {
		cfg.ServeAddr = a
	}

	return cfg
}

// Validate checks the configuration for values that cannot work.
func (c Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("ADDMATH_LOG_LEVEL: %w", err)
	}
	if c.FeedTimeout <= 0 {
		return fmt.Errorf("ADDMATH_FEED_TIMEOUT must be positive, got %s", c.FeedTimeout)
	}
	if c.QuestionCount < 1 {
		return fmt.Errorf("ADDMATH_QUESTION_COUNT must be at least 1, got %d", c.QuestionCount)
	}
	if c.SnapshotKeep < 1 {
		return fmt.Errorf("snapshot keep must be at least 1, got %d", c.SnapshotKeep)
	}
	return nil
}

// DefaultLogPath resolves the log file location:
// 1. $XDG_STATE_HOME/addmath/addmath.log
// 2. ~/.local/state/addmath/addmath.log
func DefaultLogPath() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "addmath", "addmath.log"), nil
}
