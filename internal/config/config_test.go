package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 5, cfg.QuestionCount)
	assert.Equal(t, DefaultFeedURL, cfg.FeedURL)
	require.NoError(t, cfg.Validate())
}

func TestFromEnv(t *testing.T) {
	t.Setenv("ADDMATH_DB", "/tmp/q.db")
	t.Setenv("ADDMATH_LOG_LEVEL", "debug")
	t.Setenv("ADDMATH_FEED_URL", "")
	t.Setenv("ADDMATH_FEED_TIMEOUT", "3s")
	t.Setenv("ADDMATH_QUESTION_COUNT", "12")

	cfg := FromEnv()
	assert.Equal(t, "/tmp/q.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Empty(t, cfg.FeedURL, "an empty feed URL disables fetching")
	assert.Equal(t, 3*time.Second, cfg.FeedTimeout)
	assert.Equal(t, 12, cfg.QuestionCount)
}

func TestFromEnv_IgnoresMalformed(t *testing.T) {
	t.Setenv("ADDMATH_FEED_TIMEOUT", "soon")
	t.Setenv("ADDMATH_QUESTION_COUNT", "many")

	cfg := FromEnv()
	assert.Equal(t, 15*time.Second, cfg.FeedTimeout)
	assert.Equal(t, 5, cfg.QuestionCount)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
		{"zero timeout", func(c *Config) { c.FeedTimeout = 0 }},
		{"zero count", func(c *Config) { c.QuestionCount = 0 }},
		{"zero keep", func(c *Config) { c.SnapshotKeep = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDefaultLogPath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/var/state")
	p, err := DefaultLogPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/var/state", "addmath", "addmath.log"), p)
}
