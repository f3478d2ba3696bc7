package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, "memory", cfg.StorageType)
	assert.Equal(t, 30*time.Second, cfg.IdentifyTimeout)
	assert.Equal(t, 7*24*time.Hour, cfg.ResultTTL)
	assert.Equal(t, 256, cfg.SendBufferSize)
	assert.True(t, cfg.EnforceTurns)
	assert.True(t, cfg.UnknownMessageNotice)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("MINESBOOMER_HOST", "127.0.0.1")
	t.Setenv("MINESBOOMER_PORT", "9001")
	t.Setenv("MINESBOOMER_LOG_LEVEL", "debug")
	t.Setenv("STORAGE_TYPE", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("MINESBOOMER_IDENTIFY_TIMEOUT", "5s")
	t.Setenv("MINESBOOMER_ENFORCE_TURNS", "false")
	t.Setenv("MINESBOOMER_UNKNOWN_MESSAGE_NOTICE", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9001", cfg.Addr())
	assert.Equal(t, "redis", cfg.StorageType)
	assert.Equal(t, "redis://localhost:6379/1", cfg.RedisURL)
	assert.Equal(t, 5*time.Second, cfg.IdentifyTimeout)
	assert.False(t, cfg.EnforceTurns)
	assert.False(t, cfg.UnknownMessageNotice)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unparseable port", map[string]string{"MINESBOOMER_PORT": "http"}},
		{"port out of range", map[string]string{"MINESBOOMER_PORT": "70000"}},
		{"unknown storage", map[string]string{"STORAGE_TYPE": "postgres"}},
		{"redis without url", map[string]string{"STORAGE_TYPE": "redis"}},
		{"bad log level", map[string]string{"MINESBOOMER_LOG_LEVEL": "loud"}},
		{"negative timeout", map[string]string{"MINESBOOMER_IDENTIFY_TIMEOUT": "-1s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
