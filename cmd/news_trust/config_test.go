package main

import (
	"log/slog"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-trust/internal/queue"
	"github.com/DjordjeVuckovic/news-trust/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfig_Load(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("ENV_PATH", t.TempDir()+"/missing.env")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STORAGE_TYPE", "in_mem")
	t.Setenv("QUEUE_TYPE", "")
	t.Setenv("CLASSIFIER_ENABLED", "false")
	t.Setenv("SCORING_CONFIG_PATH", "")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("FETCH_USER_AGENT", "news-trust-test/1.0")

	cfg, err := NewAppConfig().Load()
	require.NoError(t, err)

	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, storage.InMem, cfg.StorageConfig.Type)
	assert.Equal(t, queue.Memory, cfg.QueueConfig.Type)
	assert.False(t, cfg.ClassifierConfig.Enabled)
	assert.Equal(t, 50, cfg.ScoringConfig.Baseline)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "news-trust-test/1.0", cfg.FetchUserAgent)
}

func TestAppConfig_Load_Invalid(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("ENV_PATH", t.TempDir()+"/missing.env")
	t.Setenv("STORAGE_TYPE", "in_mem")
	t.Setenv("QUEUE_TYPE", "")
	t.Setenv("CLASSIFIER_ENABLED", "false")
	t.Setenv("SCORING_CONFIG_PATH", "")

	t.Run("log level", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "verbose")
		t.Setenv("FETCH_TIMEOUT", "")

		_, err := NewAppConfig().Load()
		assert.Error(t, err)
	})

	t.Run("fetch timeout", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "")
		t.Setenv("FETCH_TIMEOUT", "soon")

		_, err := NewAppConfig().Load()
		assert.Error(t, err)
	})
}
