package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/DjordjeVuckovic/news-trust/internal/classifier"
	"github.com/DjordjeVuckovic/news-trust/internal/queue"
	"github.com/DjordjeVuckovic/news-trust/internal/scoring"
	"github.com/DjordjeVuckovic/news-trust/internal/storage/factory"
	"github.com/DjordjeVuckovic/news-trust/pkg/config/env"
)

const defaultFetchTimeout = 10 * time.Second

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type NewsTrustConfig struct {
	LogLevel         slog.Level
	StorageConfig    factory.StorageConfig
	QueueConfig      queue.Config
	ClassifierConfig classifier.Config
	ScoringConfig    scoring.Config
	FetchTimeout     time.Duration
	FetchUserAgent   string
}

func (as *AppConfig) Load() (*NewsTrustConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/news_trust/.env")
	if err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	logLevel, err := parseLogLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return nil, err
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	queueCfg, err := queue.LoadEnv()
	if err != nil {
		slog.Error("Failed to load queue configuration from environment", "error", err)
		return nil, err
	}

	classifierCfg, err := classifier.LoadConfigFromEnv()
	if err != nil {
		slog.Error("Failed to load classifier configuration from environment", "error", err)
		return nil, err
	}

	scoringCfg, err := scoring.LoadConfigFile(os.Getenv("SCORING_CONFIG_PATH"))
	if err != nil {
		slog.Error("Failed to load scoring configuration", "error", err)
		return nil, err
	}

	fetchTimeout := defaultFetchTimeout
	if raw := os.Getenv("FETCH_TIMEOUT"); raw != "" {
		fetchTimeout, err = time.ParseDuration(raw)
		if err != nil || fetchTimeout <= 0 {
			return nil, fmt.Errorf("invalid FETCH_TIMEOUT value: %q", raw)
		}
	}

	return &NewsTrustConfig{
		LogLevel:         logLevel,
		StorageConfig:    *storageCfg,
		QueueConfig:      *queueCfg,
		ClassifierConfig: *classifierCfg,
		ScoringConfig:    scoringCfg,
		FetchTimeout:     fetchTimeout,
		FetchUserAgent:   os.Getenv("FETCH_USER_AGENT"),
	}, nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	if raw == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL value: %q", raw)
	}
	return level, nil
}
