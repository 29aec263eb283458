package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/news-trust/internal/classifier"
	"github.com/DjordjeVuckovic/news-trust/internal/queue"
	"github.com/DjordjeVuckovic/news-trust/internal/scoring"
	"github.com/DjordjeVuckovic/news-trust/internal/storage/factory"
	"github.com/DjordjeVuckovic/news-trust/pkg/config/env"
)

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type AppConfig struct {
	ENV string
}

type NewsImportConfig struct {
	DatasetPath       string
	MappingConfigPath string
	StorageConfig     factory.StorageConfig
	QueueConfig       queue.Config
	ClassifierConfig  classifier.Config
	ScoringConfig     scoring.Config
}

func (as *AppConfig) Load() (*NewsImportConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/news_import/.env")
	if err != nil {
		slog.Info("Skipping .env environment variables...", "error", err)
	}

	dsPath := os.Getenv("DATASET_PATH")
	if dsPath == "" {
		slog.Error("DATASET_PATH environment variable is not set")
		return nil, fmt.Errorf("DATASET_PATH environment variable is not set")
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

	return &NewsImportConfig{
		DatasetPath:       dsPath,
		MappingConfigPath: os.Getenv("MAPPING_CONFIG_PATH"),
		StorageConfig:     *storageCfg,
		QueueConfig:       *queueCfg,
		ClassifierConfig:  *classifierCfg,
		ScoringConfig:     scoringCfg,
	}, nil
}
