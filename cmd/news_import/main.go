package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DjordjeVuckovic/news-trust/internal/classifier"
	"github.com/DjordjeVuckovic/news-trust/internal/ingest"
	"github.com/DjordjeVuckovic/news-trust/internal/queue"
	"github.com/DjordjeVuckovic/news-trust/internal/scoring"
	"github.com/DjordjeVuckovic/news-trust/internal/storage/factory"
	"github.com/DjordjeVuckovic/news-trust/internal/trust"
	"github.com/DjordjeVuckovic/news-trust/internal/worker"
)

// news_import bulk-loads articles from a CSV file. With the in-memory queue
// the articles are scored here before exit; with redis they are left for the
// API's worker.
func main() {
	cfg, err := NewAppConfig().Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mapping, err := ingest.LoadColumnMappingFile(cfg.MappingConfigPath)
	if err != nil {
		slog.Error("failed to load column mapping", "error", err)
		os.Exit(1)
	}

	dataFile, err := os.Open(cfg.DatasetPath)
	if err != nil {
		slog.Error("failed to open dataset", "error", err, "path", cfg.DatasetPath)
		os.Exit(1)
	}
	defer dataFile.Close()

	store, err := factory.Open(ctx, &cfg.StorageConfig)
	if err != nil {
		slog.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	q, err := queue.New(ctx, &cfg.QueueConfig)
	if err != nil {
		slog.Error("failed to create scoring queue", "error", err)
		os.Exit(1)
	}
	defer q.Close()

	clf, err := classifier.New(&cfg.ClassifierConfig)
	if err != nil {
		slog.Error("failed to create classifier", "error", err)
		os.Exit(1)
	}

	policy := scoring.NewPolicy(cfg.ScoringConfig, clf)
	svc := trust.NewService(store.Store, q, policy, nil)

	pipeline := ingest.NewImportPipeline(ingest.NewCSVReader(dataFile), svc, ingest.WithMapping(mapping))
	summary, err := pipeline.Run(ctx)
	if err != nil {
		slog.Error("failed to run import pipeline", "error", err)
		os.Exit(1)
	}

	if cfg.QueueConfig.Type == queue.Redis {
		slog.Info("Import finished, scoring left to the API worker", "imported", summary.Imported)
		return
	}

	if err := svc.Shutdown(ctx); err != nil {
		slog.Error("failed to shut down scoring queue", "error", err)
		os.Exit(1)
	}
	w := worker.New(q, policy, store.Store, worker.WithName("import-worker"))
	if err := w.Run(ctx); err != nil {
		slog.Error("scoring worker stopped early", "error", err)
		os.Exit(1)
	}

	stats := w.Stats()
	slog.Info("Import finished",
		"imported", summary.Imported,
		"failed", summary.Failed,
		"scored", stats.Processed,
		"scoring_failed", stats.Failed,
	)
}
