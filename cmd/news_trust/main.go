// Package main News Trust API
//
// Ingests news articles, scores their trustworthiness in the background and
// lets readers report misleading ones.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/DjordjeVuckovic/news-trust/internal/classifier"
	"github.com/DjordjeVuckovic/news-trust/internal/fetch"
	"github.com/DjordjeVuckovic/news-trust/internal/queue"
	"github.com/DjordjeVuckovic/news-trust/internal/router"
	"github.com/DjordjeVuckovic/news-trust/internal/scoring"
	"github.com/DjordjeVuckovic/news-trust/internal/server"
	"github.com/DjordjeVuckovic/news-trust/internal/storage/factory"
	"github.com/DjordjeVuckovic/news-trust/internal/trust"
	"github.com/DjordjeVuckovic/news-trust/internal/worker"
	pkgserver "github.com/DjordjeVuckovic/news-trust/pkg/server"
	"github.com/labstack/echo/v4"
)

const workerDrainTimeout = 15 * time.Second

func main() {
	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}
	slog.SetLogLoggerLevel(cfg.LogLevel)

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load server config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	store, err := factory.Open(ctx, &cfg.StorageConfig)
	if err != nil {
		slog.Error("Failed to open storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	q, err := queue.New(ctx, &cfg.QueueConfig)
	if err != nil {
		slog.Error("Failed to create scoring queue", "error", err)
		os.Exit(1)
	}
	defer q.Close()

	clf, err := classifier.New(&cfg.ClassifierConfig)
	if err != nil {
		slog.Error("Failed to create classifier", "error", err)
		os.Exit(1)
	}
	if classifier.IsNop(clf) {
		slog.Info("Classifier disabled, using heuristic scoring only")
	} else {
		slog.Info("Classifier enabled", "model", cfg.ClassifierConfig.Model)
	}

	policy := scoring.NewPolicy(cfg.ScoringConfig, clf)
	fetcher := fetch.NewHTTPFetcher(
		fetch.WithTimeout(cfg.FetchTimeout),
		fetch.WithUserAgent(cfg.FetchUserAgent),
	)
	svc := trust.NewService(store.Store, q, policy, fetcher)

	health := []pkgserver.HealthChecker{store.Health}
	if hc, ok := q.(pkgserver.HealthChecker); ok {
		health = append(health, hc)
	}

	s := server.New(sCfg, pkgserver.NewCompositeHealthChecker(health...)).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks()

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "News Trust API is running")
	})

	router.NewArticleRouter(s.Echo, svc).Bind()

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	w := worker.New(q, policy, store.Store)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		err := w.Run(workerCtx)
		if s.Context().Err() == nil {
			slog.Error("Scoring worker stopped before shutdown, stopping server", "error", err)
			s.Stop()
			return
		}
		if err != nil {
			slog.Warn("Scoring worker stopped", "error", err)
		}
	}()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
		if err := svc.Shutdown(ctx); err != nil {
			slog.Error("Failed to signal scoring worker", "error", err)
			cancelWorker()
		}
	}()

	if err := s.Start(); err != nil {
		slog.Error("Failed to start server", "error", err)
	}

	select {
	case <-workerDone:
	case <-time.After(workerDrainTimeout):
		slog.Warn("Scoring worker did not stop in time, cancelling")
		cancelWorker()
		<-workerDone
	}

	stats := w.Stats()
	slog.Info("News Trust API stopped", "scored", stats.Processed, "failed", stats.Failed)
}
