package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/DjordjeVuckovic/news-trust/internal/domain"
	"github.com/DjordjeVuckovic/news-trust/internal/queue"
	"github.com/DjordjeVuckovic/news-trust/internal/scoring"
	"github.com/DjordjeVuckovic/news-trust/internal/storage"
)

const defaultBackoff = time.Second

type Stats struct {
	Processed int64
	Failed    int64
}

// Worker is the single consumer of the scoring queue. A failing item is
// logged and skipped; only the shutdown sentinel or ctx ends Run.
type Worker struct {
	name    string
	queue   queue.Queue
	policy  scoring.Policy
	store   storage.ArticleStore
	backoff time.Duration

	processed atomic.Int64
	failed    atomic.Int64
}

type Option func(w *Worker)

func WithName(name string) Option {
	return func(w *Worker) {
		w.name = name
	}
}

// WithBackoff sets the pause after a transient Dequeue error.
func WithBackoff(d time.Duration) Option {
	return func(w *Worker) {
		w.backoff = d
	}
}

func New(q queue.Queue, policy scoring.Policy, store storage.ArticleStore, opts ...Option) *Worker {
	w := &Worker{
		name:    "scoring-worker",
		queue:   q,
		policy:  policy,
		store:   store,
		backoff: defaultBackoff,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Worker) Run(ctx context.Context) error {
	start := time.Now()
	slog.Info("Starting scoring worker", "worker", w.name)

	for {
		req, err := w.queue.Dequeue(ctx)
		if err != nil {
			switch {
			case errors.Is(err, queue.ErrShutdown):
				slog.Info("Shutdown sentinel received, stopping scoring worker",
					"worker", w.name,
					"processed", w.processed.Load(),
					"failed", w.failed.Load(),
					"uptime", time.Since(start),
				)
				return nil
			case ctx.Err() != nil:
				slog.Info("Worker context cancelled, stopping scoring worker",
					"worker", w.name,
					"processed", w.processed.Load(),
					"failed", w.failed.Load(),
				)
				return ctx.Err()
			}

			slog.Error("Error dequeuing scoring request", "worker", w.name, "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(w.backoff):
			}
			continue
		}

		if err := w.process(ctx, req); err != nil {
			w.failed.Add(1)
			slog.Error("Dropping scoring request",
				"worker", w.name,
				"article_id", req.ArticleID,
				"error", err,
			)
			continue
		}
		w.processed.Add(1)
	}
}

// process scores one request and writes the result back. Panics inside the
// policy or store are converted to errors so the loop keeps running.
func (w *Worker) process(ctx context.Context, req domain.ScoringRequest) (err error) {
	defer w.queue.Done()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while scoring: %v", r)
		}
	}()

	res, err := w.policy.Score(ctx, req.Text, req.URL)
	if err != nil {
		return fmt.Errorf("score article: %w", err)
	}

	if err := w.store.UpdateArticleScore(ctx, req.ArticleID, res.Score, res.Explanation); err != nil {
		return fmt.Errorf("persist score: %w", err)
	}

	slog.Debug("Article scored",
		"worker", w.name,
		"article_id", req.ArticleID,
		"trust_score", res.Score,
		"explanation", res.Explanation,
	)
	return nil
}

func (w *Worker) Stats() Stats {
	return Stats{
		Processed: w.processed.Load(),
		Failed:    w.failed.Load(),
	}
}
