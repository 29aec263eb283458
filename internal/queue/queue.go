package queue

import (
	"context"
	"errors"

	"github.com/DjordjeVuckovic/news-trust/internal/domain"
)

// ErrShutdown is returned by Dequeue once the shutdown sentinel is consumed.
var ErrShutdown = errors.New("queue shut down")

// Queue carries scoring requests from many producers to a single consumer.
//
// Delivery is at-most-once: a request taken by Dequeue is never redelivered.
type Queue interface {
	// Enqueue never blocks on the consumer.
	Enqueue(ctx context.Context, req domain.ScoringRequest) error
	// Dequeue blocks until a request is available, ctx is done, or the
	// shutdown sentinel is reached.
	Dequeue(ctx context.Context) (domain.ScoringRequest, error)
	// Done marks a dequeued request as fully processed.
	Done()
	// Shutdown pushes the sentinel. Requests enqueued after it are never delivered.
	Shutdown(ctx context.Context) error
	Close() error
}

type Type string

const (
	Memory Type = "memory"
	Redis  Type = "redis"
)
