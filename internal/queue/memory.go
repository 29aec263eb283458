package queue

import (
	"context"
	"sync"

	"github.com/DjordjeVuckovic/news-trust/internal/domain"
)

type item struct {
	req      domain.ScoringRequest
	sentinel bool
}

// MemoryQueue is an unbounded in-process FIFO. Nothing is persisted, so
// pending requests are lost when the process exits.
type MemoryQueue struct {
	mu      sync.Mutex
	items   []item
	notify  chan struct{}
	stopped bool

	unfinished int
	idle       []chan struct{}
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{
		notify: make(chan struct{}, 1),
	}
}

func (q *MemoryQueue) Enqueue(_ context.Context, req domain.ScoringRequest) error {
	q.push(item{req: req})
	return nil
}

func (q *MemoryQueue) Shutdown(_ context.Context) error {
	q.push(item{sentinel: true})
	return nil
}

func (q *MemoryQueue) push(it item) {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items, it)
	if !it.sentinel {
		q.unfinished++
	}
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

func (q *MemoryQueue) Dequeue(ctx context.Context) (domain.ScoringRequest, error) {
	for {
		q.mu.Lock()
		if q.stopped {
			q.mu.Unlock()
			return domain.ScoringRequest{}, ErrShutdown
		}
		if len(q.items) > 0 {
			it := q.items[0]
			q.items[0] = item{}
			q.items = q.items[1:]
			if it.sentinel {
				q.stopped = true
				q.dropPendingLocked()
			}
			q.mu.Unlock()

			if it.sentinel {
				return domain.ScoringRequest{}, ErrShutdown
			}
			return it.req, nil
		}
		q.mu.Unlock()

		select {
		case <-q.notify:
		case <-ctx.Done():
			return domain.ScoringRequest{}, ctx.Err()
		}
	}
}

// dropPendingLocked discards requests queued behind the sentinel so Wait
// does not block on work that will never run.
func (q *MemoryQueue) dropPendingLocked() {
	for _, it := range q.items {
		if !it.sentinel {
			q.unfinished--
		}
	}
	q.items = nil
	q.releaseIdleLocked()
}

func (q *MemoryQueue) Done() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.unfinished > 0 {
		q.unfinished--
	}
	q.releaseIdleLocked()
}

func (q *MemoryQueue) releaseIdleLocked() {
	if q.unfinished > 0 {
		return
	}
	for _, ch := range q.idle {
		close(ch)
	}
	q.idle = nil
}

// Wait blocks until every enqueued request has been marked Done.
func (q *MemoryQueue) Wait(ctx context.Context) error {
	q.mu.Lock()
	if q.unfinished == 0 {
		q.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	q.idle = append(q.idle, ch)
	q.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *MemoryQueue) Close() error {
	return nil
}

var _ Queue = (*MemoryQueue)(nil)
