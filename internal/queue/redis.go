package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/news-trust/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultRedisKey  = "newstrust:queue:scoring"
	redisPollTimeout = 5 * time.Second
)

type redisMessage struct {
	Request  *domain.ScoringRequest `json:"request,omitempty"`
	Shutdown bool                   `json:"shutdown,omitempty"`
	// Owner identifies the queue instance that pushed a shutdown marker.
	Owner string `json:"owner,omitempty"`
}

// RedisQueue keeps pending requests in a Redis list (LPUSH / BRPOP), so they
// survive a restart of the process. A popped request is still delivered at
// most once. Shutdown markers are tagged with the instance that pushed them;
// a marker left behind by another process is discarded.
type RedisQueue struct {
	client      *redis.Client
	key         string
	instance    string
	pollTimeout time.Duration
}

func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisQueue{
		client:      client,
		key:         key,
		instance:    uuid.NewString(),
		pollTimeout: redisPollTimeout,
	}
}

func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func (q *RedisQueue) Enqueue(ctx context.Context, req domain.ScoringRequest) error {
	return q.push(ctx, redisMessage{Request: &req})
}

func (q *RedisQueue) Shutdown(ctx context.Context) error {
	return q.push(ctx, redisMessage{Shutdown: true, Owner: q.instance})
}

func (q *RedisQueue) push(ctx context.Context, msg redisMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal queue message: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("push to %s: %w", q.key, err)
	}
	return nil
}

func (q *RedisQueue) Dequeue(ctx context.Context) (domain.ScoringRequest, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.ScoringRequest{}, err
		}

		result, err := q.client.BRPop(ctx, q.pollTimeout, q.key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return domain.ScoringRequest{}, ctxErr
			}
			return domain.ScoringRequest{}, fmt.Errorf("pop from %s: %w", q.key, err)
		}

		var msg redisMessage
		if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
			return domain.ScoringRequest{}, fmt.Errorf("decode queue message: %w", err)
		}
		if msg.Shutdown {
			if msg.Owner != q.instance {
				slog.Warn("Discarding stale shutdown marker", "queue", q.key, "owner", msg.Owner)
				continue
			}
			return domain.ScoringRequest{}, ErrShutdown
		}
		if msg.Request == nil {
			return domain.ScoringRequest{}, errors.New("decode queue message: empty request")
		}
		return *msg.Request, nil
	}
}

func (q *RedisQueue) Done() {}

func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}

func (q *RedisQueue) Healthy(ctx context.Context) bool {
	return q.client.Ping(ctx).Err() == nil
}

func (q *RedisQueue) Close() error {
	return q.client.Close()
}

var _ Queue = (*RedisQueue)(nil)
