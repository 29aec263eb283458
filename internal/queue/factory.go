package queue

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

type Config struct {
	Type     Type
	RedisURL string
	RedisKey string
}

func LoadEnv() (*Config, error) {
	queueType := Type(os.Getenv("QUEUE_TYPE"))
	if queueType == "" {
		queueType = Memory
	}
	if queueType != Memory && queueType != Redis {
		return nil, fmt.Errorf(
			"invalid QUEUE_TYPE environment variable value: %s, expected one of %v",
			queueType,
			[]Type{Memory, Redis})
	}

	cfg := &Config{
		Type:     queueType,
		RedisURL: os.Getenv("REDIS_URL"),
		RedisKey: os.Getenv("REDIS_QUEUE_KEY"),
	}
	if queueType == Redis && cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL environment variable is not set")
	}

	return cfg, nil
}

// New creates the scoring queue selected by cfg.
func New(ctx context.Context, cfg *Config) (Queue, error) {
	if cfg == nil {
		cfg = &Config{Type: Memory}
	}

	switch cfg.Type {
	case Memory, "":
		slog.Info("Using in-memory scoring queue")
		return NewMemoryQueue(), nil
	case Redis:
		client, err := ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		slog.Info("Using redis scoring queue", "key", cfg.RedisKey)
		return NewRedisQueue(client, cfg.RedisKey), nil
	default:
		return nil, fmt.Errorf("unsupported queue type: %s", cfg.Type)
	}
}
