package factory

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/news-trust/internal/storage"
	"github.com/DjordjeVuckovic/news-trust/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/news-trust/internal/storage/pg"
	"github.com/DjordjeVuckovic/news-trust/pkg/server"
)

// Storage bundles an opened store with its health probe and release hook.
type Storage struct {
	Store   storage.ArticleStore
	Health  server.HealthChecker
	closeFn func()
}

func (s *Storage) Close() {
	if s.closeFn != nil {
		s.closeFn()
	}
}

// Open creates the storage.ArticleStore selected by cfg.Type.
func Open(ctx context.Context, cfg *StorageConfig) (*Storage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage config is required")
	}

	switch cfg.Type {
	case storage.PG:
		if cfg.Pg == nil {
			return nil, fmt.Errorf("invalid config for PostgreSQL storage: pool config is missing")
		}

		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}

		return &Storage{
			Store:   pg.NewStorer(pool),
			Health:  pg.NewHealthChecker(pool),
			closeFn: pool.Close,
		}, nil

	case storage.InMem:
		return &Storage{
			Store:  in_mem.NewInMemStorer(),
			Health: server.NewOkHealthChecker(),
		}, nil

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Type)
	}
}
