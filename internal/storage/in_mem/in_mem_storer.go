package in_mem

import (
	"bytes"
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/news-trust/internal/domain"
	"github.com/DjordjeVuckovic/news-trust/internal/storage"
	"github.com/google/uuid"
)

type InMemStorer struct {
	storageLock sync.RWMutex
	articles    map[uuid.UUID]domain.Article
	reports     map[uuid.UUID][]domain.Report
}

func NewInMemStorer() *InMemStorer {
	return &InMemStorer{
		articles: make(map[uuid.UUID]domain.Article),
		reports:  make(map[uuid.UUID][]domain.Report),
	}
}

func (s *InMemStorer) InsertArticle(ctx context.Context, article domain.Article) (uuid.UUID, error) {
	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	now := time.Now().UTC()
	if article.CreatedAt.IsZero() {
		article.CreatedAt = now
	}
	article.UpdatedAt = now
	article.TrustScore = domain.ClampScore(article.TrustScore)

	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	s.articles[article.ID] = article
	slog.Debug("Saving article to in-memory storage", "title", article.Title, "id", article.ID)
	return article.ID, nil
}

func (s *InMemStorer) UpdateArticleScore(ctx context.Context, id uuid.UUID, score int, explanation string) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	article, ok := s.articles[id]
	if !ok {
		return storage.ErrArticleNotFound
	}
	article.TrustScore = domain.ClampScore(score)
	article.Explanation = explanation
	article.UpdatedAt = time.Now().UTC()
	s.articles[id] = article
	return nil
}

func (s *InMemStorer) GetArticle(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	article, ok := s.articles[id]
	if !ok {
		return nil, storage.ErrArticleNotFound
	}
	return &article, nil
}

func (s *InMemStorer) ListArticles(ctx context.Context, filter storage.ListFilter) ([]domain.Article, error) {
	s.storageLock.RLock()
	result := make([]domain.Article, 0, len(s.articles))
	for _, a := range s.articles {
		if filter.MinScore != nil && a.TrustScore < *filter.MinScore {
			continue
		}
		if filter.MaxScore != nil && a.TrustScore > *filter.MaxScore {
			continue
		}
		result = append(result, a)
	}
	s.storageLock.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return bytes.Compare(result[i].ID[:], result[j].ID[:]) > 0
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []domain.Article{}, nil
		}
		result = result[filter.Offset:]
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = storage.DefaultListLimit
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *InMemStorer) AddReport(ctx context.Context, report domain.Report) (int, error) {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	now := time.Now().UTC()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}

	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	article, ok := s.articles[report.ArticleID]
	if !ok {
		return 0, storage.ErrArticleNotFound
	}
	s.reports[report.ArticleID] = append(s.reports[report.ArticleID], report)

	count := len(s.reports[report.ArticleID])
	article.TrustScore = domain.ReportDecayScore(count)
	article.Explanation = domain.ReportDecayExplanation(count)
	article.UpdatedAt = now
	s.articles[report.ArticleID] = article
	return count, nil
}

func (s *InMemStorer) CountReports(ctx context.Context, articleID uuid.UUID) (int, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	if _, ok := s.articles[articleID]; !ok {
		return 0, storage.ErrArticleNotFound
	}
	return len(s.reports[articleID]), nil
}

var _ storage.ArticleStore = (*InMemStorer)(nil)
