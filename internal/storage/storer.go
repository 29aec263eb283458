package storage

import (
	"context"

	"github.com/DjordjeVuckovic/news-trust/internal/domain"
	"github.com/google/uuid"
)

// ListFilter narrows ListArticles. Bounds are inclusive; nil means unbounded.
type ListFilter struct {
	MinScore *int
	MaxScore *int
	Limit    int
	Offset   int
}

// ArticleStore owns persisted articles and reports.
type ArticleStore interface {
	InsertArticle(ctx context.Context, article domain.Article) (uuid.UUID, error)
	// UpdateArticleScore overwrites score and explanation; the last write wins.
	UpdateArticleScore(ctx context.Context, id uuid.UUID, score int, explanation string) error
	GetArticle(ctx context.Context, id uuid.UUID) (*domain.Article, error)
	ListArticles(ctx context.Context, filter ListFilter) ([]domain.Article, error)

	// AddReport files the report and rewrites the article score from the new
	// report count in one atomic step. It returns that count.
	AddReport(ctx context.Context, report domain.Report) (int, error)
	// CountReports returns every report ever filed against the article.
	CountReports(ctx context.Context, articleID uuid.UUID) (int, error)
}

type Type string

const (
	PG    Type = "pg"
	InMem Type = "in_mem"
)

const DefaultListLimit = 100

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported storer type: %s"
	ErrArticleNotFound   StorerError = "article not found"
)

func (e StorerError) Error() string {
	return string(e)
}
