package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/news-trust/internal/domain"
	"github.com/DjordjeVuckovic/news-trust/internal/storage"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const foreignKeyViolation = "23503"

var articleColumns = []string{
	"id",
	"title",
	"content",
	"COALESCE(url, '')",
	"published_at",
	"trust_score",
	"COALESCE(score_explanation, '')",
	"source",
	"created_at",
	"updated_at",
}

type Storer struct {
	pool *ConnectionPool
	psql sq.StatementBuilderType
}

func NewStorer(pool *ConnectionPool) *Storer {
	return &Storer{
		pool: pool,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (s *Storer) InsertArticle(ctx context.Context, article domain.Article) (uuid.UUID, error) {
	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	if article.PublishedAt.IsZero() {
		article.PublishedAt = time.Now().UTC()
	}
	if !article.Source.Valid() {
		article.Source = domain.SourceManual
	}

	cmd := `
        INSERT INTO articles (id, title, content, url, published_at, trust_score, score_explanation, source)
        VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, NULLIF($7, ''), $8)
        RETURNING id;
    `
	var id uuid.UUID
	err := s.pool.withConn(ctx, func(c *pgxpool.Conn) error {
		return c.QueryRow(
			ctx,
			cmd,
			article.ID,
			article.Title,
			article.Content,
			article.URL,
			article.PublishedAt,
			domain.ClampScore(article.TrustScore),
			article.Explanation,
			string(article.Source),
		).Scan(&id)
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert article: %w", err)
	}

	return id, nil
}

func (s *Storer) UpdateArticleScore(ctx context.Context, id uuid.UUID, score int, explanation string) error {
	cmd := `
        UPDATE articles
        SET trust_score = $2, score_explanation = NULLIF($3, ''), updated_at = NOW()
        WHERE id = $1;
    `
	return s.pool.withConn(ctx, func(c *pgxpool.Conn) error {
		tag, err := c.Exec(ctx, cmd, id, domain.ClampScore(score), explanation)
		if err != nil {
			return fmt.Errorf("failed to update article score: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return storage.ErrArticleNotFound
		}
		return nil
	})
}

func (s *Storer) GetArticle(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	query, args, err := s.psql.Select(articleColumns...).From("articles").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build article query: %w", err)
	}

	var article domain.Article
	err = s.pool.withConn(ctx, func(c *pgxpool.Conn) error {
		return scanArticle(c.QueryRow(ctx, query, args...), &article)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrArticleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}

	return &article, nil
}

func (s *Storer) ListArticles(ctx context.Context, filter storage.ListFilter) ([]domain.Article, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = storage.DefaultListLimit
	}

	builder := s.psql.Select(articleColumns...).
		From("articles").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit))
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}
	if filter.MinScore != nil {
		builder = builder.Where(sq.GtOrEq{"trust_score": *filter.MinScore})
	}
	if filter.MaxScore != nil {
		builder = builder.Where(sq.LtOrEq{"trust_score": *filter.MaxScore})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	var articles []domain.Article
	err = s.pool.withConn(ctx, func(c *pgxpool.Conn) error {
		rows, err := c.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var a domain.Article
			if err := scanArticle(rows, &a); err != nil {
				return err
			}
			articles = append(articles, a)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	return articles, nil
}

// AddReport locks the article row so concurrent reports serialise and the
// stored score always matches the committed report count.
func (s *Storer) AddReport(ctx context.Context, report domain.Report) (int, error) {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}

	var count int
	err := s.pool.withTx(ctx, func(tx pgx.Tx) error {
		var locked uuid.UUID
		err := tx.QueryRow(ctx, `SELECT id FROM articles WHERE id = $1 FOR UPDATE`, report.ArticleID).Scan(&locked)
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.ErrArticleNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock article: %w", err)
		}

		_, err = tx.Exec(ctx, `
            INSERT INTO reports (id, article_id, user_id, reason)
            VALUES ($1, $2, $3, $4);
        `, report.ID, report.ArticleID, report.UserID, report.Reason)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return storage.ErrArticleNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to insert report: %w", err)
		}

		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM reports WHERE article_id = $1`, report.ArticleID).Scan(&count); err != nil {
			return fmt.Errorf("failed to count reports: %w", err)
		}

		_, err = tx.Exec(ctx, `
            UPDATE articles
            SET trust_score = $2, score_explanation = $3, updated_at = NOW()
            WHERE id = $1;
        `, report.ArticleID, domain.ReportDecayScore(count), domain.ReportDecayExplanation(count))
		if err != nil {
			return fmt.Errorf("failed to apply report decay: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (s *Storer) CountReports(ctx context.Context, articleID uuid.UUID) (int, error) {
	var count int
	err := s.pool.withConn(ctx, func(c *pgxpool.Conn) error {
		return c.QueryRow(ctx, `SELECT COUNT(*) FROM reports WHERE article_id = $1`, articleID).Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}

func scanArticle(row pgx.Row, a *domain.Article) error {
	var source string
	if err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Content,
		&a.URL,
		&a.PublishedAt,
		&a.TrustScore,
		&a.Explanation,
		&source,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return err
	}
	a.Source = domain.SourceTag(source)
	return nil
}

var _ storage.ArticleStore = (*Storer)(nil)
