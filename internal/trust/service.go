package trust

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/news-trust/internal/apperr"
	"github.com/DjordjeVuckovic/news-trust/internal/domain"
	"github.com/DjordjeVuckovic/news-trust/internal/fetch"
	"github.com/DjordjeVuckovic/news-trust/internal/queue"
	"github.com/DjordjeVuckovic/news-trust/internal/scoring"
	"github.com/DjordjeVuckovic/news-trust/internal/storage"
	"github.com/DjordjeVuckovic/news-trust/pkg/pagination"
	"github.com/google/uuid"
)

// SafeThreshold splits listings: scores at or above it are "safe".
const SafeThreshold = 60

const publishDateLayout = time.DateOnly

// Service is the entry point for ingestion, reporting and scoring.
type Service struct {
	store   storage.ArticleStore
	queue   queue.Queue
	policy  scoring.Policy
	fetcher fetch.Fetcher
	now     func() time.Time
}

type Option func(s *Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(store storage.ArticleStore, q queue.Queue, policy scoring.Policy, fetcher fetch.Fetcher, opts ...Option) *Service {
	s := &Service{
		store:   store,
		queue:   q,
		policy:  policy,
		fetcher: fetcher,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type Submission struct {
	Title   string
	Content string
	URL     string
	// PublishDate is YYYY-MM-DD; empty means today.
	PublishDate string
}

// SubmitArticle stores the article with the provisional score and queues it
// for scoring.
func (s *Service) SubmitArticle(ctx context.Context, sub Submission) (uuid.UUID, error) {
	article, err := s.newManualArticle(sub)
	if err != nil {
		return uuid.Nil, err
	}
	return s.ingest(ctx, article)
}

// SubmitOnlineArticle fetches rawURL and ingests the extracted page. A failed
// fetch still creates the article with placeholder title and content.
func (s *Service) SubmitOnlineArticle(ctx context.Context, rawURL string) (uuid.UUID, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return uuid.Nil, apperr.NewValidation("url is required")
	}

	page := s.fetcher.Fetch(ctx, rawURL)
	if page.Degraded {
		slog.Warn("Ingesting degraded online article", "url", rawURL)
	}

	return s.ingest(ctx, domain.Article{
		Title:       page.Title,
		Content:     page.Content,
		URL:         page.CanonicalURL,
		PublishedAt: s.today(),
		TrustScore:  domain.ProvisionalScore,
		Source:      domain.SourceOnline,
	})
}

func (s *Service) ingest(ctx context.Context, article domain.Article) (uuid.UUID, error) {
	id, err := s.store.InsertArticle(ctx, article)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save article: %w", err)
	}

	req := domain.ScoringRequest{ArticleID: id, Text: article.Content, URL: article.URL}
	if err := s.queue.Enqueue(ctx, req); err != nil {
		// the article stays at the provisional score; RecomputeNow can repair it
		slog.Error("Failed to enqueue scoring request", "article_id", id, "error", err)
	}

	slog.Info("Article submitted", "article_id", id, "source", article.Source)
	return id, nil
}

// SubmitReport records a report and rescores the article from its report
// count alone, overwriting whatever score it had.
func (s *Service) SubmitReport(ctx context.Context, articleID uuid.UUID, userID, reason string) (int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, apperr.NewValidation("user_id is required")
	}
	if n := len([]rune(userID)); n > domain.UserIDMaxLength {
		return 0, apperr.NewValidation(
			fmt.Sprintf("user_id must be at most %d characters, got %d", domain.UserIDMaxLength, n))
	}

	count, err := s.store.AddReport(ctx, domain.Report{
		ArticleID: articleID,
		UserID:    userID,
		Reason:    strings.TrimSpace(reason),
	})
	if err != nil {
		return 0, mapStoreErr(err, articleID)
	}
	score := domain.ReportDecayScore(count)

	slog.Info("Report submitted", "article_id", articleID, "reports", count, "trust_score", score)
	return score, nil
}

// RecomputeNow scores the stored article synchronously, bypassing the queue.
func (s *Service) RecomputeNow(ctx context.Context, articleID uuid.UUID) (scoring.Result, error) {
	article, err := s.store.GetArticle(ctx, articleID)
	if err != nil {
		return scoring.Result{}, mapStoreErr(err, articleID)
	}

	res, err := s.policy.Score(ctx, article.Content, article.URL)
	if err != nil {
		return scoring.Result{}, fmt.Errorf("failed to score article %s: %w", articleID, err)
	}

	if err := s.store.UpdateArticleScore(ctx, articleID, res.Score, res.Explanation); err != nil {
		return scoring.Result{}, mapStoreErr(err, articleID)
	}
	return res, nil
}

func (s *Service) Get(ctx context.Context, articleID uuid.UUID) (*domain.Article, error) {
	article, err := s.store.GetArticle(ctx, articleID)
	if err != nil {
		return nil, mapStoreErr(err, articleID)
	}
	return article, nil
}

type ListQuery struct {
	MinScore *int
	MaxScore *int
	Page     pagination.OffsetRequest
}

type Listing struct {
	Safe  []domain.Article `json:"safe"`
	Risky []domain.Article `json:"risky"`
	Page  pagination.OffsetRequest
}

// List returns stored articles split at SafeThreshold, newest first.
func (s *Service) List(ctx context.Context, q ListQuery) (Listing, error) {
	if q.MinScore != nil && q.MaxScore != nil && *q.MinScore > *q.MaxScore {
		return Listing{}, apperr.NewValidation("min_score must not exceed max_score")
	}
	q.Page.Normalize()

	articles, err := s.store.ListArticles(ctx, storage.ListFilter{
		MinScore: q.MinScore,
		MaxScore: q.MaxScore,
		Limit:    q.Page.Size,
		Offset:   q.Page.Offset(),
	})
	if err != nil {
		return Listing{}, fmt.Errorf("failed to list articles: %w", err)
	}

	listing := Listing{Safe: []domain.Article{}, Risky: []domain.Article{}, Page: q.Page}
	for _, a := range articles {
		if a.TrustScore >= SafeThreshold {
			listing.Safe = append(listing.Safe, a)
		} else {
			listing.Risky = append(listing.Risky, a)
		}
	}
	return listing, nil
}

type CheckResult struct {
	Page   fetch.Page
	Result scoring.Result
}

// CheckOnline fetches and scores a page without storing anything.
func (s *Service) CheckOnline(ctx context.Context, rawURL string) (CheckResult, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return CheckResult{}, apperr.NewValidation("url is required")
	}

	page := s.fetcher.Fetch(ctx, rawURL)
	res, err := s.policy.Score(ctx, page.Content, page.CanonicalURL)
	if err != nil {
		return CheckResult{}, fmt.Errorf("failed to score %s: %w", rawURL, err)
	}
	return CheckResult{Page: page, Result: res}, nil
}

// Shutdown pushes the queue sentinel; the worker stops once it reaches it.
func (s *Service) Shutdown(ctx context.Context) error {
	if err := s.queue.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down scoring queue: %w", err)
	}
	return nil
}

func (s *Service) newManualArticle(sub Submission) (domain.Article, error) {
	title := strings.TrimSpace(sub.Title)
	content := strings.TrimSpace(sub.Content)

	if title == "" {
		return domain.Article{}, apperr.NewValidation("title is required")
	}
	if content == "" {
		return domain.Article{}, apperr.NewValidation("content is required")
	}
	if n := len([]rune(title)); n > domain.TitleMaxLength {
		return domain.Article{}, apperr.NewValidation(
			fmt.Sprintf("title must be at most %d characters, got %d", domain.TitleMaxLength, n))
	}
	if n := len([]rune(content)); n > domain.ContentMaxLength {
		return domain.Article{}, apperr.NewValidation(
			fmt.Sprintf("content must be at most %d characters, got %d", domain.ContentMaxLength, n))
	}

	published := s.today()
	if raw := strings.TrimSpace(sub.PublishDate); raw != "" {
		t, err := time.Parse(publishDateLayout, raw)
		if err != nil {
			return domain.Article{}, apperr.NewValidationWrap("publish_date must be YYYY-MM-DD", err)
		}
		published = t
	}

	return domain.Article{
		Title:       title,
		Content:     content,
		URL:         strings.TrimSpace(sub.URL),
		PublishedAt: published,
		TrustScore:  domain.ProvisionalScore,
		Source:      domain.SourceManual,
	}, nil
}

func (s *Service) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mapStoreErr(err error, id uuid.UUID) error {
	if errors.Is(err, storage.ErrArticleNotFound) {
		return apperr.NewNotFound("article", id.String())
	}
	return err
}
