package dto

import (
	"time"

	"github.com/DjordjeVuckovic/news-trust/internal/domain"
	"github.com/DjordjeVuckovic/news-trust/internal/trust"
	"github.com/google/uuid"
)

type SubmitArticleRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	URL         string `json:"url,omitempty"`
	PublishDate string `json:"publish_date,omitempty"` // YYYY-MM-DD
}

func (r SubmitArticleRequest) ToSubmission() trust.Submission {
	return trust.Submission{
		Title:       r.Title,
		Content:     r.Content,
		URL:         r.URL,
		PublishDate: r.PublishDate,
	}
}

type URLRequest struct {
	URL string `json:"url"`
}

type ReportRequest struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

type SubmittedResponse struct {
	ID uuid.UUID `json:"id"`
}

type ScoreResponse struct {
	TrustScore  int    `json:"trust_score"`
	Explanation string `json:"explanation,omitempty"`
}

type CheckResponse struct {
	Title        string `json:"title"`
	CanonicalURL string `json:"canonical_url"`
	TrustScore   int    `json:"trust_score"`
	Explanation  string `json:"explanation"`
	Degraded     bool   `json:"degraded,omitempty"`
}

func NewCheckResponse(res trust.CheckResult) CheckResponse {
	return CheckResponse{
		Title:        res.Page.Title,
		CanonicalURL: res.Page.CanonicalURL,
		TrustScore:   res.Result.Score,
		Explanation:  res.Result.Explanation,
		Degraded:     res.Page.Degraded,
	}
}

type Article struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	URL         string    `json:"url,omitempty"`
	PublishDate string    `json:"publish_date"`
	TrustScore  int       `json:"trust_score"`
	Explanation string    `json:"explanation,omitempty"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewArticle(a domain.Article) Article {
	return Article{
		ID:          a.ID,
		Title:       a.Title,
		Content:     a.Content,
		URL:         a.URL,
		PublishDate: a.PublishedAt.Format(time.DateOnly),
		TrustScore:  a.TrustScore,
		Explanation: a.Explanation,
		Source:      string(a.Source),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

type ArticleListResponse struct {
	Safe      []Article `json:"safe"`
	Risky     []Article `json:"risky"`
	Threshold int       `json:"threshold"`
	Page      int       `json:"page"`
	Size      int       `json:"size"`
}

func NewArticleListResponse(l trust.Listing) ArticleListResponse {
	resp := ArticleListResponse{
		Safe:      make([]Article, 0, len(l.Safe)),
		Risky:     make([]Article, 0, len(l.Risky)),
		Threshold: trust.SafeThreshold,
		Page:      l.Page.Page,
		Size:      l.Page.Size,
	}
	for _, a := range l.Safe {
		resp.Safe = append(resp.Safe, NewArticle(a))
	}
	for _, a := range l.Risky {
		resp.Risky = append(resp.Risky, NewArticle(a))
	}
	return resp
}
