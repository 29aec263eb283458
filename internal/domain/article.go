package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	TitleMaxLength   = 255
	ContentMaxLength = 10000
	UserIDMaxLength  = 128
)

// SourceTag records how an article entered the system.
type SourceTag string

const (
	SourceManual SourceTag = "manual"
	SourceOnline SourceTag = "online"
)

func (s SourceTag) Valid() bool {
	return s == SourceManual || s == SourceOnline
}

type Article struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	URL         string    `json:"url,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	TrustScore  int       `json:"trustScore"`
	Explanation string    `json:"explanation,omitempty"`
	Source      SourceTag `json:"source"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Report struct {
	ID        uuid.UUID `json:"id"`
	ArticleID uuid.UUID `json:"articleId"`
	UserID    string    `json:"userId"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}

// ScoringRequest is the unit of work handed from ingestion to the scoring worker.
// It lives only in the queue and is never persisted by the article store.
type ScoringRequest struct {
	ArticleID uuid.UUID `json:"articleId"`
	Text      string    `json:"text"`
	URL       string    `json:"url,omitempty"`
}
