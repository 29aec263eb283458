package scoring

import (
	"context"

	"github.com/DjordjeVuckovic/news-trust/internal/classifier"
)

const (
	MarkerHeuristic = "heuristic_fallback"
	MarkerAIError   = "ai_error"
)

type Result struct {
	Score       int    `json:"trustScore"`
	Explanation string `json:"explanation"`
}

// Policy maps article text and an optional source URL to a trust score.
type Policy interface {
	Score(ctx context.Context, text, url string) (Result, error)
}

type PolicyFunc func(ctx context.Context, text, url string) (Result, error)

func (f PolicyFunc) Score(ctx context.Context, text, url string) (Result, error) {
	return f(ctx, text, url)
}

// NewPolicy selects the model-backed policy when a classifier is available,
// otherwise the heuristic one.
func NewPolicy(cfg Config, clf classifier.Classifier) Policy {
	cfg.normalize()
	if classifier.IsNop(clf) {
		return NewHeuristic(cfg)
	}
	return NewModel(cfg, clf)
}
