package scoring

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/DjordjeVuckovic/news-trust/internal/domain"
)

// Heuristic scores text from its length, suspicious vocabulary and source domain.
// It is deterministic and needs no external service.
type Heuristic struct {
	cfg Config
}

func NewHeuristic(cfg Config) *Heuristic {
	cfg.normalize()
	return &Heuristic{cfg: cfg}
}

func (h *Heuristic) Score(_ context.Context, text, rawURL string) (Result, error) {
	return h.Evaluate(text, rawURL), nil
}

func (h *Heuristic) Evaluate(text, rawURL string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{
			Score:       domain.ClampScore(h.cfg.EmptyTextScore),
			Explanation: explain([]string{"empty_text"}),
		}
	}

	score := h.cfg.Baseline
	var reasons []string

	length := utf8.RuneCountInString(text)
	switch {
	case length < h.cfg.ShortTextLength:
		score -= h.cfg.ShortTextPenalty
		reasons = append(reasons, "short_text")
	case length > h.cfg.LongTextLength:
		score -= h.cfg.LongTextPenalty
		reasons = append(reasons, "long_text")
	}

	if matched := h.matchKeywords(text); len(matched) > 0 {
		score -= h.cfg.KeywordPenalty * len(matched)
		reasons = append(reasons, "keywords="+strings.Join(matched, ","))
	}

	if host := hostOf(rawURL); host != "" {
		if containsAny(host, h.cfg.TrustedDomains) {
			score += h.cfg.TrustedDomainBonus
			reasons = append(reasons, "trusted_domain="+host)
		}
		if containsAny(host, h.cfg.UntrustedDomains) {
			score -= h.cfg.UntrustedDomainPenalty
			reasons = append(reasons, "untrusted_domain="+host)
		}
	}

	return Result{
		Score:       domain.ClampScore(score),
		Explanation: explain(reasons),
	}
}

func (h *Heuristic) matchKeywords(text string) []string {
	lower := strings.ToLower(text)

	var matched []string
	for _, kw := range h.cfg.SuspiciousKeywords {
		if strings.Contains(lower, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

func explain(reasons []string) string {
	return strings.Join(append(reasons, MarkerHeuristic), "; ")
}

// hostOf returns the lower-cased host of rawURL, tolerating a missing scheme.
func hostOf(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "http://" + rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func containsAny(host string, entries []string) bool {
	for _, e := range entries {
		if strings.Contains(host, e) {
			return true
		}
	}
	return false
}

func (r Result) String() string {
	return fmt.Sprintf("%d (%s)", r.Score, r.Explanation)
}
