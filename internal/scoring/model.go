package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/DjordjeVuckovic/news-trust/internal/classifier"
	"github.com/DjordjeVuckovic/news-trust/internal/domain"
	"github.com/DjordjeVuckovic/news-trust/pkg/utils"
)

// Model delegates scoring to an external classifier and falls back to the
// heuristic whenever the classifier errors, panics or times out.
// Score never returns an error.
type Model struct {
	cfg        Config
	classifier classifier.Classifier
	fallback   *Heuristic
}

func NewModel(cfg Config, clf classifier.Classifier) *Model {
	cfg.normalize()
	return &Model{
		cfg:        cfg,
		classifier: clf,
		fallback:   NewHeuristic(cfg),
	}
}

func (m *Model) Score(ctx context.Context, text, rawURL string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return m.fallback.Evaluate(text, rawURL), nil
	}

	pred, err := m.classify(ctx, utils.Truncate(text, m.cfg.Model.PrefixLength))
	if errors.Is(err, classifier.ErrDisabled) {
		return m.fallback.Evaluate(text, rawURL), nil
	}
	if err != nil {
		slog.Warn("Classifier failed, using heuristic", "error", err)
		res := m.fallback.Evaluate(text, rawURL)
		res.Explanation += "; " + MarkerAIError
		return res, nil
	}

	return m.fromPrediction(pred), nil
}

func (m *Model) fromPrediction(pred classifier.Prediction) Result {
	confidence := math.Max(0, math.Min(1, pred.Confidence))

	var raw float64
	if m.isTrustedLabel(pred.Label) {
		raw = 65 + confidence*35
	} else {
		raw = 35 - confidence*20
	}

	return Result{
		Score:       domain.ClampScore(int(math.Round(raw))),
		Explanation: fmt.Sprintf("model_label=%s confidence=%.2f", pred.Label, confidence),
	}
}

func (m *Model) isTrustedLabel(label string) bool {
	label = strings.ToLower(strings.TrimSpace(label))
	for _, l := range m.cfg.Model.TrustedLabels {
		if label == l {
			return true
		}
	}
	return false
}

type prediction struct {
	pred classifier.Prediction
	err  error
}

// classify bounds the call by the configured timeout even when the classifier
// ignores its context.
func (m *Model) classify(ctx context.Context, text string) (classifier.Prediction, error) {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.Model.Timeout)
	defer cancel()

	done := make(chan prediction, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- prediction{err: fmt.Errorf("classifier panic: %v", r)}
			}
		}()
		pred, err := m.classifier.Classify(ctx, text)
		done <- prediction{pred: pred, err: err}
	}()

	select {
	case res := <-done:
		return res.pred, res.err
	case <-ctx.Done():
		return classifier.Prediction{}, fmt.Errorf("classify: %w", ctx.Err())
	}
}
