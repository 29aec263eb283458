package classifier

import (
	"context"
	"errors"
)

// ErrDisabled is returned by a classifier that was not configured at startup.
var ErrDisabled = errors.New("classifier disabled")

type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"score"`
}

// Classifier labels a piece of text as trustworthy or not.
type Classifier interface {
	Classify(ctx context.Context, text string) (Prediction, error)
}

// Nop stands in for an absent classification capability.
type Nop struct{}

func (Nop) Classify(context.Context, string) (Prediction, error) {
	return Prediction{}, ErrDisabled
}

// IsNop reports whether c is nil or the disabled stand-in.
func IsNop(c Classifier) bool {
	if c == nil {
		return true
	}
	switch c.(type) {
	case Nop, *Nop:
		return true
	}
	return false
}
