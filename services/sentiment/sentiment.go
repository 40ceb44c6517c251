// Package sentiment wraps an external text-classification model. Callers pick
// the failure policy: Analyze surfaces errors, AnalyzeOrNeutral falls back to
// a neutral result.
package sentiment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
)

// MaxInputChars is the prefix length handed to the model. Longer text is
// truncated, not rejected.
const MaxInputChars = 512

const NeutralLabel = "neutral"

var ErrClassification = errors.New("sentiment classification failed")

// Prediction is the raw top label/score pair returned by a backend.
type Prediction struct {
	Label string
	Score float64
}

type Backend interface {
	Name() string
	Predict(ctx context.Context, text string) (Prediction, error)
}

type Result struct {
	Label      string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

func Neutral() Result {
	return Result{Label: NeutralLabel, Confidence: 0}
}

type Analyzer struct {
	backend Backend
	logger  *zap.Logger
}

func NewAnalyzer(backend Backend, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{backend: backend, logger: logger.Named("sentiment")}
}

// Analyze classifies text and returns an error wrapping ErrClassification when
// the backend fails or answers with something that is not a label and a
// probability.
func (a *Analyzer) Analyze(ctx context.Context, text string) (Result, error) {
	input := Truncate(text, MaxInputChars)

	prediction, err := a.backend.Predict(ctx, input)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", ErrClassification, a.backend.Name(), err)
	}

	label := strings.ToLower(strings.TrimSpace(prediction.Label))
	if label == "" {
		return Result{}, fmt.Errorf("%w: %s returned an empty label", ErrClassification, a.backend.Name())
	}
	if math.IsNaN(prediction.Score) || prediction.Score < 0 || prediction.Score > 1 {
		return Result{}, fmt.Errorf("%w: %s returned score %v outside [0,1]", ErrClassification, a.backend.Name(), prediction.Score)
	}

	a.logger.Debug("classified text",
		zap.String("backend", a.backend.Name()),
		zap.Int("chars", len([]rune(input))),
		zap.String("label", label),
		zap.Float64("confidence", prediction.Score),
	)

	return Result{Label: label, Confidence: prediction.Score}, nil
}

// AnalyzeOrNeutral never fails: on error it returns Neutral and reports that
// the fallback was applied.
func (a *Analyzer) AnalyzeOrNeutral(ctx context.Context, text string) (Result, bool) {
	result, err := a.Analyze(ctx, text)
	if err != nil {
		a.logger.Warn("falling back to neutral sentiment", zap.Error(err))
		return Neutral(), true
	}
	return result, false
}

// Truncate returns the first limit characters of text.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
