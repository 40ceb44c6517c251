package sentiment

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubBackend struct {
	prediction Prediction
	err        error
	inputs     []string
}

func (s *stubBackend) Name() string { return "stub" }

func (s *stubBackend) Predict(_ context.Context, text string) (Prediction, error) {
	s.inputs = append(s.inputs, text)
	return s.prediction, s.err
}

func TestAnalyzeLowercasesLabelAndKeepsScore(t *testing.T) {
	backend := &stubBackend{prediction: Prediction{Label: "POSITIVE", Score: 0.9987}}
	analyzer := NewAnalyzer(backend, zaptest.NewLogger(t))

	result, err := analyzer.Analyze(context.Background(), "Markets rally")
	require.NoError(t, err)
	assert.Equal(t, "positive", result.Label)
	assert.Equal(t, 0.9987, result.Confidence)
}

func TestAnalyzeTruncatesLongInput(t *testing.T) {
	backend := &stubBackend{prediction: Prediction{Label: "NEGATIVE", Score: 0.7}}
	analyzer := NewAnalyzer(backend, zaptest.NewLogger(t))

	long := strings.Repeat("é", MaxInputChars+100)
	_, err := analyzer.Analyze(context.Background(), long)
	require.NoError(t, err)

	require.Len(t, backend.inputs, 1)
	assert.Equal(t, MaxInputChars, len([]rune(backend.inputs[0])))
}

func TestAnalyzeSurfacesFailures(t *testing.T) {
	cases := map[string]Prediction{
		"empty label":    {Label: "  ", Score: 0.5},
		"negative score": {Label: "positive", Score: -0.1},
		"score above 1":  {Label: "positive", Score: 1.5},
		"nan score":      {Label: "positive", Score: math.NaN()},
	}
	for name, prediction := range cases {
		t.Run(name, func(t *testing.T) {
			analyzer := NewAnalyzer(&stubBackend{prediction: prediction}, zaptest.NewLogger(t))
			_, err := analyzer.Analyze(context.Background(), "text")
			assert.ErrorIs(t, err, ErrClassification)
		})
	}

	t.Run("backend error", func(t *testing.T) {
		cause := errors.New("endpoint unavailable")
		analyzer := NewAnalyzer(&stubBackend{err: cause}, zaptest.NewLogger(t))
		_, err := analyzer.Analyze(context.Background(), "text")
		assert.ErrorIs(t, err, ErrClassification)
		assert.ErrorIs(t, err, cause)
	})
}

func TestAnalyzeOrNeutral(t *testing.T) {
	failing := NewAnalyzer(&stubBackend{err: errors.New("boom")}, zaptest.NewLogger(t))
	result, fellBack := failing.AnalyzeOrNeutral(context.Background(), "text")
	assert.True(t, fellBack)
	assert.Equal(t, Neutral(), result)

	working := NewAnalyzer(&stubBackend{prediction: Prediction{Label: "Negative", Score: 0.6}}, zaptest.NewLogger(t))
	result, fellBack = working.AnalyzeOrNeutral(context.Background(), "text")
	assert.False(t, fellBack)
	assert.Equal(t, Result{Label: "negative", Confidence: 0.6}, result)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "日本", Truncate("日本語", 2))
}
