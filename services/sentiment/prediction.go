package sentiment

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// parsePrediction accepts the shapes text-classification endpoints answer
// with: a single {label, score} object, a list of them, or a list of lists
// when the model returns every label. The highest score wins.
func parsePrediction(data []byte) (Prediction, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return Prediction{}, fmt.Errorf("empty response body")
	}

	var payload interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return Prediction{}, fmt.Errorf("unable to decode prediction: %w", err)
	}

	if object, ok := payload.(map[string]interface{}); ok {
		if message, ok := object["error"].(string); ok && message != "" {
			return Prediction{}, fmt.Errorf("model returned error: %s", message)
		}
	}

	var candidates []Prediction
	collectPredictions(payload, &candidates)
	if len(candidates) == 0 {
		return Prediction{}, fmt.Errorf("unable to parse prediction from response: %s", logResponseSnippet(data))
	}

	best := candidates[0]
	for _, candidate := range candidates[1:] {
		if candidate.Score > best.Score {
			best = candidate
		}
	}
	return best, nil
}

func collectPredictions(data interface{}, out *[]Prediction) {
	switch v := data.(type) {
	case map[string]interface{}:
		label, hasLabel := v["label"].(string)
		score, hasScore := numericValue(v["score"])
		if hasLabel && hasScore {
			*out = append(*out, Prediction{Label: label, Score: score})
			return
		}
		for _, key := range []string{"predictions", "outputs", "result"} {
			if nested, ok := v[key]; ok {
				collectPredictions(nested, out)
			}
		}
	case []interface{}:
		for _, item := range v {
			collectPredictions(item, out)
		}
	}
}

func numericValue(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return parsed, true
		}
	}
	return 0, false
}

func logResponseSnippet(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "<empty>"
	}
	const maxLen = 200
	if len(trimmed) > maxLen {
		return trimmed[:maxLen] + "..."
	}
	return trimmed
}
