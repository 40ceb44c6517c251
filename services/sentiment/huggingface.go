package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const DefaultHuggingFaceURL = "https://router.huggingface.co/hf-inference/models/distilbert/distilbert-base-uncased-finetuned-sst-2-english"

type InferenceError struct {
	StatusCode int
	Message    string
}

func (e *InferenceError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("huggingface returned status %d", e.StatusCode)
}

type HuggingFaceBackend struct {
	apiURL string
	token  string
	client *http.Client
	logger *zap.Logger
}

func NewHuggingFaceBackend(apiURL, token string, logger *zap.Logger) *HuggingFaceBackend {
	if strings.TrimSpace(apiURL) == "" {
		apiURL = DefaultHuggingFaceURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HuggingFaceBackend{
		apiURL: apiURL,
		token:  token,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

func (b *HuggingFaceBackend) Name() string {
	return "huggingface"
}

func (b *HuggingFaceBackend) Predict(ctx context.Context, text string) (Prediction, error) {
	requestBody := map[string]interface{}{
		"inputs":     text,
		"parameters": map[string]interface{}{},
	}

	bodyBytes, err := json.Marshal(requestBody)
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to marshal huggingface payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.apiURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return Prediction{}, err
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", b.token))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	// Inference Endpoints otherwise answer 503 while the model cold-starts.
	req.Header.Set("X-Wait-For-Model", "true")

	resp, err := b.client.Do(req)
	if err != nil {
		return Prediction{}, err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Prediction{}, err
	}

	if resp.StatusCode != http.StatusOK {
		b.logger.Warn("huggingface returned non-200",
			zap.Int("status", resp.StatusCode),
			zap.String("body", logResponseSnippet(responseBody)),
		)
		return Prediction{}, &InferenceError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("huggingface returned status %d", resp.StatusCode),
		}
	}

	return parsePrediction(responseBody)
}
