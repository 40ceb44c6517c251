package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const DefaultOpenAIModel = "gpt-4o-mini"

const openAISystemPrompt = `You are a sentiment classifier for news headlines. ` +
	`Classify the user's text as positive or negative. ` +
	`Respond with JSON only: {"label": "positive" | "negative", "score": 0.0-1.0} ` +
	`where score is your confidence in the label.`

// OpenAIBackend asks a chat model for a label and a confidence. It is a
// drop-in for deployments without a hosted classifier.
type OpenAIBackend struct {
	client openai.Client
	model  string
}

func NewOpenAIBackend(apiKey, model string, opts ...option.RequestOption) *OpenAIBackend {
	if strings.TrimSpace(model) == "" {
		model = DefaultOpenAIModel
	}
	requestOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(30 * time.Second),
	}, opts...)
	return &OpenAIBackend{
		client: openai.NewClient(requestOpts...),
		model:  model,
	}
}

func (b *OpenAIBackend) Name() string {
	return "openai"
}

func (b *OpenAIBackend) Predict(ctx context.Context, text string) (Prediction, error) {
	response, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(b.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(openAISystemPrompt),
			openai.UserMessage(text),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return Prediction{}, fmt.Errorf("openai request failed: %w", err)
	}

	if len(response.Choices) == 0 {
		return Prediction{}, fmt.Errorf("no response from openai")
	}

	content := strings.TrimSpace(response.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var answer struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &answer); err != nil {
		return Prediction{}, fmt.Errorf("failed to parse openai response: %w", err)
	}

	return Prediction{Label: answer.Label, Score: answer.Score}, nil
}
