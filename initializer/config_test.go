package initializer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DB_URL", "DATABASE_URL", "SQLITE_PATH", "SHOULD_MIGRATE", "SESSION_TTL",
		"NEWS_API_KEY", "NEWS_API_URL", "SENTIMENT_BACKEND", "HF_TOKEN", "HUGGINGFACE_API_TOKEN",
		"HUGGINGFACE_ENDPOINT_URL", "SAGEMAKER_ENDPOINT_NAME", "OPENAI_API_KEY", "OPENAI_MODEL",
		"AWS_REGION", "SUMMARIES_SOURCE", "ARCHIVE_S3_BUCKET", "LOG_LEVEL", "APP_ENV",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.UsesPostgres())
	assert.Equal(t, "site.db", cfg.SQLitePath)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "summaries_with_sentiment.csv", cfg.SummariesSource)
	assert.Equal(t, SentimentBackendHuggingFace, cfg.Sentiment.Backend)
	assert.False(t, cfg.NeedsAWS())

	assert.Error(t, cfg.Validate(), "huggingface needs a token")
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://user:pw@localhost/news")
	t.Setenv("SHOULD_MIGRATE", "true")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("NEWS_API_KEY", "news-key")
	t.Setenv("SENTIMENT_BACKEND", "SageMaker")
	t.Setenv("SAGEMAKER_ENDPOINT_NAME", "sst2")
	t.Setenv("SUMMARIES_SOURCE", "s3://bucket/summaries.csv")

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.UsesPostgres())
	assert.True(t, cfg.ShouldMigrate)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, SentimentBackendSageMaker, cfg.Sentiment.Backend)
	assert.True(t, cfg.SummariesFromS3())
	assert.True(t, cfg.NeedsAWS())

	assert.ErrorContains(t, cfg.Validate(), "AWS_REGION")

	t.Setenv("AWS_REGION", "us-east-1")
	cfg, err = LoadConfigFromEnv()
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_TTL", "forever")
	_, err := LoadConfigFromEnv()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("PORT", "http")
	_, err = LoadConfigFromEnv()
	assert.Error(t, err)
}

func TestSentimentConfigValidate(t *testing.T) {
	assert.NoError(t, SentimentConfig{Backend: SentimentBackendHuggingFace, HuggingFaceToken: "t"}.Validate())
	assert.NoError(t, SentimentConfig{Backend: SentimentBackendOpenAI, OpenAIKey: "k"}.Validate())
	assert.Error(t, SentimentConfig{Backend: SentimentBackendOpenAI}.Validate())
	assert.Error(t, SentimentConfig{Backend: SentimentBackendSageMaker}.Validate())
	assert.Error(t, SentimentConfig{Backend: "vader"}.Validate())
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(Config{LogLevel: "debug", Development: true})
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = NewLogger(Config{LogLevel: "loud"})
	assert.Error(t, err)
}
