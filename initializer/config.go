package initializer

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort         = "8080"
	defaultSQLitePath   = "site.db"
	defaultSessionTTL   = 24 * time.Hour
	defaultSummariesSrc = "summaries_with_sentiment.csv"

	SentimentBackendHuggingFace = "huggingface"
	SentimentBackendSageMaker   = "sagemaker"
	SentimentBackendOpenAI      = "openai"
)

type Config struct {
	Port          string
	DatabaseURL   string
	SQLitePath    string
	ShouldMigrate bool
	SessionTTL    time.Duration

	NewsAPIKey string
	NewsAPIURL string

	Sentiment SentimentConfig

	AWSRegion       string
	SummariesSource string
	ArchiveBucket   string

	LogLevel    string
	Development bool
}

type SentimentConfig struct {
	Backend          string
	HuggingFaceToken string
	HuggingFaceURL   string
	SageMakerName    string
	OpenAIKey        string
	OpenAIModel      string
}

// UsesPostgres reports whether a Postgres URL was configured. Without one the
// service falls back to a local SQLite file.
func (cfg Config) UsesPostgres() bool {
	return cfg.DatabaseURL != ""
}

// NeedsAWS reports whether any configured component talks to AWS.
func (cfg Config) NeedsAWS() bool {
	return cfg.Sentiment.Backend == SentimentBackendSageMaker ||
		cfg.ArchiveBucket != "" ||
		cfg.SummariesFromS3()
}

func (cfg Config) SummariesFromS3() bool {
	return strings.HasPrefix(cfg.SummariesSource, "s3://")
}

func LoadConfigFromEnv() (Config, error) {
	cfg := Config{
		Port:            envOr("PORT", defaultPort),
		DatabaseURL:     strings.TrimSpace(os.Getenv("DB_URL")),
		SQLitePath:      envOr("SQLITE_PATH", defaultSQLitePath),
		ShouldMigrate:   strings.EqualFold(strings.TrimSpace(os.Getenv("SHOULD_MIGRATE")), "TRUE"),
		SessionTTL:      defaultSessionTTL,
		NewsAPIKey:      strings.TrimSpace(os.Getenv("NEWS_API_KEY")),
		NewsAPIURL:      strings.TrimSpace(os.Getenv("NEWS_API_URL")),
		AWSRegion:       strings.TrimSpace(os.Getenv("AWS_REGION")),
		SummariesSource: envOr("SUMMARIES_SOURCE", defaultSummariesSrc),
		ArchiveBucket:   strings.TrimSpace(os.Getenv("ARCHIVE_S3_BUCKET")),
		LogLevel:        envOr("LOG_LEVEL", "info"),
		Development:     strings.EqualFold(strings.TrimSpace(os.Getenv("APP_ENV")), "development"),
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if ttlStr := strings.TrimSpace(os.Getenv("SESSION_TTL")); ttlStr != "" {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil || ttl <= 0 {
			return cfg, fmt.Errorf("SESSION_TTL must be a positive duration, got %q", ttlStr)
		}
		cfg.SessionTTL = ttl
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return cfg, fmt.Errorf("PORT must be numeric, got %q", cfg.Port)
	}

	cfg.Sentiment = loadSentimentConfig()

	return cfg, nil
}

// Validate checks the settings the HTTP server needs. Migrations run without
// them.
func (cfg Config) Validate() error {
	if err := cfg.Sentiment.Validate(); err != nil {
		return err
	}
	if cfg.NewsAPIKey == "" {
		return errors.New("NEWS_API_KEY must be set")
	}
	if cfg.NeedsAWS() && cfg.AWSRegion == "" {
		return errors.New("AWS_REGION must be set when SageMaker or S3 is used")
	}
	return nil
}

func loadSentimentConfig() SentimentConfig {
	cfg := SentimentConfig{
		Backend:        strings.ToLower(envOr("SENTIMENT_BACKEND", SentimentBackendHuggingFace)),
		HuggingFaceURL: strings.TrimSpace(os.Getenv("HUGGINGFACE_ENDPOINT_URL")),
		SageMakerName:  strings.TrimSpace(os.Getenv("SAGEMAKER_ENDPOINT_NAME")),
		OpenAIKey:      strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:    strings.TrimSpace(os.Getenv("OPENAI_MODEL")),
	}

	token := strings.TrimSpace(os.Getenv("HF_TOKEN"))
	if token == "" {
		token = strings.TrimSpace(os.Getenv("HUGGINGFACE_API_TOKEN"))
	}
	cfg.HuggingFaceToken = token

	return cfg
}

func (cfg SentimentConfig) Validate() error {
	switch cfg.Backend {
	case SentimentBackendHuggingFace:
		if cfg.HuggingFaceToken == "" {
			return errors.New("HF_TOKEN or HUGGINGFACE_API_TOKEN must be set")
		}
	case SentimentBackendSageMaker:
		if cfg.SageMakerName == "" {
			return errors.New("SAGEMAKER_ENDPOINT_NAME must be set")
		}
	case SentimentBackendOpenAI:
		if cfg.OpenAIKey == "" {
			return errors.New("OPENAI_API_KEY must be set")
		}
	default:
		return fmt.Errorf("unknown SENTIMENT_BACKEND %q", cfg.Backend)
	}

	return nil
}

func envOr(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
