package main

import (
	"context"
	"fmt"
	"time"

	articlecontroller "newsfeed/controllers/article_controller"
	authcontroller "newsfeed/controllers/auth_controller"
	commentcontroller "newsfeed/controllers/comment_controller"
	newscontroller "newsfeed/controllers/news_controller"
	summarycontroller "newsfeed/controllers/summary_controller"
	"newsfeed/initializer"
	"newsfeed/routers"
	"newsfeed/services/accounts"
	"newsfeed/services/archive"
	"newsfeed/services/articles"
	"newsfeed/services/comments"
	"newsfeed/services/newsapi"
	"newsfeed/services/sentiment"
	"newsfeed/services/summaries"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sagemakerruntime"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"
)

func runServe(ctx context.Context) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	app, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("port", cfg.Port))
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		return app.ShutdownWithTimeout(10 * time.Second)
	}
}

func buildApp(ctx context.Context, cfg initializer.Config, logger *zap.Logger) (*fiber.App, error) {
	db, err := initializer.ConnectToDB(cfg, logger)
	if err != nil {
		return nil, err
	}

	var awsCfg aws.Config
	if cfg.NeedsAWS() {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
	}

	var s3Client *s3.Client
	if cfg.ArchiveBucket != "" || cfg.SummariesFromS3() {
		s3Client = s3.NewFromConfig(awsCfg)
	}

	var getter summaries.ObjectGetter
	if s3Client != nil {
		getter = s3Client
	}
	dataset, err := summaries.Load(ctx, cfg.SummariesSource, getter)
	if err != nil {
		return nil, fmt.Errorf("failed to load summaries: %w", err)
	}
	logger.Info("summaries loaded", zap.String("source", cfg.SummariesSource), zap.Int("rows", dataset.Len()))

	backend, err := newSentimentBackend(cfg, awsCfg, logger)
	if err != nil {
		return nil, err
	}
	analyzer := sentiment.NewAnalyzer(backend, logger)

	store := articles.NewStore(db)
	var workflowOpts []articles.WorkflowOption
	if cfg.ArchiveBucket != "" {
		workflowOpts = append(workflowOpts, articles.WithArchiver(archive.NewS3Archiver(s3Client, cfg.ArchiveBucket)))
	}
	workflow := articles.NewWorkflow(store, analyzer, logger, workflowOpts...)

	commentService := comments.NewService(db)
	sessions := session.New(session.Config{
		Expiration:     cfg.SessionTTL,
		KeyLookup:      "cookie:newsfeed_session",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})

	app := fiber.New(fiber.Config{
		AppName: "newsfeed",
	})
	app.Use(recover.New())
	app.Use(routers.RequestLogger(logger.Named("http")))

	routers.SetupRoutes(app, routers.Controllers{
		Auth:      authcontroller.New(accounts.NewService(db), sessions, logger),
		Summaries: summarycontroller.New(dataset, commentService, logger),
		Comments:  commentcontroller.New(dataset, commentService, logger),
		News:      newscontroller.New(newsapi.NewClient(cfg.NewsAPIKey, cfg.NewsAPIURL), analyzer, logger),
		Articles:  articlecontroller.New(workflow, store, logger),
	})

	return app, nil
}

func newSentimentBackend(cfg initializer.Config, awsCfg aws.Config, logger *zap.Logger) (sentiment.Backend, error) {
	switch cfg.Sentiment.Backend {
	case initializer.SentimentBackendHuggingFace:
		return sentiment.NewHuggingFaceBackend(cfg.Sentiment.HuggingFaceURL, cfg.Sentiment.HuggingFaceToken, logger), nil
	case initializer.SentimentBackendSageMaker:
		return sentiment.NewSageMakerBackend(sagemakerruntime.NewFromConfig(awsCfg), cfg.Sentiment.SageMakerName), nil
	case initializer.SentimentBackendOpenAI:
		return sentiment.NewOpenAIBackend(cfg.Sentiment.OpenAIKey, cfg.Sentiment.OpenAIModel), nil
	}
	return nil, fmt.Errorf("unknown sentiment backend %q", cfg.Sentiment.Backend)
}
