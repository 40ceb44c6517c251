package articles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"newsfeed/models"
	"newsfeed/services/sentiment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxTitleLength  = 500
	maxURLLength    = 500
	maxSourceLength = 150
)

type Classifier interface {
	Analyze(ctx context.Context, text string) (sentiment.Result, error)
}

// Archiver receives every newly saved article after it is committed.
type Archiver interface {
	Archive(ctx context.Context, article models.SavedArticleModel) error
}

// SaveRequest carries the raw fields of a news search result the user picked.
type SaveRequest struct {
	URL         string
	Title       string
	Description string
	Source      string
	PublishedAt string
}

type SaveResult struct {
	Article models.SavedArticleModel
	// PublishedAtFallback is set when PublishedAt could not be parsed and the
	// save time was used instead.
	PublishedAtFallback bool
}

type Workflow struct {
	store      *Store
	classifier Classifier
	archiver   Archiver
	now        func() time.Time
	logger     *zap.Logger
}

type WorkflowOption func(*Workflow)

func WithArchiver(archiver Archiver) WorkflowOption {
	return func(w *Workflow) {
		w.archiver = archiver
	}
}

func WithClock(now func() time.Time) WorkflowOption {
	return func(w *Workflow) {
		w.now = now
	}
}

func NewWorkflow(store *Store, classifier Classifier, logger *zap.Logger, opts ...WorkflowOption) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Workflow{
		store:      store,
		classifier: classifier,
		now:        time.Now,
		logger:     logger.Named("articles"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SaveArticle classifies the article and stores it in the user's feed. It
// fails with ErrValidation, ErrClassification, ErrConflict or ErrStorage and
// writes nothing in every failure case.
func (w *Workflow) SaveArticle(ctx context.Context, userID uuid.UUID, req SaveRequest) (SaveResult, error) {
	req = req.normalized()
	if err := req.validate(); err != nil {
		return SaveResult{}, err
	}

	now := w.now()
	publishedAt, fallback := ParsePublishedAt(req.PublishedAt, now)
	if fallback {
		w.logger.Debug("published_at unparseable, using save time",
			zap.String("raw", req.PublishedAt),
			zap.String("url", req.URL),
		)
	}

	article := models.SavedArticleModel{
		UserID:      userID,
		ArticleID:   DeriveArticleID(req.URL),
		Title:       req.Title,
		Description: optional(req.Description),
		URL:         optional(req.URL),
		Source:      optional(req.Source),
		PublishedAt: &publishedAt,
		AddedAt:     now.UTC(),
	}

	result, err := w.classifier.Analyze(ctx, strings.TrimSpace(req.Title+" "+req.Description))
	if err != nil {
		w.logger.Warn("sentiment analysis failed",
			zap.String("user_id", userID.String()),
			zap.String("article_id", article.ArticleID),
			zap.Error(err),
		)
		if !errors.Is(err, ErrClassification) {
			err = fmt.Errorf("%w: %w", ErrClassification, err)
		}
		return SaveResult{}, err
	}
	article.Sentiment = result.Label
	article.Confidence = result.Confidence

	if err := w.store.Insert(ctx, &article); err != nil {
		if errors.Is(err, ErrConflict) {
			w.logger.Info("article already in feed",
				zap.String("user_id", userID.String()),
				zap.String("article_id", article.ArticleID),
			)
		} else {
			w.logger.Error("failed to save article",
				zap.String("user_id", userID.String()),
				zap.String("article_id", article.ArticleID),
				zap.Error(err),
			)
		}
		return SaveResult{}, err
	}

	w.logger.Info("article saved",
		zap.String("user_id", userID.String()),
		zap.String("article_id", article.ArticleID),
		zap.String("sentiment", article.Sentiment),
		zap.Float64("confidence", article.Confidence),
	)

	if w.archiver != nil {
		if err := w.archiver.Archive(ctx, article); err != nil {
			w.logger.Warn("failed to archive saved article",
				zap.String("id", article.ID.String()),
				zap.Error(err),
			)
		}
	}

	return SaveResult{Article: article, PublishedAtFallback: fallback}, nil
}

func (req SaveRequest) normalized() SaveRequest {
	return SaveRequest{
		URL:         strings.TrimSpace(req.URL),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Source:      strings.TrimSpace(req.Source),
		PublishedAt: strings.TrimSpace(req.PublishedAt),
	}
}

func (req SaveRequest) validate() error {
	switch {
	case req.URL == "":
		return fmt.Errorf("%w: url is required", ErrValidation)
	case req.Title == "":
		return fmt.Errorf("%w: title is required", ErrValidation)
	case len([]rune(req.URL)) > maxURLLength:
		return fmt.Errorf("%w: url longer than %d characters", ErrValidation, maxURLLength)
	case len([]rune(req.Title)) > maxTitleLength:
		return fmt.Errorf("%w: title longer than %d characters", ErrValidation, maxTitleLength)
	case len([]rune(req.Source)) > maxSourceLength:
		return fmt.Errorf("%w: source longer than %d characters", ErrValidation, maxSourceLength)
	}
	return nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
