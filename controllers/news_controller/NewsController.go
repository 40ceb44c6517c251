package newscontroller

import (
	"context"
	"strings"

	"newsfeed/services/newsapi"
	"newsfeed/services/sentiment"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Searcher interface {
	Search(ctx context.Context, query string) ([]newsapi.Candidate, error)
}

// PreviewAnalyzer scores search results for display. It never fails; a
// broken classifier shows up as neutral previews.
type PreviewAnalyzer interface {
	AnalyzeOrNeutral(ctx context.Context, text string) (sentiment.Result, bool)
}

type annotatedCandidate struct {
	newsapi.Candidate
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
	Fallback   bool    `json:"sentiment_fallback"`
}

type Controller struct {
	news     Searcher
	analyzer PreviewAnalyzer
	logger   *zap.Logger
}

func New(news Searcher, analyzer PreviewAnalyzer, logger *zap.Logger) *Controller {
	return &Controller{
		news:     news,
		analyzer: analyzer,
		logger:   logger.Named("news"),
	}
}

// Search proxies ?q= to the news API. With ?sentiment=true each result also
// carries a sentiment preview.
func (ctl *Controller) Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	ctx := c.UserContext()

	articles, err := ctl.news.Search(ctx, query)
	if err != nil {
		if newsapi.IsAuthError(err) {
			ctl.logger.Error("news API rejected the configured key", zap.Error(err))
		} else {
			ctl.logger.Warn("news search failed", zap.String("query", query), zap.Error(err))
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":    "Error fetching news articles",
			"articles": []newsapi.Candidate{},
			"query":    query,
		})
	}

	if !c.QueryBool("sentiment", false) || ctl.analyzer == nil {
		return c.JSON(fiber.Map{
			"articles": articles,
			"query":    query,
		})
	}

	annotated := make([]annotatedCandidate, 0, len(articles))
	for _, article := range articles {
		result, fellBack := ctl.analyzer.AnalyzeOrNeutral(ctx, article.Title+" "+article.Description)
		annotated = append(annotated, annotatedCandidate{
			Candidate:  article,
			Sentiment:  result.Label,
			Confidence: result.Confidence,
			Fallback:   fellBack,
		})
	}

	return c.JSON(fiber.Map{
		"articles": annotated,
		"query":    query,
	})
}
