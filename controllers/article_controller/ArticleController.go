package articlecontroller

import (
	"errors"
	"strings"

	authcontroller "newsfeed/controllers/auth_controller"
	"newsfeed/services/articles"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type saveArticlePayload struct {
	URL         string `json:"url" form:"url"`
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	Source      string `json:"source" form:"source"`
	PublishedAt string `json:"published_at" form:"published_at"`
}

type Controller struct {
	workflow *articles.Workflow
	store    *articles.Store
	logger   *zap.Logger
}

func New(workflow *articles.Workflow, store *articles.Store, logger *zap.Logger) *Controller {
	return &Controller{
		workflow: workflow,
		store:    store,
		logger:   logger.Named("articles"),
	}
}

func (ctl *Controller) SaveArticle(c *fiber.Ctx) error {
	user, ok := authcontroller.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "login required",
		})
	}

	var payload saveArticlePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	result, err := ctl.workflow.SaveArticle(c.UserContext(), user.ID, articles.SaveRequest{
		URL:         payload.URL,
		Title:       payload.Title,
		Description: payload.Description,
		Source:      payload.Source,
		PublishedAt: payload.PublishedAt,
	})
	switch {
	case errors.Is(err, articles.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	case errors.Is(err, articles.ErrClassification):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Sentiment analysis failed",
		})
	case errors.Is(err, articles.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "Article already in your feed",
		})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Database error",
		})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "Article saved to your feed!",
		"sentiment":  result.Article.Sentiment,
		"confidence": result.Article.Confidence,
		"articleId":  result.Article.ArticleID,
	})
}

// Feed lists the user's saved articles, newest first, filtered by ?search=.
func (ctl *Controller) Feed(c *fiber.Ctx) error {
	user, ok := authcontroller.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "login required",
		})
	}

	search := strings.TrimSpace(c.Query("search"))
	ctx := c.UserContext()

	feed, err := ctl.store.ListFeed(ctx, user.ID, search)
	if err != nil {
		ctl.logger.Error("failed to load feed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load feed",
		})
	}

	total, err := ctl.store.Count(ctx, user.ID)
	if err != nil {
		ctl.logger.Error("failed to count feed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load feed",
		})
	}

	return c.JSON(fiber.Map{
		"articles":     feed,
		"search_query": search,
		"total":        total,
	})
}
