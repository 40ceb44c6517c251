package summarycontroller

import (
	"strings"

	authcontroller "newsfeed/controllers/auth_controller"
	"newsfeed/services/comments"
	"newsfeed/services/summaries"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Controller struct {
	dataset  *summaries.Dataset
	comments *comments.Service
	logger   *zap.Logger
}

func New(dataset *summaries.Dataset, commentService *comments.Service, logger *zap.Logger) *Controller {
	return &Controller{
		dataset:  dataset,
		comments: commentService,
		logger:   logger.Named("summaries"),
	}
}

// Home lists every summary, or only the matching ones when ?query= is set.
func (ctl *Controller) Home(c *fiber.Ctx) error {
	user, _ := authcontroller.CurrentUser(c)
	query := strings.TrimSpace(c.Query("query"))

	return c.JSON(fiber.Map{
		"data":     ctl.dataset.List(query),
		"query":    query,
		"username": user.Username,
	})
}

// Search matches summaries against ?query=. An empty query returns no rows.
func (ctl *Controller) Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("query"))

	return c.JSON(fiber.Map{
		"data":  ctl.dataset.Search(query),
		"query": query,
	})
}

func (ctl *Controller) Dashboard(c *fiber.Ctx) error {
	user, _ := authcontroller.CurrentUser(c)

	grouped, err := ctl.comments.BySummary(c.UserContext())
	if err != nil {
		ctl.logger.Error("failed to load comments", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load comments",
		})
	}

	return c.JSON(fiber.Map{
		"data":     ctl.dataset.List(""),
		"username": user.Username,
		"comments": grouped,
	})
}
