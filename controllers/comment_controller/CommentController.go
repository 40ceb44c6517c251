package commentcontroller

import (
	"errors"
	"strconv"
	"strings"

	authcontroller "newsfeed/controllers/auth_controller"
	"newsfeed/services/comments"
	"newsfeed/services/summaries"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type commentPayload struct {
	Comment string `json:"comment" form:"comment"`
	Rating  string `json:"rating" form:"rating"`
}

type Controller struct {
	dataset  *summaries.Dataset
	comments *comments.Service
	logger   *zap.Logger
}

func New(dataset *summaries.Dataset, commentService *comments.Service, logger *zap.Logger) *Controller {
	return &Controller{
		dataset:  dataset,
		comments: commentService,
		logger:   logger.Named("comments"),
	}
}

func (ctl *Controller) AddComment(c *fiber.Ctx) error {
	user, ok := authcontroller.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "login required",
		})
	}

	summaryID, err := strconv.Atoi(c.Params("summary_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "summary_id must be an integer",
		})
	}
	if _, found := ctl.dataset.Get(summaryID); !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "summary not found",
		})
	}

	var payload commentPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var rating *int
	if raw := strings.TrimSpace(payload.Rating); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "rating must be an integer",
			})
		}
		rating = &parsed
	}

	comment, err := ctl.comments.Add(c.UserContext(), user.ID, summaryID, payload.Comment, rating)
	if errors.Is(err, comments.ErrEmptyComment) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err != nil {
		ctl.logger.Error("failed to add comment",
			zap.String("user_id", user.ID.String()),
			zap.Int("summary_id", summaryID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to add comment",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Comment added successfully!",
		"comment": comment,
	})
}
