package authcontroller

import (
	"errors"
	"strings"

	"newsfeed/models"
	"newsfeed/services/accounts"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sessionUserKey = "user_id"
	localsUserKey  = "current_user"
)

type credentialsPayload struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type Controller struct {
	accounts *accounts.Service
	sessions *session.Store
	logger   *zap.Logger
}

func New(accountService *accounts.Service, sessions *session.Store, logger *zap.Logger) *Controller {
	return &Controller{
		accounts: accountService,
		sessions: sessions,
		logger:   logger.Named("auth"),
	}
}

func (ctl *Controller) Register(c *fiber.Ctx) error {
	var payload credentialsPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, err := ctl.accounts.Register(c.UserContext(), payload.Username, payload.Password)
	switch {
	case errors.Is(err, accounts.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, accounts.ErrUsernameTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Username already taken",
		})
	case err != nil:
		ctl.logger.Error("registration failed", zap.String("username", strings.TrimSpace(payload.Username)), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Registration failed",
		})
	}

	ctl.logger.Info("user registered", zap.String("user_id", user.ID.String()))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Registration successful! Please log in.",
		"username": user.Username,
	})
}

func (ctl *Controller) Login(c *fiber.Ctx) error {
	var payload credentialsPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, err := ctl.accounts.Authenticate(c.UserContext(), payload.Username, payload.Password)
	if errors.Is(err, accounts.ErrInvalidCredentials) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid username or password",
		})
	}
	if err != nil {
		ctl.logger.Error("login failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Login failed",
		})
	}

	sess, err := ctl.sessions.Get(c)
	if err != nil {
		return ctl.sessionError(c, err)
	}
	if err := sess.Regenerate(); err != nil {
		return ctl.sessionError(c, err)
	}
	sess.Set(sessionUserKey, user.ID.String())
	if err := sess.Save(); err != nil {
		return ctl.sessionError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Login successful!",
		"username": user.Username,
	})
}

func (ctl *Controller) Logout(c *fiber.Ctx) error {
	sess, err := ctl.sessions.Get(c)
	if err != nil {
		return ctl.sessionError(c, err)
	}
	if err := sess.Destroy(); err != nil {
		return ctl.sessionError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Logged out",
	})
}

// RequireLogin rejects requests without a valid session and makes the user
// available through CurrentUser.
func (ctl *Controller) RequireLogin(c *fiber.Ctx) error {
	sess, err := ctl.sessions.Get(c)
	if err != nil {
		return ctl.sessionError(c, err)
	}

	raw, _ := sess.Get(sessionUserKey).(string)
	userID, err := uuid.Parse(raw)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "login required",
		})
	}

	user, err := ctl.accounts.FindByID(c.UserContext(), userID)
	if errors.Is(err, accounts.ErrNotFound) {
		_ = sess.Destroy()
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "login required",
		})
	}
	if err != nil {
		ctl.logger.Error("failed to load session user", zap.String("user_id", raw), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load user",
		})
	}

	SetCurrentUser(c, user)
	return c.Next()
}

func SetCurrentUser(c *fiber.Ctx, user models.UserModel) {
	c.Locals(localsUserKey, user)
}

func CurrentUser(c *fiber.Ctx) (models.UserModel, bool) {
	user, ok := c.Locals(localsUserKey).(models.UserModel)
	return user, ok
}

func (ctl *Controller) sessionError(c *fiber.Ctx, err error) error {
	ctl.logger.Error("session store failure", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "session unavailable",
	})
}
