package routers

import (
	"errors"
	"time"

	articlecontroller "newsfeed/controllers/article_controller"
	authcontroller "newsfeed/controllers/auth_controller"
	commentcontroller "newsfeed/controllers/comment_controller"
	newscontroller "newsfeed/controllers/news_controller"
	summarycontroller "newsfeed/controllers/summary_controller"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Controllers struct {
	Auth      *authcontroller.Controller
	Summaries *summarycontroller.Controller
	Comments  *commentcontroller.Controller
	News      *newscontroller.Controller
	Articles  *articlecontroller.Controller
}

func SetupRoutes(r fiber.Router, ctl Controllers) {
	r.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	r.Post("/register", ctl.Auth.Register)
	r.Post("/login", ctl.Auth.Login)
	r.Get("/logout", ctl.Auth.Logout)

	// Login is checked per route so unknown paths still answer 404.
	requireLogin := ctl.Auth.RequireLogin
	r.Get("/", requireLogin, ctl.Summaries.Home)
	r.Get("/search", requireLogin, ctl.Summaries.Search)
	r.Get("/dashboard", requireLogin, ctl.Summaries.Dashboard)
	r.Post("/add_comment/:summary_id", requireLogin, ctl.Comments.AddComment)
	r.Get("/news/search", requireLogin, ctl.News.Search)
	r.Post("/save_article", requireLogin, ctl.Articles.SaveArticle)
	r.Get("/feed", requireLogin, ctl.Articles.Feed)
}

// RequestLogger writes one log line per request.
func RequestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}

		if status >= fiber.StatusInternalServerError {
			logger.Error("request", fields...)
		} else {
			logger.Info("request", fields...)
		}
		return err
	}
}
