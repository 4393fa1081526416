package handlers

import (
	"lingo-progress-system/middleware"
	"lingo-progress-system/progression"
	"lingo-progress-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLessonRoutes(app *fiber.App, lessonService *services.LessonService) {
	user := middleware.UserContextMiddleware()

	app.Get("/lessons", user, func(c *fiber.Ctx) error {
		catalog, err := lessonService.Catalog(middleware.UserID(c))
		if err != nil {
			return fail(c, err, "failed to load lessons")
		}
		return c.JSON(catalog)
	})

	app.Get("/lessons/:themeId/:level", user, func(c *fiber.Ctx) error {
		theme, level, err := lessonParams(c.Params("themeId"), c.Params("level"))
		if err != nil {
			return fail(c, err, "invalid lesson")
		}
		view, err := lessonService.Get(middleware.UserID(c), theme, level)
		if err != nil {
			return fail(c, err, "failed to load lesson")
		}
		return c.JSON(view)
	})

	app.Post("/lessons/:themeId/:level/start", user, func(c *fiber.Ctx) error {
		theme, level, err := lessonParams(c.Params("themeId"), c.Params("level"))
		if err != nil {
			return fail(c, err, "invalid lesson")
		}
		rec, err := lessonService.Start(middleware.UserID(c), theme, level)
		if err != nil {
			return fail(c, err, "failed to start lesson")
		}
		return c.JSON(rec)
	})

	app.Post("/user/progress/lesson", user, func(c *fiber.Ctx) error {
		var req struct {
			ThemeID string `json:"themeId"`
			Level   string `json:"level"`
			Score   *int   `json:"score"`
		}
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid JSON", err.Error())
		}
		if req.Score == nil {
			return badRequest(c, "themeId, level and score are required", "missing field")
		}
		theme, level, err := lessonParams(req.ThemeID, req.Level)
		if err != nil {
			return fail(c, err, "invalid lesson")
		}

		res, err := lessonService.Complete(middleware.UserID(c), theme, level, *req.Score)
		if err != nil {
			return fail(c, err, "failed to complete lesson")
		}
		return c.JSON(res)
	})
}

func lessonParams(themeID, level string) (string, progression.Level, error) {
	theme, err := services.NormalizeTheme(themeID)
	if err != nil {
		return "", "", err
	}
	lvl, err := progression.ParseLevel(level)
	if err != nil {
		return "", "", err
	}
	return theme, lvl, nil
}
