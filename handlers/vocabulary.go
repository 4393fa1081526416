package handlers

import (
	"lingo-progress-system/middleware"
	"lingo-progress-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupVocabularyRoutes(app *fiber.App, vocabularyService *services.VocabularyService) {
	user := middleware.UserContextMiddleware()

	app.Post("/user/vocabulary/review", user, func(c *fiber.Ctx) error {
		var req struct {
			Word      string `json:"word"`
			IsCorrect *bool  `json:"isCorrect"`
		}
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid JSON", err.Error())
		}
		if req.IsCorrect == nil {
			return badRequest(c, "word and isCorrect are required", "missing field")
		}
		res, err := vocabularyService.Review(middleware.UserID(c), req.Word, *req.IsCorrect)
		if err != nil {
			return fail(c, err, "failed to review word")
		}
		return c.JSON(res)
	})

	app.Get("/user/vocabulary/due", user, func(c *fiber.Ctx) error {
		cards, err := vocabularyService.DueForReview(middleware.UserID(c))
		if err != nil {
			return fail(c, err, "failed to load due words")
		}
		return c.JSON(fiber.Map{"count": len(cards), "words": cards})
	})
}
