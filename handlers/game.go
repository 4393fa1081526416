// handlers/game.go
package handlers

import (
	"lingo-progress-system/middleware"
	"lingo-progress-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupGameRoutes(app *fiber.App, gameService *services.GameService) {
	app.Post("/user/progress/game", middleware.UserContextMiddleware(), func(c *fiber.Ctx) error {
		var req struct {
			GameName  string `json:"gameName"`
			Score     *int   `json:"score"`
			TimeSpent int    `json:"timeSpent"`
		}
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid JSON", err.Error())
		}
		if req.GameName == "" || req.Score == nil {
			return badRequest(c, "gameName and score are required", "missing field")
		}

		res, err := gameService.Record(middleware.UserID(c), req.GameName, *req.Score, req.TimeSpent)
		if err != nil {
			return fail(c, err, "failed to record game")
		}
		return c.JSON(res)
	})
}
