package handlers

import (
	"lingo-progress-system/middleware"
	"lingo-progress-system/progression"
	"lingo-progress-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMissionRoutes(app *fiber.App, missionService *services.MissionService) {
	user := middleware.UserContextMiddleware()

	app.Get("/missions/daily", user, func(c *fiber.Ctx) error {
		set, err := missionService.GetDaily(middleware.UserID(c))
		if err != nil {
			return fail(c, err, "failed to load missions")
		}
		return c.JSON(set)
	})

	app.Post("/missions/claim/:missionId", user, func(c *fiber.Ctx) error {
		res, err := missionService.Claim(middleware.UserID(c), c.Params("missionId"))
		if err != nil {
			return fail(c, err, "failed to claim mission")
		}
		return c.JSON(res)
	})

	app.Post("/missions/update-progress", user, func(c *fiber.Ctx) error {
		req := struct {
			Type   string `json:"type"`
			Amount int    `json:"amount"`
		}{Amount: 1}
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid JSON", err.Error())
		}
		t, err := progression.ParseMissionType(req.Type)
		if err != nil {
			return fail(c, err, "invalid mission type")
		}
		if req.Amount <= 0 {
			return badRequest(c, "amount must be positive", "invalid amount")
		}

		set, updated, err := missionService.UpdateProgress(middleware.UserID(c), t, req.Amount)
		if err != nil {
			return fail(c, err, "failed to update missions")
		}
		return c.JSON(fiber.Map{"updated": updated, "missions": set.Missions})
	})

	app.Post("/missions/refresh", user, func(c *fiber.Ctx) error {
		set, err := missionService.Refresh(middleware.UserID(c))
		if err != nil {
			return fail(c, err, "failed to refresh missions")
		}
		return c.JSON(set)
	})
}
