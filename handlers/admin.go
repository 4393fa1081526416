package handlers

import (
	"log"

	"lingo-progress-system/middleware"
	"lingo-progress-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes registers operator endpoints. Callers need the admin role.
func SetupAdminRoutes(app *fiber.App, progressionService *services.ProgressionService, leagueService *services.LeagueService, leaderboardService *services.LeaderboardService) {
	admin := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireRole("admin"))

	admin.Post("/xp/grant", func(c *fiber.Ctx) error {
		var req struct {
			UserID string `json:"user_id"`
			XP     int    `json:"xp"`
			Reason string `json:"reason"`
		}
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid JSON", err.Error())
		}
		if req.UserID == "" || req.XP <= 0 {
			return badRequest(c, "user_id and positive xp are required", "invalid grant")
		}
		if req.Reason == "" {
			req.Reason = "admin_grant"
		}

		award, err := progressionService.AwardXP(req.UserID, req.XP, false, req.Reason)
		if err != nil {
			return fail(c, err, "XP award failed")
		}
		log.Printf("🛠️ [ADMIN] %s granted %d XP to %s (%s)", middleware.UserID(c), req.XP, req.UserID, req.Reason)
		return c.JSON(fiber.Map{
			"message": "XP granted successfully",
			"user_id": req.UserID,
			"xp":      award,
		})
	})

	admin.Post("/league/reset", func(c *fiber.Ctx) error {
		plan, err := leagueService.WeeklyReset(c.UserContext())
		if err != nil {
			return fail(c, err, "league reset failed")
		}
		return c.JSON(plan)
	})

	admin.Post("/leaderboard/rebuild", func(c *fiber.Ctx) error {
		if err := leaderboardService.RebuildAll(c.UserContext()); err != nil {
			return fail(c, err, "leaderboard rebuild failed")
		}
		return c.JSON(fiber.Map{"message": "leaderboards rebuilt"})
	})
}
