package handlers

import (
	"strings"

	"lingo-progress-system/progression"
	"lingo-progress-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupLeaderboardRoutes serves cached snapshots. X-User-ID is optional here;
// when present the caller's own rank is included.
func SetupLeaderboardRoutes(app *fiber.App, leaderboardService *services.LeaderboardService) {
	serve := func(c *fiber.Ctx, b services.Board) error {
		limit := min(queryInt(c, "limit", progression.MaxLeaderboardEntries), progression.MaxLeaderboardEntries)
		snap, err := leaderboardService.Get(c.UserContext(), b, limit)
		if err != nil {
			return fail(c, err, "failed to load leaderboard")
		}

		resp := fiber.Map{
			"type":     snap.Type,
			"period":   snap.Period,
			"built_at": snap.BuiltAt,
			"rankings": snap.Rankings,
		}
		if userID := strings.TrimSpace(c.Get("X-User-ID")); userID != "" {
			rank, err := leaderboardService.UserRank(c.UserContext(), b, userID)
			if err != nil {
				return fail(c, err, "failed to load user rank")
			}
			resp["me"] = rank
		}
		return c.JSON(resp)
	}

	app.Get("/leaderboard/global", func(c *fiber.Ctx) error {
		return serve(c, services.GlobalBoard())
	})

	app.Get("/leaderboard/weekly", func(c *fiber.Ctx) error {
		return serve(c, services.WeeklyBoard(leaderboardService.Now()))
	})

	app.Get("/leaderboard/league/:tier", func(c *fiber.Ctx) error {
		tier, err := progression.ParseLeague(c.Params("tier"))
		if err != nil {
			return fail(c, err, "unknown league")
		}
		return serve(c, services.LeagueBoard(tier))
	})
}
