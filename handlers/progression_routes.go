// handlers/progression_routes.go
package handlers

import (
	"lingo-progress-system/middleware"
	"lingo-progress-system/progression"
	"lingo-progress-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressionRoutes(app *fiber.App, progressionService *services.ProgressionService, statsService *services.StatsService, achievementService *services.AchievementService, streakService *services.StreakService) {
	user := middleware.UserContextMiddleware()

	app.Get("/user/progress", user, func(c *fiber.Ctx) error {
		prof, err := progressionService.EnsureProfile(middleware.UserID(c))
		if err != nil {
			return fail(c, err, "failed to load progress")
		}
		return c.JSON(fiber.Map{
			"xp":                  prof.XP,
			"level":               prof.Level,
			"xp_progress":         progression.ProgressFor(prof.XP),
			"league":              prof.League,
			"league_name":         prof.League.DisplayName(),
			"league_xp":           prof.LeagueXP,
			"league_rank":         prof.LeagueRank,
			"streak_days":         prof.StreakDays,
			"freezes_available":   prof.FreezesAvailable,
			"coins":               prof.Coins,
			"games_played":        prof.GamesPlayed,
			"lessons_completed":   prof.LessonsCompleted,
			"words_learned":       prof.WordsLearned,
			"vocabulary_mastered": prof.VocabularyMastered,
			"last_level_up_at":    prof.LastLevelUpAt,
		})
	})

	app.Get("/user/progress/full", user, func(c *fiber.Ctx) error {
		full, err := progressionService.FullProgress(middleware.UserID(c))
		if err != nil {
			return fail(c, err, "failed to load full progress")
		}
		return c.JSON(full)
	})

	app.Get("/user/stats/daily", user, func(c *fiber.Ctx) error {
		rows, err := statsService.Daily(middleware.UserID(c), queryInt(c, "days", 7))
		if err != nil {
			return fail(c, err, "failed to load daily stats")
		}
		return c.JSON(rows)
	})

	app.Get("/user/stats/overall", user, func(c *fiber.Ctx) error {
		stats, err := statsService.Overall(middleware.UserID(c))
		if err != nil {
			return fail(c, err, "failed to load stats")
		}
		return c.JSON(stats)
	})

	app.Get("/user/achievements", user, func(c *fiber.Ctx) error {
		rows, err := achievementService.List(middleware.UserID(c))
		if err != nil {
			return fail(c, err, "failed to load achievements")
		}
		return c.JSON(rows)
	})

	app.Post("/user/achievements/unlock", user, func(c *fiber.Ctx) error {
		var req struct {
			AchievementID string `json:"achievementId"`
		}
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid JSON", err.Error())
		}
		res, err := achievementService.Unlock(middleware.UserID(c), req.AchievementID)
		if err != nil {
			return fail(c, err, "failed to unlock achievement")
		}
		return c.JSON(res)
	})

	app.Post("/user/streak/checkin", user, func(c *fiber.Ctx) error {
		res, err := streakService.CheckIn(middleware.UserID(c))
		if err != nil {
			return fail(c, err, "streak check-in failed")
		}
		return c.JSON(res)
	})
}
