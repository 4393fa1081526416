package handlers

import (
	"lingo-progress-system/middleware"
	"lingo-progress-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupFriendRoutes(app *fiber.App, friendService *services.FriendService) {
	user := middleware.UserContextMiddleware()

	app.Get("/friends", user, func(c *fiber.Ctx) error {
		friends, err := friendService.List(middleware.UserID(c))
		if err != nil {
			return fail(c, err, "failed to load friends")
		}
		return c.JSON(fiber.Map{"friends": friends, "total": len(friends)})
	})

	app.Get("/friends/requests", user, func(c *fiber.Ctx) error {
		requests, err := friendService.Requests(middleware.UserID(c))
		if err != nil {
			return fail(c, err, "failed to load friend requests")
		}
		return c.JSON(fiber.Map{"requests": requests, "total": len(requests)})
	})

	app.Get("/friends/search", user, func(c *fiber.Ctx) error {
		users, err := friendService.Search(middleware.UserID(c), c.Query("q"))
		if err != nil {
			return fail(c, err, "failed to search users")
		}
		return c.JSON(fiber.Map{"users": users, "total": len(users)})
	})

	app.Post("/friends/request/:userId", user, func(c *fiber.Ctx) error {
		f, err := friendService.Request(middleware.UserID(c), c.Params("userId"))
		if err != nil {
			return fail(c, err, "failed to send friend request")
		}
		return c.Status(fiber.StatusCreated).JSON(f)
	})

	app.Post("/friends/accept/:requestId", user, func(c *fiber.Ctx) error {
		f, err := friendService.Accept(middleware.UserID(c), c.Params("requestId"))
		if err != nil {
			return fail(c, err, "failed to accept friend request")
		}
		return c.JSON(f)
	})

	app.Delete("/friends/reject/:requestId", user, func(c *fiber.Ctx) error {
		if err := friendService.Reject(middleware.UserID(c), c.Params("requestId")); err != nil {
			return fail(c, err, "failed to reject friend request")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Delete("/friends/:userId", user, func(c *fiber.Ctx) error {
		if err := friendService.Remove(middleware.UserID(c), c.Params("userId")); err != nil {
			return fail(c, err, "failed to remove friend")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Get("/leaderboard/friends", user, func(c *fiber.Ctx) error {
		board, err := friendService.Leaderboard(middleware.UserID(c))
		if err != nil {
			return fail(c, err, "failed to load friends leaderboard")
		}
		return c.JSON(board)
	})
}
