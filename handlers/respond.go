package handlers

import (
	"errors"
	"strconv"

	"lingo-progress-system/progression"
	"lingo-progress-system/services"

	"github.com/gofiber/fiber/v2"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrLessonLocked):
		return fiber.StatusForbidden
	case errors.Is(err, progression.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, progression.ErrInvalidState), errors.Is(err, progression.ErrOutOfRange):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes the error body used by every route.
func fail(c *fiber.Ctx, err error, msg string) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": msg,
		"cause": err.Error(),
	})
}

func badRequest(c *fiber.Ctx, msg, cause string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
		"cause": cause,
	})
}

// queryInt reads a non-negative integer query parameter, falling back to def.
func queryInt(c *fiber.Ctx, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 0 {
		return def
	}
	return n
}
