package handlers

import (
	"lingo-progress-system/middleware"
	"lingo-progress-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupShopRoutes(app *fiber.App, shopService *services.ShopService) {
	user := middleware.UserContextMiddleware()

	app.Get("/shop/items", func(c *fiber.Ctx) error {
		items, err := shopService.Items()
		if err != nil {
			return fail(c, err, "failed to load shop")
		}
		return c.JSON(items)
	})

	app.Post("/shop/purchase/:itemId", user, func(c *fiber.Ctx) error {
		res, err := shopService.Purchase(middleware.UserID(c), c.Params("itemId"))
		if err != nil {
			return fail(c, err, "purchase failed")
		}
		return c.JSON(res)
	})

	app.Get("/shop/inventory", user, func(c *fiber.Ctx) error {
		inv, err := shopService.Inventory(middleware.UserID(c))
		if err != nil {
			return fail(c, err, "failed to load inventory")
		}
		return c.JSON(inv)
	})

	app.Post("/shop/equip/:itemId", user, func(c *fiber.Ctx) error {
		item, err := shopService.Equip(middleware.UserID(c), c.Params("itemId"))
		if err != nil {
			return fail(c, err, "equip failed")
		}
		return c.JSON(item)
	})

	app.Post("/shop/use/:itemId", user, func(c *fiber.Ctx) error {
		res, inv, err := shopService.Use(middleware.UserID(c), c.Params("itemId"))
		if err != nil {
			return fail(c, err, "use failed")
		}
		return c.JSON(fiber.Map{"effect": res, "inventory": inv})
	})
}
