package utils

import "github.com/gofiber/fiber/v2"

// JSONError writes the `{"error": "<message>"}` shape the browsing/editing
// UI expects on every failure path.
func JSONError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
