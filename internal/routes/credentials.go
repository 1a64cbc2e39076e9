package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/credstore/credstore/internal/credentials"
)

const allowedMethods = "POST, OPTIONS"

// RegisterCredentialRoutes mounts the credential endpoint at path. Preflight
// requests are answered by the CORS middleware before reaching these handlers.
func RegisterCredentialRoutes(r fiber.Router, h *credentials.Handler, path string) {
	r.Post(path, h.Handle)
	r.Options(path, func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAllow, allowedMethods)
		return c.Status(http.StatusOK).Send(nil)
	})
	r.All(path, func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAllow, allowedMethods)
		return c.Status(http.StatusMethodNotAllowed).SendString("Method Not Allowed")
	})
}
