package middleware

import "github.com/gofiber/fiber/v2"

// AllowAnyOrigin stamps Access-Control-Allow-Origin: * on every response,
// including error responses and requests that carry no Origin header.
func AllowAnyOrigin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
		return c.Next()
	}
}

// IsPreflight reports whether the request is a complete CORS preflight:
// OPTIONS with Origin, Access-Control-Request-Method and
// Access-Control-Request-Headers all present.
func IsPreflight(c *fiber.Ctx) bool {
	return c.Method() == fiber.MethodOptions &&
		c.Get(fiber.HeaderOrigin) != "" &&
		c.Get(fiber.HeaderAccessControlRequestMethod) != "" &&
		c.Get(fiber.HeaderAccessControlRequestHeaders) != ""
}
