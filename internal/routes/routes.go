package routes

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/credstore/credstore/internal/config"
	"github.com/credstore/credstore/internal/credentials"
	"github.com/credstore/credstore/internal/kv"
	"github.com/credstore/credstore/internal/middleware"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	Store  kv.Store
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if d.Store == nil {
		return fmt.Errorf("credential store backend is required")
	}
	if d.Logger == nil {
		return fmt.Errorf("logger is required")
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cfg.CORSAllowOrigins == "*" {
		app.Use(middleware.AllowAnyOrigin())
	}
	// Incomplete preflights fall through to the plain OPTIONS handler.
	app.Use(cors.New(cors.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions && !middleware.IsPreflight(c)
		},
		AllowOrigins: d.Cfg.CORSAllowOrigins,
		AllowMethods: fiber.MethodPost + "," + fiber.MethodOptions,
	}))

	RegisterHealthRoutes(app, d)

	store := credentials.NewStore(d.Store, d.Logger)
	handler := credentials.NewHandler(store, d.Cfg.StoreTimeout)

	RegisterCredentialRoutes(app, handler, "/")
	RegisterCredentialRoutes(app.Group("/api/v1"), handler, "/credentials")

	return nil
}
