package routes

import (
	"forms-backend/src/metrics"
	"forms-backend/src/middleware"
	"forms-backend/src/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/hibiken/asynq"
)

// Deps is everything the handlers need, decided once at startup.
type Deps struct {
	Backend *store.Backend
	Auth    *middleware.Auth
	// Asynq is optional; without it maintenance tasks run inline.
	Asynq *asynq.Client
	// PublicFormURL prefixes form ids in share QR codes.
	PublicFormURL string
}

func InitRoutes(app *fiber.App, deps Deps) {
	api := app.Group("/api")

	formRoutes(api, deps)
	responseRoutes(api, deps)
	healthRoutes(api, deps)
	adminRoutes(api, deps)
	authRoutes(api, deps)

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Route เช็คว่า API ทำงานอยู่
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("✅ API is running...")
	})
}
