package routes

import (
	"forms-backend/src/controllers"

	"github.com/gofiber/fiber/v2"
)

func healthRoutes(router fiber.Router, deps Deps) {
	router.Get("/health", controllers.GetHealth(deps.Backend.Mode))
}
