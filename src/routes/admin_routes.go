package routes

import (
	"forms-backend/src/controllers"

	"github.com/gofiber/fiber/v2"
)

func adminRoutes(router fiber.Router, deps Deps) {
	ctrl := controllers.NewMaintenanceController(deps.Backend, deps.Asynq)
	admin := router.Group("/admin", deps.Auth.RequireAuth(), deps.Auth.RequireAdmin())

	admin.Post("/maintenance/:task", ctrl.RunMaintenance)
}
