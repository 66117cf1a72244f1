package routes

import (
	"forms-backend/src/controllers"

	"github.com/gofiber/fiber/v2"
)

// authRoutes กำหนด route สำหรับ auth (logout)
func authRoutes(router fiber.Router, deps Deps) {
	ctrl := controllers.NewAuthController(deps.Auth)
	auth := router.Group("/auth")

	auth.Post("/logout", deps.Auth.RequireAuth(), ctrl.Logout)
}
