package controllers

import (
	"time"

	"forms-backend/src/models"
	"forms-backend/src/store"

	"github.com/gofiber/fiber/v2"
)

// GetHealth godoc
// @Summary      Service health and active backend
// @Tags         health
// @Produce      json
// @Success      200  {object}  models.HealthStatus
// @Router       /health [get]
func GetHealth(mode store.Mode) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(models.HealthStatus{
			Status:    "running",
			Database:  string(mode),
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		})
	}
}
