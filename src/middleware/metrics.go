package middleware

import (
	"errors"
	"time"

	"forms-backend/src/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records every request by method, matched route and status class.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}
		metrics.ObserveRequest(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}
