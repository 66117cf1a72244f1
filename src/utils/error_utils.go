// error_utils.go
package utils

import (
	"errors"
	"log"

	"forms-backend/src/models"
	"forms-backend/src/store"

	"github.com/gofiber/fiber/v2"
)

func HandleError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(models.ErrorResponse{
		Status:  status,
		Message: message,
		Error:   message,
	})
}

// HandleStoreError maps entity store errors to HTTP responses. Unexpected
// errors are logged and answered with a generic message.
func HandleStoreError(c *fiber.Ctx, err error, notFoundMessage, failMessage string) error {
	var verr *store.ValidationError
	switch {
	case errors.As(err, &verr):
		return HandleError(c, fiber.StatusBadRequest, verr.Error())
	case errors.Is(err, store.ErrNotFound):
		return HandleError(c, fiber.StatusNotFound, notFoundMessage)
	default:
		log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
		return HandleError(c, fiber.StatusInternalServerError, failMessage)
	}
}
