package controllers

import (
	"log"
	"time"

	"forms-backend/src/middleware"
	"forms-backend/src/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	auth *middleware.Auth
}

func NewAuthController(auth *middleware.Auth) *AuthController {
	return &AuthController{auth: auth}
}

// Logout godoc
// @Summary      Revoke the current bearer token
// @Description  Blacklists the token id in Redis until the token expires. Without Redis the call succeeds but nothing is persisted.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  models.ErrorResponse
// @Router       /auth/logout [post]
func (ctrl *AuthController) Logout(c *fiber.Ctx) error {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		return utils.HandleError(c, fiber.StatusUnauthorized, "User not authenticated")
	}
	if err := ctrl.auth.Revoke(c, claims); err != nil {
		log.Println("❌ Failed to blacklist token:", err)
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to revoke token")
	}
	return c.JSON(fiber.Map{
		"message":   "Logout successful",
		"revoked":   ctrl.auth.RevocationEnabled(),
		"timestamp": time.Now(),
	})
}
