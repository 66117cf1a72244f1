package routes

import (
	"forms-backend/src/controllers"

	"github.com/gofiber/fiber/v2"
)

// responseRoutes: submit and read are public, listing by form/bundle is admin only.
func responseRoutes(router fiber.Router, deps Deps) {
	ctrl := controllers.NewResponseController(deps.Backend.Responses)
	responses := router.Group("/responses")

	admin := []fiber.Handler{deps.Auth.RequireAuth(), deps.Auth.RequireAdmin()}

	responses.Post("/", deps.Auth.Optional(), ctrl.CreateResponse)
	responses.Get("/", ctrl.GetAllResponses)
	// static paths before /:responseId
	responses.Get("/debug/structure", append(admin, ctrl.GetResponseStructure)...)
	responses.Get("/form/:formId", append(admin, ctrl.GetResponsesByForm)...)
	responses.Get("/bundle/:bundleId", append(admin, ctrl.GetResponsesByBundle)...)
	responses.Get("/:responseId", ctrl.GetResponseByID)
}
