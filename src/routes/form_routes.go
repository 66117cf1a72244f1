package routes

import (
	"forms-backend/src/controllers"

	"github.com/gofiber/fiber/v2"
)

// formRoutes กำหนด route สำหรับ form management
func formRoutes(router fiber.Router, deps Deps) {
	ctrl := controllers.NewFormController(deps.Backend.Forms, deps.PublicFormURL)
	forms := router.Group("/forms")

	// per-route: Group middleware would also guard the public GETs
	designer := []fiber.Handler{deps.Auth.RequireAuth(), deps.Auth.RequireDesigner()}

	forms.Get("/", ctrl.GetAllForms)
	forms.Get("/folders", ctrl.GetFolders)
	forms.Get("/:id", ctrl.GetFormByID)
	forms.Get("/:id/qrcode", ctrl.GetFormQRCode)
	forms.Post("/", append(designer, ctrl.CreateForm)...)
	forms.Put("/:id", append(designer, ctrl.UpdateForm)...)
	forms.Patch("/:id", append(designer, ctrl.UpdateForm)...)
	forms.Delete("/:id", append(designer, ctrl.DeleteForm)...)
}
