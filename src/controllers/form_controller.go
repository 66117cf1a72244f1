package controllers

import (
	"forms-backend/src/models"
	"forms-backend/src/qrcode"
	"forms-backend/src/store"
	"forms-backend/src/utils"

	"github.com/gofiber/fiber/v2"
)

// FormController exposes the form entity store over HTTP.
type FormController struct {
	forms    store.FormStore
	linkBase string
}

// NewFormController serves forms from the given store. linkBase is the public
// URL prefix encoded into share QR codes.
func NewFormController(forms store.FormStore, linkBase string) *FormController {
	return &FormController{forms: forms, linkBase: linkBase}
}

// GetAllForms godoc
// @Summary      Get all forms
// @Tags         forms
// @Produce      json
// @Success      200  {array}   models.Form
// @Failure      500  {object}  models.ErrorResponse
// @Router       /forms [get]
func (ctrl *FormController) GetAllForms(c *fiber.Ctx) error {
	forms, err := ctrl.forms.GetAll(c.UserContext())
	if err != nil {
		return utils.HandleStoreError(c, err, "", "Failed to fetch forms")
	}
	return c.JSON(forms)
}

// GetFolders godoc
// @Summary      List distinct folder names
// @Tags         forms
// @Produce      json
// @Success      200  {array}   string
// @Failure      500  {object}  models.ErrorResponse
// @Router       /forms/folders [get]
func (ctrl *FormController) GetFolders(c *fiber.Ctx) error {
	folders, err := ctrl.forms.DistinctFolderNames(c.UserContext())
	if err != nil {
		return utils.HandleStoreError(c, err, "", "Failed to fetch folders")
	}
	return c.JSON(folders)
}

// GetFormByID godoc
// @Summary      Get a form by ID
// @Tags         forms
// @Produce      json
// @Param        id   path      string  true  "Form ID"
// @Success      200  {object}  models.Form
// @Failure      404  {object}  models.ErrorResponse
// @Router       /forms/{id} [get]
func (ctrl *FormController) GetFormByID(c *fiber.Ctx) error {
	form, err := ctrl.forms.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.HandleStoreError(c, err, "Form not found", "Failed to fetch form")
	}
	return c.JSON(form)
}

// CreateForm godoc
// @Summary      Create a form
// @Description  folderName defaults to the first folderName field label, then "Default"
// @Tags         forms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      models.Form  true  "Form object"
// @Success      201   {object}  models.Form
// @Failure      400   {object}  models.ErrorResponse
// @Failure      500   {object}  models.ErrorResponse
// @Router       /forms [post]
func (ctrl *FormController) CreateForm(c *fiber.Ctx) error {
	var request models.Form
	if err := c.BodyParser(&request); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}
	form, err := ctrl.forms.Create(c.UserContext(), request)
	if err != nil {
		return utils.HandleStoreError(c, err, "", "Failed to create form")
	}
	return c.Status(fiber.StatusCreated).JSON(form)
}

// UpdateForm godoc
// @Summary      Update a form
// @Description  Provided top-level keys overwrite, omitted keys are kept
// @Tags         forms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Form ID"
// @Param        body  body      models.FormPatch  true  "Fields to change"
// @Success      200   {object}  models.Form
// @Failure      400   {object}  models.ErrorResponse
// @Failure      404   {object}  models.ErrorResponse
// @Router       /forms/{id} [put]
func (ctrl *FormController) UpdateForm(c *fiber.Ctx) error {
	var patch models.FormPatch
	if err := c.BodyParser(&patch); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}
	updated, err := ctrl.forms.Update(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return utils.HandleStoreError(c, err, "Form not found", "Failed to update form")
	}
	return c.JSON(updated)
}

// DeleteForm godoc
// @Summary      Delete a form and its responses
// @Tags         forms
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Form ID"
// @Success      200  {object}  models.Form
// @Failure      404  {object}  models.ErrorResponse
// @Router       /forms/{id} [delete]
func (ctrl *FormController) DeleteForm(c *fiber.Ctx) error {
	deleted, err := ctrl.forms.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.HandleStoreError(c, err, "Form not found", "Failed to delete form")
	}
	return c.JSON(deleted)
}

// GetFormQRCode godoc
// @Summary      QR code of the form's public link
// @Tags         forms
// @Produce      png
// @Param        id    path      string  true   "Form ID"
// @Param        size  query     int     false  "Image size in pixels"  default(256)
// @Success      200   {file}    binary
// @Failure      404   {object}  models.ErrorResponse
// @Router       /forms/{id}/qrcode [get]
func (ctrl *FormController) GetFormQRCode(c *fiber.Ctx) error {
	form, err := ctrl.forms.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.HandleStoreError(c, err, "Form not found", "Failed to fetch form")
	}
	png, err := qrcode.GeneratePNG(qrcode.FormLink(ctrl.linkBase, form.ID), c.QueryInt("size", qrcode.DefaultSize))
	if err != nil {
		return utils.HandleStoreError(c, err, "", "Failed to generate QR code")
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
