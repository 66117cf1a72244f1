package controllers

import (
	"log"
	"strings"

	"forms-backend/src/middleware"
	"forms-backend/src/models"
	"forms-backend/src/store"
	"forms-backend/src/utils"

	"github.com/gofiber/fiber/v2"
)

// --------- Input DTOs ---------

// submissionIn accepts both `form` and the older `formId` key.
type submissionIn struct {
	Form           string                 `json:"form"`
	FormID         string                 `json:"formId"`
	BundleID       *string                `json:"bundleId"`
	SubmitterName  string                 `json:"submitterName"`
	SubmitterEmail string                 `json:"submitterEmail"`
	Answers        map[string]interface{} `json:"answers"`
}

func (in submissionIn) formRef() string {
	if f := strings.TrimSpace(in.Form); f != "" {
		return f
	}
	return strings.TrimSpace(in.FormID)
}

// ResponseController exposes the response entity store over HTTP.
type ResponseController struct {
	responses store.ResponseStore
}

func NewResponseController(responses store.ResponseStore) *ResponseController {
	return &ResponseController{responses: responses}
}

// --------- Create ---------

// CreateResponse godoc
// @Summary      Submit a response
// @Description  Public. `formId` is accepted as an alias of `form`.
// @Tags         responses
// @Accept       json
// @Produce      json
// @Param        body  body      submissionIn  true  "Submission"
// @Success      201   {object}  models.Response
// @Failure      400   {object}  models.ErrorResponse
// @Failure      500   {object}  models.ErrorResponse
// @Router       /responses [post]
func (ctrl *ResponseController) CreateResponse(c *fiber.Ctx) error {
	var in submissionIn
	if err := c.BodyParser(&in); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}

	formID := in.formRef()
	if formID == "" {
		return utils.HandleError(c, fiber.StatusBadRequest, "Form ID is required")
	}
	if strings.TrimSpace(in.SubmitterName) == "" || strings.TrimSpace(in.SubmitterEmail) == "" {
		return utils.HandleError(c, fiber.StatusBadRequest, "Submitter name and email are required")
	}

	sub := models.Submission{
		Form:           formID,
		Bundle:         in.BundleID,
		SubmitterName:  in.SubmitterName,
		SubmitterEmail: in.SubmitterEmail,
		Answers:        in.Answers,
	}
	if claims := middleware.ClaimsFrom(c); claims != nil && claims.UserID != "" {
		sub.FilledBy = &claims.UserID
	}

	created, err := ctrl.responses.Create(c.UserContext(), sub)
	if err != nil {
		return utils.HandleStoreError(c, err, "", "Failed to submit response")
	}
	log.Printf("[responses] IN form=%s answers=%d", created.Form, len(created.Answers))
	return c.Status(fiber.StatusCreated).JSON(created)
}

// --------- Read ---------

// GetAllResponses godoc
// @Summary      Get all responses, newest first
// @Tags         responses
// @Produce      json
// @Success      200  {array}   models.Response
// @Failure      500  {object}  models.ErrorResponse
// @Router       /responses [get]
func (ctrl *ResponseController) GetAllResponses(c *fiber.Ctx) error {
	responses, err := ctrl.responses.GetAll(c.UserContext())
	if err != nil {
		return utils.HandleStoreError(c, err, "", "Failed to fetch responses")
	}
	return c.JSON(responses)
}

// GetResponseByID godoc
// @Summary      Get a response by ID
// @Tags         responses
// @Produce      json
// @Param        responseId  path      string  true  "Response ID"
// @Success      200         {object}  models.Response
// @Failure      404         {object}  models.ErrorResponse
// @Router       /responses/{responseId} [get]
func (ctrl *ResponseController) GetResponseByID(c *fiber.Ctx) error {
	response, err := ctrl.responses.GetByID(c.UserContext(), c.Params("responseId"))
	if err != nil {
		return utils.HandleStoreError(c, err, "Response not found", "Failed to fetch response")
	}
	return c.JSON(response)
}

// GetResponsesByForm godoc
// @Summary      Admin: list responses of a form
// @Tags         responses
// @Produce      json
// @Security     BearerAuth
// @Param        formId  path      string  true  "Form ID"
// @Success      200     {array}   models.Response
// @Failure      401     {object}  models.ErrorResponse
// @Failure      403     {object}  models.ErrorResponse
// @Router       /responses/form/{formId} [get]
func (ctrl *ResponseController) GetResponsesByForm(c *fiber.Ctx) error {
	responses, err := ctrl.responses.GetByForm(c.UserContext(), c.Params("formId"))
	if err != nil {
		return utils.HandleStoreError(c, err, "", "Failed to fetch responses")
	}
	return c.JSON(responses)
}

// GetResponsesByBundle godoc
// @Summary      Admin: list responses of a bundle
// @Tags         responses
// @Produce      json
// @Security     BearerAuth
// @Param        bundleId  path      string  true  "Bundle ID"
// @Success      200       {array}   models.Response
// @Failure      401       {object}  models.ErrorResponse
// @Failure      403       {object}  models.ErrorResponse
// @Router       /responses/bundle/{bundleId} [get]
func (ctrl *ResponseController) GetResponsesByBundle(c *fiber.Ctx) error {
	responses, err := ctrl.responses.GetByBundle(c.UserContext(), c.Params("bundleId"))
	if err != nil {
		return utils.HandleStoreError(c, err, "", "Failed to fetch responses")
	}
	return c.JSON(responses)
}

// GetResponseStructure godoc
// @Summary      Admin: which fields stored responses carry
// @Tags         responses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.StructureReport
// @Router       /responses/debug/structure [get]
func (ctrl *ResponseController) GetResponseStructure(c *fiber.Ctx) error {
	report, err := ctrl.responses.Structure(c.UserContext(), c.QueryInt("limit", 3))
	if err != nil {
		return utils.HandleStoreError(c, err, "", "Debug failed")
	}
	return c.JSON(report)
}
