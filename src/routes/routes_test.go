package routes_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"forms-backend/src/models"
	"forms-backend/src/utils"
	"forms-backend/test"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submission(form, name, email string) fiber.Map {
	return fiber.Map{
		"form":           form,
		"submitterName":  name,
		"submitterEmail": email,
		"answers":        fiber.Map{"comments_1": "hello"},
	}
}

func TestResponseRoutes(t *testing.T) {
	suite := test.NewTestSuiteResult("Response Routes")
	defer suite.PrintSummary()

	suite.Track(t, "SubmitThenAdminListsNewestFirst", func(t *testing.T) {
		app, _ := test.NewTestApp(t)
		admin := test.Token(t, "admin-1", utils.RoleAdmin)

		status, raw := test.Do(t, app, fiber.MethodPost, "/api/responses", submission("form_1", "Carol", "carol@example.com"), "")
		require.Equal(t, fiber.StatusCreated, status, string(raw))
		created := test.Decode[models.Response](t, raw)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "form_1", created.Form)
		assert.Nil(t, created.FilledBy)

		status, raw = test.Do(t, app, fiber.MethodGet, "/api/responses/form/form_1", nil, admin)
		require.Equal(t, fiber.StatusOK, status)
		list := test.Decode[[]models.Response](t, raw)
		require.Len(t, list, 3)
		assert.Equal(t, created.ID, list[0].ID)
		assert.Equal(t, "Jane Smith", list[1].SubmitterName)
		assert.Equal(t, "John Doe", list[2].SubmitterName)
	})

	suite.Track(t, "FormIdAliasAndTrimming", func(t *testing.T) {
		app, _ := test.NewTestApp(t)
		body := fiber.Map{"formId": "form_3", "submitterName": "  Jane  ", "submitterEmail": " jane@example.com "}

		status, raw := test.Do(t, app, fiber.MethodPost, "/api/responses", body, "")
		require.Equal(t, fiber.StatusCreated, status, string(raw))
		created := test.Decode[models.Response](t, raw)
		assert.Equal(t, "form_3", created.Form)
		assert.Equal(t, "Jane", created.SubmitterName)
		assert.Equal(t, "jane@example.com", created.SubmitterEmail)
		assert.NotNil(t, created.Answers)
	})

	suite.Track(t, "AuthenticatedSubmitterIsRecorded", func(t *testing.T) {
		app, _ := test.NewTestApp(t)
		token := test.Token(t, "user-42", utils.RoleUser)
		body := submission("form_2", "Dan", "dan@example.com")
		body["bundleId"] = "bundle-7"

		status, raw := test.Do(t, app, fiber.MethodPost, "/api/responses", body, token)
		require.Equal(t, fiber.StatusCreated, status, string(raw))
		created := test.Decode[models.Response](t, raw)
		require.NotNil(t, created.FilledBy)
		assert.Equal(t, "user-42", *created.FilledBy)

		admin := test.Token(t, "admin-1", utils.RoleAdmin)
		status, raw = test.Do(t, app, fiber.MethodGet, "/api/responses/bundle/bundle-7", nil, admin)
		require.Equal(t, fiber.StatusOK, status)
		list := test.Decode[[]models.Response](t, raw)
		require.Len(t, list, 1)
		assert.Equal(t, created.ID, list[0].ID)
	})

	suite.Track(t, "MissingEmailIsRejectedAndNothingStored", func(t *testing.T) {
		app, _ := test.NewTestApp(t)
		body := fiber.Map{"form": "form_1", "submitterName": "NoEmail"}

		status, raw := test.Do(t, app, fiber.MethodPost, "/api/responses", body, "")
		assert.Equal(t, fiber.StatusBadRequest, status)
		errResp := test.Decode[models.ErrorResponse](t, raw)
		assert.Equal(t, "Submitter name and email are required", errResp.Error)

		status, raw = test.Do(t, app, fiber.MethodGet, "/api/responses", nil, "")
		require.Equal(t, fiber.StatusOK, status)
		assert.Len(t, test.Decode[[]models.Response](t, raw), 4)
	})

	suite.Track(t, "WhitespaceNameAndMissingFormAreRejected", func(t *testing.T) {
		app, _ := test.NewTestApp(t)

		status, _ := test.Do(t, app, fiber.MethodPost, "/api/responses", submission("form_1", "   ", "x@example.com"), "")
		assert.Equal(t, fiber.StatusBadRequest, status)

		status, raw := test.Do(t, app, fiber.MethodPost, "/api/responses", fiber.Map{"submitterName": "A", "submitterEmail": "a@b.c"}, "")
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "Form ID is required", test.Decode[models.ErrorResponse](t, raw).Error)

		status, _ = test.Do(t, app, fiber.MethodPost, "/api/responses", submission("form_999", "A", "a@b.c"), "")
		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	suite.Track(t, "GetByIDAndNotFound", func(t *testing.T) {
		app, _ := test.NewTestApp(t)

		status, raw := test.Do(t, app, fiber.MethodGet, "/api/responses/resp_5", nil, "")
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "John Doe", test.Decode[models.Response](t, raw).SubmitterName)

		status, raw = test.Do(t, app, fiber.MethodGet, "/api/responses/does-not-exist", nil, "")
		assert.Equal(t, fiber.StatusNotFound, status)
		assert.Equal(t, "Response not found", test.Decode[models.ErrorResponse](t, raw).Error)
	})

	suite.Track(t, "AdminListingRequiresAdmin", func(t *testing.T) {
		app, _ := test.NewTestApp(t)

		status, _ := test.Do(t, app, fiber.MethodGet, "/api/responses/form/form_1", nil, "")
		assert.Equal(t, fiber.StatusUnauthorized, status)

		status, _ = test.Do(t, app, fiber.MethodGet, "/api/responses/form/form_1", nil, test.Token(t, "u1", utils.RoleUser))
		assert.Equal(t, fiber.StatusForbidden, status)

		status, _ = test.Do(t, app, fiber.MethodGet, "/api/responses/bundle/b1", nil, test.Token(t, "d1", utils.RoleDesigner))
		assert.Equal(t, fiber.StatusForbidden, status)

		status, _ = test.Do(t, app, fiber.MethodGet, "/api/responses/form/form_1", nil, "not-a-jwt")
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})

	suite.Track(t, "UnknownFormOrBundleListsEmpty", func(t *testing.T) {
		app, _ := test.NewTestApp(t)
		admin := test.Token(t, "admin-1", utils.RoleAdmin)

		status, raw := test.Do(t, app, fiber.MethodGet, "/api/responses/form/form_3", nil, admin)
		require.Equal(t, fiber.StatusOK, status)
		assert.JSONEq(t, "[]", string(raw))

		status, raw = test.Do(t, app, fiber.MethodGet, "/api/responses/bundle/none", nil, admin)
		require.Equal(t, fiber.StatusOK, status)
		assert.JSONEq(t, "[]", string(raw))
	})

	suite.Track(t, "DebugStructure", func(t *testing.T) {
		app, _ := test.NewTestApp(t)
		admin := test.Token(t, "admin-1", utils.RoleAdmin)

		status, raw := test.Do(t, app, fiber.MethodGet, "/api/responses/debug/structure", nil, admin)
		require.Equal(t, fiber.StatusOK, status)
		report := test.Decode[models.StructureReport](t, raw)
		assert.Equal(t, 4, report.TotalResponses)
		assert.Len(t, report.SampleResponses, 3)
	})
}

func TestFormRoutes(t *testing.T) {
	suite := test.NewTestSuiteResult("Form Routes")
	defer suite.PrintSummary()

	suite.Track(t, "ListAndFolders", func(t *testing.T) {
		app, _ := test.NewTestApp(t)

		status, raw := test.Do(t, app, fiber.MethodGet, "/api/forms", nil, "")
		require.Equal(t, fiber.StatusOK, status)
		forms := test.Decode[[]models.Form](t, raw)
		require.Len(t, forms, 4)
		assert.Equal(t, "form_1", forms[0].ID)

		status, raw = test.Do(t, app, fiber.MethodGet, "/api/forms/folders", nil, "")
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, []string{"HR", "Marketing", "Marketing/Campaigns", "Support"}, test.Decode[[]string](t, raw))
	})

	suite.Track(t, "ShareQRCode", func(t *testing.T) {
		app, _ := test.NewTestApp(t)

		status, raw := test.Do(t, app, fiber.MethodGet, "/api/forms/form_2/qrcode?size=200", nil, "")
		require.Equal(t, fiber.StatusOK, status)
		assert.True(t, strings.HasPrefix(string(raw), "\x89PNG"))

		status, _ = test.Do(t, app, fiber.MethodGet, "/api/forms/form_404/qrcode", nil, "")
		assert.Equal(t, fiber.StatusNotFound, status)
	})

	suite.Track(t, "DeleteCascadesResponses", func(t *testing.T) {
		app, _ := test.NewTestApp(t)
		designer := test.Token(t, "d1", utils.RoleDesigner)
		admin := test.Token(t, "admin-1", utils.RoleAdmin)

		status, raw := test.Do(t, app, fiber.MethodDelete, "/api/forms/form_1", nil, designer)
		require.Equal(t, fiber.StatusOK, status, string(raw))
		assert.Equal(t, "form_1", test.Decode[models.Form](t, raw).ID)

		status, raw = test.Do(t, app, fiber.MethodGet, "/api/responses/form/form_1", nil, admin)
		require.Equal(t, fiber.StatusOK, status)
		assert.JSONEq(t, "[]", string(raw))

		status, _ = test.Do(t, app, fiber.MethodGet, "/api/forms/form_1", nil, "")
		assert.Equal(t, fiber.StatusNotFound, status)

		// other forms keep their responses
		status, raw = test.Do(t, app, fiber.MethodGet, "/api/responses", nil, "")
		require.Equal(t, fiber.StatusOK, status)
		assert.Len(t, test.Decode[[]models.Response](t, raw), 2)

		status, _ = test.Do(t, app, fiber.MethodDelete, "/api/forms/form_1", nil, designer)
		assert.Equal(t, fiber.StatusNotFound, status)
	})

	suite.Track(t, "CreateAndUpdate", func(t *testing.T) {
		app, _ := test.NewTestApp(t)
		designer := test.Token(t, "d1", utils.RoleDesigner)
		body := fiber.Map{
			"schemaJson": []fiber.Map{
				{"id": "folderName_9", "type": "folderName", "label": "Events"},
				{"id": "name", "type": "text", "label": "Name", "required": true},
			},
		}

		status, raw := test.Do(t, app, fiber.MethodPost, "/api/forms", body, designer)
		require.Equal(t, fiber.StatusCreated, status, string(raw))
		created := test.Decode[models.Form](t, raw)
		assert.Equal(t, "Events", created.FolderName)
		assert.False(t, created.CreatedAt.IsZero())

		status, raw = test.Do(t, app, fiber.MethodPatch, "/api/forms/"+created.ID, fiber.Map{"folderName": "Renamed"}, designer)
		require.Equal(t, fiber.StatusOK, status, string(raw))
		updated := test.Decode[models.Form](t, raw)
		assert.Equal(t, "Renamed", updated.FolderName)
		assert.Len(t, updated.SchemaJSON, 2)
		assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

		status, _ = test.Do(t, app, fiber.MethodPut, "/api/forms/missing", fiber.Map{"folderName": "X"}, designer)
		assert.Equal(t, fiber.StatusNotFound, status)
	})

	suite.Track(t, "InvalidFormIsRejected", func(t *testing.T) {
		app, _ := test.NewTestApp(t)
		designer := test.Token(t, "d1", utils.RoleDesigner)

		status, _ := test.Do(t, app, fiber.MethodPost, "/api/forms", fiber.Map{"folderName": "X"}, designer)
		assert.Equal(t, fiber.StatusBadRequest, status)

		dup := fiber.Map{"schemaJson": []fiber.Map{
			{"id": "a", "type": "text"},
			{"id": "a", "type": "email"},
		}}
		status, _ = test.Do(t, app, fiber.MethodPost, "/api/forms", dup, designer)
		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	suite.Track(t, "WritesRequireDesigner", func(t *testing.T) {
		app, _ := test.NewTestApp(t)
		body := fiber.Map{"schemaJson": []fiber.Map{{"id": "a", "type": "text"}}}

		status, _ := test.Do(t, app, fiber.MethodPost, "/api/forms", body, "")
		assert.Equal(t, fiber.StatusUnauthorized, status)

		status, _ = test.Do(t, app, fiber.MethodPost, "/api/forms", body, test.Token(t, "u1", utils.RoleUser))
		assert.Equal(t, fiber.StatusForbidden, status)

		status, _ = test.Do(t, app, fiber.MethodPost, "/api/forms", body, test.Token(t, "admin-1", utils.RoleAdmin))
		assert.Equal(t, fiber.StatusCreated, status)
	})
}

func TestHealthAndAdmin(t *testing.T) {
	app, _ := test.NewTestApp(t)

	status, raw := test.Do(t, app, fiber.MethodGet, "/api/health", nil, "")
	require.Equal(t, fiber.StatusOK, status)
	health := test.Decode[models.HealthStatus](t, raw)
	assert.Equal(t, "running", health.Status)
	assert.Equal(t, "Fallback", health.Database)
	assert.NotEmpty(t, health.Timestamp)

	t.Run("MaintenanceWithAPIKey", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodPost, "/api/admin/maintenance/default-folders", nil)
		req.Header.Set("X-API-Key", test.APIKey)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		req = httptest.NewRequest(fiber.MethodPost, "/api/admin/maintenance/default-folders", nil)
		req.Header.Set("X-API-Key", "wrong")
		resp, err = app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("UnknownMaintenanceTask", func(t *testing.T) {
		status, _ := test.Do(t, app, fiber.MethodPost, "/api/admin/maintenance/reindex", nil, test.Token(t, "admin-1", utils.RoleAdmin))
		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run("NormalizeInline", func(t *testing.T) {
		status, raw := test.Do(t, app, fiber.MethodPost, "/api/admin/maintenance/normalize-responses", nil, test.Token(t, "admin-1", utils.RoleAdmin))
		require.Equal(t, fiber.StatusOK, status)
		out := test.Decode[map[string]interface{}](t, raw)
		assert.Equal(t, "executed", out["status"])
		assert.EqualValues(t, 0, out["updated"])
	})

	t.Run("Logout", func(t *testing.T) {
		status, _ := test.Do(t, app, fiber.MethodPost, "/api/auth/logout", nil, "")
		assert.Equal(t, fiber.StatusUnauthorized, status)

		status, raw := test.Do(t, app, fiber.MethodPost, "/api/auth/logout", nil, test.Token(t, "u1", utils.RoleUser))
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, false, test.Decode[map[string]interface{}](t, raw)["revoked"])
	})

	t.Run("Metrics", func(t *testing.T) {
		status, raw := test.Do(t, app, fiber.MethodGet, "/metrics", nil, "")
		require.Equal(t, fiber.StatusOK, status)
		assert.Contains(t, string(raw), "forms_http_requests_total")
	})
}
