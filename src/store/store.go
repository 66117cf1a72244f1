// Package store holds the form and response entity stores and the two
// interchangeable backends behind them: MongoStore (durable) and
// MemoryStore (in-process fallback, seeded with sample data).
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"forms-backend/src/models"

	"github.com/go-playground/validator/v10"
)

// Mode บอกว่า process นี้ใช้ backend แบบไหน (ตัดสินครั้งเดียวตอน start)
type Mode string

const (
	ModeDurable  Mode = "Durable"
	ModeFallback Mode = "Fallback"
)

var (
	// ErrNotFound is returned when an id does not resolve to a record.
	ErrNotFound = errors.New("not found")
	// ErrBackendUnavailable wraps durable store failures after the store was live.
	ErrBackendUnavailable = errors.New("durable store unavailable")
)

// ValidationError reports a missing or malformed field. Always a client error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// FormStore เก็บ schema ของฟอร์ม
type FormStore interface {
	GetAll(ctx context.Context) ([]models.Form, error)
	GetByID(ctx context.Context, id string) (*models.Form, error)
	Create(ctx context.Context, form models.Form) (*models.Form, error)
	Update(ctx context.Context, id string, patch models.FormPatch) (*models.Form, error)
	// Delete removes the form together with every response that references it.
	Delete(ctx context.Context, id string) (*models.Form, error)
	DistinctFolderNames(ctx context.Context) ([]string, error)
	BackfillFolderNames(ctx context.Context) (int, error)
}

// ResponseStore เก็บคำตอบที่ผู้ใช้ส่งเข้ามา
type ResponseStore interface {
	GetAll(ctx context.Context) ([]models.Response, error)
	GetByID(ctx context.Context, id string) (*models.Response, error)
	GetByForm(ctx context.Context, formID string) ([]models.Response, error)
	GetByBundle(ctx context.Context, bundleID string) ([]models.Response, error)
	Create(ctx context.Context, sub models.Submission) (*models.Response, error)
	BackfillLegacy(ctx context.Context) (int, error)
	Structure(ctx context.Context, limit int) (*models.StructureReport, error)
}

var validate = validator.New()

// prepareForm fills creation defaults and checks presence rules shared by both backends.
func prepareForm(form models.Form, now time.Time) (models.Form, error) {
	form.ID = ""
	form.FolderName = strings.TrimSpace(form.FolderName)
	if form.FolderName == "" {
		form.FolderName = form.FolderFromSchema()
	}
	if form.FolderName == "" {
		form.FolderName = models.DefaultFolderName
	}
	form.CreatedAt = now
	if err := validate.Struct(form); err != nil {
		return form, toValidationError(err)
	}
	return form, nil
}

// applyPatch merges the provided top-level keys into form.
func applyPatch(form models.Form, patch models.FormPatch) (models.Form, error) {
	if patch.FolderName != nil {
		name := strings.TrimSpace(*patch.FolderName)
		if name == "" {
			return form, invalid("folderName", "must not be empty")
		}
		form.FolderName = name
	}
	if patch.SchemaJSON != nil {
		for _, field := range *patch.SchemaJSON {
			if err := validate.Struct(field); err != nil {
				return form, toValidationError(err)
			}
		}
		form.SchemaJSON = cloneFields(*patch.SchemaJSON)
	}
	return form, nil
}

// prepareSubmission trims submitter fields and builds the response to store.
func prepareSubmission(sub models.Submission, now time.Time) (models.Response, error) {
	sub.Form = strings.TrimSpace(sub.Form)
	sub.SubmitterName = strings.TrimSpace(sub.SubmitterName)
	sub.SubmitterEmail = strings.TrimSpace(sub.SubmitterEmail)
	if err := validate.Struct(sub); err != nil {
		return models.Response{}, toValidationError(err)
	}
	answers := cloneAnswers(sub.Answers)
	if answers == nil {
		answers = map[string]interface{}{}
	}
	return models.Response{
		Form:           sub.Form,
		Bundle:         nonEmpty(sub.Bundle),
		FilledBy:       nonEmpty(sub.FilledBy),
		SubmitterName:  sub.SubmitterName,
		SubmitterEmail: sub.SubmitterEmail,
		Answers:        answers,
		SubmittedAt:    now,
	}, nil
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

var fieldNames = map[string]string{
	"Form":           "form",
	"SubmitterName":  "submitterName",
	"SubmitterEmail": "submitterEmail",
	"SchemaJSON":     "schemaJson",
	"ID":             "id",
	"Type":           "type",
	"Options":        "options",
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}
	fe := verrs[0]
	name, ok := fieldNames[fe.Field()]
	if !ok {
		name = fe.Field()
	}
	switch fe.Tag() {
	case "required", "required_if":
		return invalid(name, "is required")
	case "unique":
		return invalid(name, "field ids must be unique")
	default:
		return invalid(name, fmt.Sprintf("failed %q check", fe.Tag()))
	}
}

var (
	legacyNameKeys  = []string{"name", "fullName", "firstName", "name_1", "your_name"}
	legacyEmailKeys = []string{"email", "emailAddress", "email_1", "your_email"}
)

// NormalizeLegacy fills the submitter fields and answers that responses
// stored before those fields existed are missing. Applying it to an already
// normalised response returns it unchanged.
func NormalizeLegacy(resp models.Response) models.Response {
	if resp.SubmitterName == "" {
		resp.SubmitterName = firstAnswer(resp.Answers, legacyNameKeys, models.LegacySubmitterName)
	}
	if resp.SubmitterEmail == "" {
		resp.SubmitterEmail = firstAnswer(resp.Answers, legacyEmailKeys, models.LegacySubmitterEmail)
	}
	if resp.Answers == nil {
		resp.Answers = map[string]interface{}{}
	}
	return resp
}

// NeedsNormalize reports whether NormalizeLegacy would change resp.
func NeedsNormalize(resp models.Response) bool {
	return resp.SubmitterName == "" || resp.SubmitterEmail == "" || resp.Answers == nil
}

func firstAnswer(answers map[string]interface{}, keys []string, fallback string) string {
	for _, k := range keys {
		if s, ok := answers[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return fallback
}

func structureOf(resp models.Response) models.ResponseStructure {
	keys := make([]string, 0, len(resp.Answers))
	for k := range resp.Answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return models.ResponseStructure{
		ID:                resp.ID,
		HasForm:           resp.Form != "",
		HasSubmitterName:  resp.SubmitterName != "",
		HasSubmitterEmail: resp.SubmitterEmail != "",
		HasAnswers:        resp.Answers != nil,
		AnswersKeys:       keys,
		SubmittedAt:       resp.SubmittedAt,
	}
}

// sortNewestFirst orders by submittedAt descending; ties keep their order.
func sortNewestFirst(list []models.Response) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].SubmittedAt.After(list[j].SubmittedAt)
	})
}

func cloneFields(fields []models.FieldDefinition) []models.FieldDefinition {
	if fields == nil {
		return nil
	}
	out := make([]models.FieldDefinition, len(fields))
	for i, f := range fields {
		if f.Options != nil {
			f.Options = append([]string(nil), f.Options...)
		}
		out[i] = f
	}
	return out
}

func cloneForm(f models.Form) models.Form {
	f.SchemaJSON = cloneFields(f.SchemaJSON)
	return f
}

func cloneAnswers(answers map[string]interface{}) map[string]interface{} {
	if answers == nil {
		return nil
	}
	out := make(map[string]interface{}, len(answers))
	for k, v := range answers {
		out[k] = v
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneResponse(r models.Response) models.Response {
	r.Answers = cloneAnswers(r.Answers)
	r.Bundle = cloneString(r.Bundle)
	r.FilledBy = cloneString(r.FilledBy)
	return r
}
