package store

import (
	"context"
	"errors"
	"time"

	"forms-backend/src/metrics"
	"forms-backend/src/models"
)

func outcome(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.As(err, &verr):
		return "invalid"
	case errors.Is(err, ErrBackendUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}

type instrumentedForms struct {
	next    FormStore
	backend string
}

// InstrumentForms records a metric for every call made through next.
func InstrumentForms(next FormStore, mode Mode) FormStore {
	return instrumentedForms{next: next, backend: string(mode)}
}

func (i instrumentedForms) observe(op string, start time.Time, err error) {
	metrics.ObserveStore(i.backend, "form", op, outcome(err), time.Since(start))
}

func (i instrumentedForms) GetAll(ctx context.Context) (out []models.Form, err error) {
	defer func(start time.Time) { i.observe("getAll", start, err) }(time.Now())
	return i.next.GetAll(ctx)
}

func (i instrumentedForms) GetByID(ctx context.Context, id string) (out *models.Form, err error) {
	defer func(start time.Time) { i.observe("getById", start, err) }(time.Now())
	return i.next.GetByID(ctx, id)
}

func (i instrumentedForms) Create(ctx context.Context, form models.Form) (out *models.Form, err error) {
	defer func(start time.Time) { i.observe("create", start, err) }(time.Now())
	return i.next.Create(ctx, form)
}

func (i instrumentedForms) Update(ctx context.Context, id string, patch models.FormPatch) (out *models.Form, err error) {
	defer func(start time.Time) { i.observe("update", start, err) }(time.Now())
	return i.next.Update(ctx, id, patch)
}

func (i instrumentedForms) Delete(ctx context.Context, id string) (out *models.Form, err error) {
	defer func(start time.Time) { i.observe("delete", start, err) }(time.Now())
	return i.next.Delete(ctx, id)
}

func (i instrumentedForms) DistinctFolderNames(ctx context.Context) (out []string, err error) {
	defer func(start time.Time) { i.observe("distinctFolderNames", start, err) }(time.Now())
	return i.next.DistinctFolderNames(ctx)
}

func (i instrumentedForms) BackfillFolderNames(ctx context.Context) (n int, err error) {
	defer func(start time.Time) { i.observe("backfillFolderNames", start, err) }(time.Now())
	return i.next.BackfillFolderNames(ctx)
}

type instrumentedResponses struct {
	next    ResponseStore
	backend string
}

// InstrumentResponses records a metric for every call made through next.
func InstrumentResponses(next ResponseStore, mode Mode) ResponseStore {
	return instrumentedResponses{next: next, backend: string(mode)}
}

func (i instrumentedResponses) observe(op string, start time.Time, err error) {
	metrics.ObserveStore(i.backend, "response", op, outcome(err), time.Since(start))
}

func (i instrumentedResponses) GetAll(ctx context.Context) (out []models.Response, err error) {
	defer func(start time.Time) { i.observe("getAll", start, err) }(time.Now())
	return i.next.GetAll(ctx)
}

func (i instrumentedResponses) GetByID(ctx context.Context, id string) (out *models.Response, err error) {
	defer func(start time.Time) { i.observe("getById", start, err) }(time.Now())
	return i.next.GetByID(ctx, id)
}

func (i instrumentedResponses) GetByForm(ctx context.Context, formID string) (out []models.Response, err error) {
	defer func(start time.Time) { i.observe("getByForm", start, err) }(time.Now())
	return i.next.GetByForm(ctx, formID)
}

func (i instrumentedResponses) GetByBundle(ctx context.Context, bundleID string) (out []models.Response, err error) {
	defer func(start time.Time) { i.observe("getByBundle", start, err) }(time.Now())
	return i.next.GetByBundle(ctx, bundleID)
}

func (i instrumentedResponses) Create(ctx context.Context, sub models.Submission) (out *models.Response, err error) {
	defer func(start time.Time) { i.observe("create", start, err) }(time.Now())
	return i.next.Create(ctx, sub)
}

func (i instrumentedResponses) BackfillLegacy(ctx context.Context) (n int, err error) {
	defer func(start time.Time) { i.observe("backfillLegacy", start, err) }(time.Now())
	return i.next.BackfillLegacy(ctx)
}

func (i instrumentedResponses) Structure(ctx context.Context, limit int) (out *models.StructureReport, err error) {
	defer func(start time.Time) { i.observe("structure", start, err) }(time.Now())
	return i.next.Structure(ctx, limit)
}
