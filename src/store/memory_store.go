package store

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"forms-backend/src/models"
	"forms-backend/src/seeder"
)

// MemoryStore is the fallback backend: process-lifetime only, no durability.
// One RWMutex guards both collections so a form delete and its cascade are
// observed together. Records are copied on the way in and out.
type MemoryStore struct {
	mu        sync.RWMutex
	forms     []models.Form
	responses []models.Response
	idCounter int
	now       func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{idCounter: 1, now: time.Now}
}

// NewSeededMemoryStore returns a store holding the sample forms and responses.
func NewSeededMemoryStore() *MemoryStore {
	s := NewMemoryStore()
	s.Seed(seeder.SampleForms(), seeder.SampleResponses)
	return s
}

// Seed replaces the contents with the given forms and the responses built for their ids.
func (s *MemoryStore) Seed(forms []models.Form, responsesFor func(formIDs []string) []models.Response) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.forms = s.forms[:0]
	s.responses = s.responses[:0]
	ids := make([]string, 0, len(forms))
	for _, f := range forms {
		f = cloneForm(f)
		f.ID = s.nextID("form")
		ids = append(ids, f.ID)
		s.forms = append(s.forms, f)
	}
	if responsesFor != nil {
		for _, r := range responsesFor(ids) {
			r = cloneResponse(r)
			r.ID = s.nextID("resp")
			s.responses = append(s.responses, r)
		}
	}
	log.Printf("📝 Memory data initialized: %d forms, %d responses", len(s.forms), len(s.responses))
}

// Forms returns the form view of the store.
func (s *MemoryStore) Forms() FormStore { return memoryForms{s} }

// Responses returns the response view of the store.
func (s *MemoryStore) Responses() ResponseStore { return memoryResponses{s} }

// nextID must be called with the write lock held.
func (s *MemoryStore) nextID(prefix string) string {
	id := fmt.Sprintf("%s_%d", prefix, s.idCounter)
	s.idCounter++
	return id
}

func (s *MemoryStore) formIndex(id string) int {
	for i := range s.forms {
		if s.forms[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *MemoryStore) filterResponses(match func(models.Response) bool) []models.Response {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Response, 0)
	for _, r := range s.responses {
		if match(r) {
			out = append(out, cloneResponse(r))
		}
	}
	sortNewestFirst(out)
	return out
}

// --- forms ---

type memoryForms struct{ s *MemoryStore }

func (m memoryForms) GetAll(ctx context.Context) ([]models.Form, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	out := make([]models.Form, 0, len(m.s.forms))
	for _, f := range m.s.forms {
		out = append(out, cloneForm(f))
	}
	return out, nil
}

func (m memoryForms) GetByID(ctx context.Context, id string) (*models.Form, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	i := m.s.formIndex(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	f := cloneForm(m.s.forms[i])
	return &f, nil
}

func (m memoryForms) Create(ctx context.Context, form models.Form) (*models.Form, error) {
	form, err := prepareForm(cloneForm(form), m.s.now())
	if err != nil {
		return nil, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	form.ID = m.s.nextID("form")
	m.s.forms = append(m.s.forms, form)
	out := cloneForm(form)
	return &out, nil
}

func (m memoryForms) Update(ctx context.Context, id string, patch models.FormPatch) (*models.Form, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	i := m.s.formIndex(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	updated, err := applyPatch(m.s.forms[i], patch)
	if err != nil {
		return nil, err
	}
	m.s.forms[i] = updated
	out := cloneForm(updated)
	return &out, nil
}

func (m memoryForms) Delete(ctx context.Context, id string) (*models.Form, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	i := m.s.formIndex(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	deleted := m.s.forms[i]
	m.s.forms = append(m.s.forms[:i], m.s.forms[i+1:]...)

	kept := m.s.responses[:0]
	for _, r := range m.s.responses {
		if r.Form != id {
			kept = append(kept, r)
		}
	}
	// clear the tail so removed responses can be collected
	for j := len(kept); j < len(m.s.responses); j++ {
		m.s.responses[j] = models.Response{}
	}
	m.s.responses = kept
	return &deleted, nil
}

func (m memoryForms) DistinctFolderNames(ctx context.Context) ([]string, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, f := range m.s.forms {
		if f.FolderName == "" {
			continue
		}
		if _, ok := seen[f.FolderName]; !ok {
			seen[f.FolderName] = struct{}{}
			out = append(out, f.FolderName)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m memoryForms) BackfillFolderNames(ctx context.Context) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	n := 0
	for i := range m.s.forms {
		if m.s.forms[i].FolderName == "" {
			m.s.forms[i].FolderName = models.DefaultFolderName
			n++
		}
	}
	return n, nil
}

// --- responses ---

type memoryResponses struct{ s *MemoryStore }

func (m memoryResponses) GetAll(ctx context.Context) ([]models.Response, error) {
	return m.s.filterResponses(func(models.Response) bool { return true }), nil
}

func (m memoryResponses) GetByID(ctx context.Context, id string) (*models.Response, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, r := range m.s.responses {
		if r.ID == id {
			out := cloneResponse(r)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m memoryResponses) GetByForm(ctx context.Context, formID string) ([]models.Response, error) {
	return m.s.filterResponses(func(r models.Response) bool { return r.Form == formID }), nil
}

func (m memoryResponses) GetByBundle(ctx context.Context, bundleID string) ([]models.Response, error) {
	return m.s.filterResponses(func(r models.Response) bool {
		return r.Bundle != nil && *r.Bundle == bundleID
	}), nil
}

func (m memoryResponses) Create(ctx context.Context, sub models.Submission) (*models.Response, error) {
	resp, err := prepareSubmission(sub, m.s.now())
	if err != nil {
		return nil, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.formIndex(resp.Form) < 0 {
		return nil, invalid("form", "form not found")
	}
	resp.ID = m.s.nextID("resp")
	m.s.responses = append(m.s.responses, resp)
	out := cloneResponse(resp)
	return &out, nil
}

func (m memoryResponses) BackfillLegacy(ctx context.Context) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	n := 0
	for i, r := range m.s.responses {
		if NeedsNormalize(r) {
			m.s.responses[i] = NormalizeLegacy(r)
			n++
		}
	}
	return n, nil
}

func (m memoryResponses) Structure(ctx context.Context, limit int) (*models.StructureReport, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	report := &models.StructureReport{
		TotalResponses:  len(m.s.responses),
		SampleResponses: make([]models.ResponseStructure, 0),
	}
	for i, r := range m.s.responses {
		if limit > 0 && i >= limit {
			break
		}
		report.SampleResponses = append(report.SampleResponses, structureOf(r))
	}
	return report, nil
}
