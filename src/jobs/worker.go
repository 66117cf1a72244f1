package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"forms-backend/src/store"

	"github.com/hibiken/asynq"
)

// Handlers runs maintenance tasks against one backend.
type Handlers struct {
	backend *store.Backend
}

func NewHandlers(backend *store.Backend) *Handlers {
	return &Handlers{backend: backend}
}

// Register binds every maintenance task type on mux.
func (h *Handlers) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeNormalizeResponses, h.HandleNormalizeResponses)
	mux.HandleFunc(TypeDefaultFolders, h.HandleDefaultFolders)
}

func (h *Handlers) HandleNormalizeResponses(ctx context.Context, t *asynq.Task) error {
	logPayload(t)
	_, err := h.Run(ctx, TypeNormalizeResponses)
	return err
}

func (h *Handlers) HandleDefaultFolders(ctx context.Context, t *asynq.Task) error {
	logPayload(t)
	_, err := h.Run(ctx, TypeDefaultFolders)
	return err
}

// Run executes taskType in-process and returns how many records changed.
func (h *Handlers) Run(ctx context.Context, taskType string) (int, error) {
	var (
		n   int
		err error
	)
	switch taskType {
	case TypeNormalizeResponses:
		n, err = h.backend.Responses.BackfillLegacy(ctx)
	case TypeDefaultFolders:
		n, err = h.backend.Forms.BackfillFolderNames(ctx)
	default:
		return 0, fmt.Errorf("unknown maintenance task %q", taskType)
	}
	if err != nil {
		log.Printf("❌ %s failed: %v", taskType, err)
		return 0, err
	}
	log.Printf("✅ %s: %d record(s) updated", taskType, n)
	return n, nil
}

func logPayload(t *asynq.Task) {
	var p MaintenancePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// ไม่มี payload ก็รันได้
		log.Println("⚠️ Payload decode error:", err)
		return
	}
	log.Printf("🎯 Start %s (requested by %q at %s)", t.Type(), p.RequestedBy, p.RequestedAt.Format("2006-01-02 15:04:05"))
}
