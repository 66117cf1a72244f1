package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeNormalizeResponses = "maintenance:normalize-responses"
	TypeDefaultFolders     = "maintenance:default-folders"
)

// taskNames maps the name used on the admin route and the CLI to the task type.
var taskNames = map[string]string{
	"normalize-responses": TypeNormalizeResponses,
	"default-folders":     TypeDefaultFolders,
}

// TaskType resolves a maintenance task name such as "default-folders".
func TaskType(name string) (string, bool) {
	t, ok := taskNames[name]
	return t, ok
}

type MaintenancePayload struct {
	RequestedBy string    `json:"requested_by"`
	RequestedAt time.Time `json:"requested_at"`
}

func NewMaintenanceTask(taskType, requestedBy string) (*asynq.Task, error) {
	payload, err := json.Marshal(MaintenancePayload{RequestedBy: requestedBy, RequestedAt: time.Now().UTC()})
	if err != nil {
		return nil, err
	}
	// MaxRetry 3: both tasks are idempotent
	return asynq.NewTask(taskType, payload, asynq.MaxRetry(3)), nil
}
