package controllers

import (
	"log"

	"forms-backend/src/jobs"
	"forms-backend/src/middleware"
	"forms-backend/src/store"
	"forms-backend/src/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// MaintenanceController runs the backfill tasks, either through the asynq
// queue or in-process.
type MaintenanceController struct {
	handlers *jobs.Handlers
	queue    Enqueuer
}

// NewMaintenanceController queues tasks only when the backend is durable; a
// separate worker process cannot see the in-memory fallback.
func NewMaintenanceController(backend *store.Backend, client *asynq.Client) *MaintenanceController {
	ctrl := &MaintenanceController{handlers: jobs.NewHandlers(backend)}
	if client != nil && backend.Mode == store.ModeDurable {
		ctrl.queue = client
	}
	return ctrl
}

// RunMaintenance godoc
// @Summary      Run a maintenance task
// @Description  normalize-responses fills submitter fields on legacy responses; default-folders sets folderName on forms missing one. Returns 202 when queued, 200 when run inline.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        task  path      string  true  "normalize-responses | default-folders"
// @Success      200   {object}  map[string]interface{}
// @Success      202   {object}  map[string]interface{}
// @Failure      400   {object}  models.ErrorResponse
// @Failure      500   {object}  models.ErrorResponse
// @Router       /admin/maintenance/{task} [post]
func (ctrl *MaintenanceController) RunMaintenance(c *fiber.Ctx) error {
	name := c.Params("task")
	taskType, ok := jobs.TaskType(name)
	if !ok {
		return utils.HandleError(c, fiber.StatusBadRequest, "Unknown maintenance task: "+name)
	}

	if ctrl.queue != nil {
		requestedBy := ""
		if claims := middleware.ClaimsFrom(c); claims != nil {
			requestedBy = claims.UserID
		}
		task, err := jobs.NewMaintenanceTask(taskType, requestedBy)
		if err != nil {
			return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
		}
		info, err := ctrl.queue.Enqueue(task, asynq.TaskID(name+"-"+uuid.NewString()))
		if err == nil {
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
				"status": "enqueued",
				"task":   name,
				"taskId": info.ID,
				"queue":  info.Queue,
			})
		}
		log.Println("⚠️ enqueue failed, running inline:", err)
	}

	updated, err := ctrl.handlers.Run(c.UserContext(), taskType)
	if err != nil {
		return utils.HandleStoreError(c, err, "", "Maintenance task failed")
	}
	return c.JSON(fiber.Map{"status": "executed", "task": name, "updated": updated})
}
