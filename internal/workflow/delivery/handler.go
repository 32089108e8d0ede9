package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authdelivery "taskportal-backend/internal/auth/delivery"
	"taskportal-backend/internal/workflow/domain"
	"taskportal-backend/internal/workflow/usecase"
)

// TaskHandler exposes the workflow engine over HTTP
type TaskHandler struct {
	taskUsecase usecase.Usecase
}

func NewTaskHandler(taskUsecase usecase.Usecase) *TaskHandler {
	return &TaskHandler{taskUsecase: taskUsecase}
}

// statusFor maps an engine outcome code to an HTTP status.
func statusFor(code usecase.Code) int {
	switch code {
	case usecase.CodeOK:
		return http.StatusOK
	case usecase.CodeNotFound:
		return http.StatusNotFound
	case usecase.CodeForbidden:
		return http.StatusForbidden
	case usecase.CodeBlocked:
		return http.StatusConflict
	case usecase.CodeTransient:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func respond(c *gin.Context, result usecase.Result) {
	c.JSON(statusFor(result.Code), result)
}

// ListTasks returns every task
// GET /api/tasks
func (h *TaskHandler) ListTasks(c *gin.Context) {
	c.JSON(http.StatusOK, h.taskUsecase.Tasks())
}

// GetTask returns one task
// GET /api/tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, found := h.taskUsecase.Task(c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, task)
}

// CreateTask adds a task. Manager only.
// POST /api/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var payload usecase.CreatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	respond(c, h.taskUsecase.Create(c.Request.Context(), authdelivery.ActorFrom(c), payload))
}

// UpdateTask merges fields over an existing task. Manager only.
// PUT /api/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var payload usecase.UpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	respond(c, h.taskUsecase.Update(c.Request.Context(), authdelivery.ActorFrom(c), c.Param("id"), payload))
}

// DeleteTask removes a task. Manager only.
// DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	respond(c, h.taskUsecase.Delete(authdelivery.ActorFrom(c), c.Param("id")))
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Source string `json:"source"`
}

// SetStatus applies a workflow transition
// PUT /api/tasks/:id/status
func (h *TaskHandler) SetStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Source == "" {
		req.Source = usecase.SourceButton
	}
	respond(c, h.taskUsecase.SetStatus(authdelivery.ActorFrom(c), c.Param("id"), domain.Status(req.Status), req.Source))
}

// Reopen moves a completed task back to In Progress
// POST /api/tasks/:id/reopen
func (h *TaskHandler) Reopen(c *gin.Context) {
	respond(c, h.taskUsecase.Reopen(authdelivery.ActorFrom(c), c.Param("id")))
}

type textRequest struct {
	Text string `json:"text" binding:"required"`
}

// AddComment appends a comment to a task
// POST /api/tasks/:id/comments
func (h *TaskHandler) AddComment(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	respond(c, h.taskUsecase.AddComment(authdelivery.ActorFrom(c), c.Param("id"), req.Text))
}

// AddSubtask appends a checklist item to a task
// POST /api/tasks/:id/subtasks
func (h *TaskHandler) AddSubtask(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	respond(c, h.taskUsecase.AddSubtask(authdelivery.ActorFrom(c), c.Param("id"), req.Text))
}

// ToggleSubtask flips one checklist item
// PUT /api/tasks/:id/subtasks/:subtaskId
func (h *TaskHandler) ToggleSubtask(c *gin.Context) {
	respond(c, h.taskUsecase.ToggleSubtask(authdelivery.ActorFrom(c), c.Param("id"), c.Param("subtaskId")))
}

// Undo reverses the most recent reversible mutation
// POST /api/undo
func (h *TaskHandler) Undo(c *gin.Context) {
	if !h.taskUsecase.UndoLast(authdelivery.ActorFrom(c)) {
		c.JSON(http.StatusOK, gin.H{"undone": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"undone": true})
}

// CompletionBlocker reports why a task cannot be completed, if anything
// GET /api/tasks/:id/blocker
func (h *TaskHandler) CompletionBlocker(c *gin.Context) {
	if _, found := h.taskUsecase.Task(c.Param("id")); !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocker": h.taskUsecase.CompletionBlockerFor(c.Param("id"))})
}
