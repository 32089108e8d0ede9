package usecase

import (
	"context"

	authdomain "taskportal-backend/internal/auth/domain"
	"taskportal-backend/internal/workflow/domain"
)

// Transition source tags recorded in status-change history entries.
const (
	SourceButton       = "button"
	SourceDragDrop     = "drag-drop"
	SourceKeyboard     = "keyboard-shortcut"
	SourceContinueWork = "continue-work"
)

// Code classifies an operation outcome so the delivery layer can map it to
// a transport status without parsing messages.
type Code string

const (
	CodeOK        Code = "ok"
	CodeNotFound  Code = "not-found"
	CodeForbidden Code = "forbidden"
	CodeInvalid   Code = "invalid"
	CodeBlocked   Code = "blocked"
	CodeTransient Code = "transient"
)

// Result is the outcome of an engine operation. Expected policy violations
// are carried here, never as Go errors.
type Result struct {
	OK      bool         `json:"ok"`
	Code    Code         `json:"-"`
	Message string       `json:"message"`
	Task    *domain.Task `json:"task,omitempty"`
}

func ok(message string, task *domain.Task) Result {
	return Result{OK: true, Code: CodeOK, Message: message, Task: task}
}

func fail(code Code, message string) Result {
	return Result{Code: code, Message: message}
}

// CreatePayload carries raw user-entered field values for a new task.
// Labels, Dependencies and Subtasks arrive as comma-separated strings and
// are normalized by the engine.
type CreatePayload struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Priority     string `json:"priority"`
	Deadline     string `json:"deadline"`
	AssignedTo   string `json:"assignedTo"`
	Status       string `json:"status"`
	Labels       string `json:"labels"`
	Dependencies string `json:"dependencies"`
	Subtasks     string `json:"subtasks"`
}

// UpdatePayload merges over an existing task; nil fields keep the current
// value.
type UpdatePayload struct {
	Title        *string           `json:"title"`
	Description  *string           `json:"description"`
	Priority     *string           `json:"priority"`
	Deadline     *string           `json:"deadline"`
	AssignedTo   *string           `json:"assignedTo"`
	Status       *string           `json:"status"`
	Labels       *string           `json:"labels"`
	Dependencies *string           `json:"dependencies"`
	Subtasks     *[]domain.Subtask `json:"subtasks"`
}

// Usecase is the workflow engine: it owns every task mutation, the audit
// trail, the undo log and the resulting notifications.
type Usecase interface {
	// SetStatus applies a role-gated workflow transition.
	SetStatus(actor authdomain.Actor, taskID string, next domain.Status, source string) Result

	// Reopen moves a Completed task back to In Progress for its assignee.
	Reopen(actor authdomain.Actor, taskID string) Result

	// AddComment appends a comment and one history entry.
	AddComment(actor authdomain.Actor, taskID, text string) Result

	// ToggleSubtask flips one checklist item.
	ToggleSubtask(actor authdomain.Actor, taskID, subtaskID string) Result

	// AddSubtask appends a checklist item.
	AddSubtask(actor authdomain.Actor, taskID, text string) Result

	// Create adds a task after the simulated round trip succeeds. Manager only.
	Create(ctx context.Context, actor authdomain.Actor, payload CreatePayload) Result

	// Update merges payload over an existing task. Manager only.
	Update(ctx context.Context, actor authdomain.Actor, taskID string, payload UpdatePayload) Result

	// Delete removes a task and strips it from every dependency set. Manager only.
	Delete(actor authdomain.Actor, taskID string) Result

	// UndoLast reverses the most recent reversible mutation. Returns false
	// when the undo log is empty.
	UndoLast(actor authdomain.Actor) bool

	// CompletionBlockerFor returns the blocker string for a task id, or "".
	CompletionBlockerFor(taskID string) string

	// Tasks returns a copy of the current task list.
	Tasks() []domain.Task

	// Task returns a copy of one task.
	Task(id string) (domain.Task, bool)
}
