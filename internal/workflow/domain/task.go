package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Priority represents task priority level
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Status represents the workflow state of a task
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// ValidStatus reports whether s is one of the three workflow states.
func ValidStatus(s Status) bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

// ValidPriority reports whether p is a known priority level.
func ValidPriority(p Priority) bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// History entry kinds.
const (
	HistoryCreated      = "created"
	HistoryAssigned     = "assigned"
	HistoryStatusChange = "status-change"
	HistoryComment      = "comment"
	HistorySubtask      = "subtask"
	HistoryEdited       = "edited"
	HistoryUndo         = "undo"
)

// Subtask is one checklist item on a task.
type Subtask struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Comment is a task comment, newest first in Task.Comments.
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
}

// HistoryEntry is one record in a task's append-only audit trail.
// Task.History is ordered newest first and is never rewritten.
type HistoryEntry struct {
	ID        string            `json:"id"`
	Kind      string            `json:"type"`
	ActorID   string            `json:"actorId"`
	Message   string            `json:"message"`
	CreatedAt time.Time         `json:"createdAt"`
	Meta      map[string]string `json:"meta"`
}

// Task is a single work item owned by the workflow engine.
type Task struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Priority     Priority       `json:"priority"`
	Deadline     string         `json:"deadline"` // YYYY-MM-DD, empty when unset
	AssignedTo   string         `json:"assignedTo"`
	Status       Status         `json:"status"`
	Labels       []string       `json:"labels"`
	Dependencies []string       `json:"dependencies"`
	Subtasks     []Subtask      `json:"subtasks"`
	Comments     []Comment      `json:"comments"`
	History      []HistoryEntry `json:"history"`
	ReopenCount  int            `json:"reopenCount"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// NewID returns a prefixed unique id, e.g. "task-4f9c...".
func NewID(prefix string) string {
	return prefix + "-" + uuid.New().String()
}

// NormalizeList turns either a comma-separated string or a list of raw
// values into a trimmed, deduplicated, order-preserving string slice.
// Used for both labels and dependency ids.
func NormalizeList(values []string) []string {
	var raw []string
	for _, v := range values {
		raw = append(raw, strings.Split(v, ",")...)
	}
	seen := make(map[string]bool)
	out := []string{}
	for _, item := range raw {
		item = strings.TrimSpace(item)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

// ParseSubtasks turns a raw comma-separated string into fresh unchecked
// checklist items. Only user-entered form input takes this path.
func ParseSubtasks(raw string) []Subtask {
	out := []Subtask{}
	for _, text := range strings.Split(raw, ",") {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		out = append(out, Subtask{ID: NewID("subtask"), Text: text})
	}
	return out
}

// NormalizeSubtasks sanitizes structured checklist items: blank texts are
// dropped, missing ids generated. Text, id and completion state are kept
// verbatim, so re-sanitizing an existing task is lossless.
func NormalizeSubtasks(items []Subtask) []Subtask {
	out := []Subtask{}
	for _, item := range items {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			continue
		}
		id := item.ID
		if id == "" {
			id = NewID("subtask")
		}
		out = append(out, Subtask{ID: id, Text: text, Completed: item.Completed})
	}
	return out
}

// Sanitize re-validates every field of a raw task against the model rules:
// unknown enum values fall back to safe defaults, list fields are
// normalized, nil collections become empty ones. It never rejects.
func Sanitize(raw Task) Task {
	t := raw
	if t.ID == "" {
		t.ID = NewID("task")
	}
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)
	if !ValidPriority(t.Priority) {
		t.Priority = PriorityMedium
	}
	if !ValidStatus(t.Status) {
		t.Status = StatusPending
	}
	if len(t.Deadline) > 10 {
		t.Deadline = t.Deadline[:10]
	}
	t.Labels = NormalizeList(t.Labels)
	t.Dependencies = NormalizeList(t.Dependencies)
	t.Subtasks = NormalizeSubtasks(t.Subtasks)
	if t.Comments == nil {
		t.Comments = []Comment{}
	}
	if t.History == nil {
		t.History = []HistoryEntry{}
	}
	if t.ReopenCount < 0 {
		t.ReopenCount = 0
	}
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}
	return t
}

// PushHistory prepends one history entry, stamping id and timestamp.
func (t *Task) PushHistory(kind, actorID, message string, meta map[string]string) {
	if meta == nil {
		meta = map[string]string{}
	}
	entry := HistoryEntry{
		ID:        NewID("hist"),
		Kind:      kind,
		ActorID:   actorID,
		Message:   message,
		CreatedAt: time.Now(),
		Meta:      meta,
	}
	t.History = append([]HistoryEntry{entry}, t.History...)
}

// PruneDependencies removes self-references and ids that do not name an
// existing task.
func (t *Task) PruneDependencies(exists func(id string) bool) {
	pruned := []string{}
	for _, dep := range t.Dependencies {
		if dep == t.ID {
			continue
		}
		if exists(dep) {
			pruned = append(pruned, dep)
		}
	}
	t.Dependencies = pruned
}

// Clone returns a deep copy so stored undo snapshots cannot alias live state.
func (t Task) Clone() Task {
	c := t
	c.Labels = append([]string(nil), t.Labels...)
	c.Dependencies = append([]string(nil), t.Dependencies...)
	c.Subtasks = append([]Subtask(nil), t.Subtasks...)
	c.Comments = append([]Comment(nil), t.Comments...)
	c.History = make([]HistoryEntry, len(t.History))
	for i, h := range t.History {
		c.History[i] = h
		c.History[i].Meta = make(map[string]string, len(h.Meta))
		for k, v := range h.Meta {
			c.History[i].Meta[k] = v
		}
	}
	return c
}
