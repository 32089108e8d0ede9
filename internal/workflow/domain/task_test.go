package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeList(t *testing.T) {
	assert.Equal(t, []string{"api", "backend", "urgent"},
		NormalizeList([]string{" api, backend ", "urgent", "api"}))
	assert.Equal(t, []string{}, NormalizeList(nil))
	assert.Equal(t, []string{}, NormalizeList([]string{" , ,"}))
}

func TestParseSubtasksSplitsCommaLists(t *testing.T) {
	out := ParseSubtasks("write docs, review docs ")
	require.Len(t, out, 2)
	assert.Equal(t, "write docs", out[0].Text)
	assert.Equal(t, "review docs", out[1].Text)
	assert.NotEmpty(t, out[0].ID)
	assert.NotEqual(t, out[0].ID, out[1].ID)
	assert.False(t, out[1].Completed)
}

func TestParseSubtasksDropsBlanks(t *testing.T) {
	assert.Empty(t, ParseSubtasks("  , ,"))
	assert.Empty(t, ParseSubtasks(""))
}

func TestNormalizeSubtasksKeepsExistingIDs(t *testing.T) {
	out := NormalizeSubtasks([]Subtask{{ID: "subtask-keep", Text: " one ", Completed: true}, {Text: "new"}})
	require.Len(t, out, 2)
	assert.Equal(t, "subtask-keep", out[0].ID)
	assert.Equal(t, "one", out[0].Text)
	assert.True(t, out[0].Completed)
	assert.NotEmpty(t, out[1].ID)
}

func TestNormalizeSubtasksPreservesCommaTexts(t *testing.T) {
	item := Subtask{ID: "subtask-1", Text: "review a, b and c", Completed: true}
	out := NormalizeSubtasks([]Subtask{item})
	require.Len(t, out, 1)
	assert.Equal(t, item, out[0])
}

// Re-sanitizing an existing task must not rewrite its checklist.
func TestSanitizeChecklistRoundTrip(t *testing.T) {
	task := Sanitize(Task{
		ID: "task-1",
		Subtasks: []Subtask{
			{ID: "subtask-1", Text: "review a, b and c", Completed: true},
			{ID: "subtask-2", Text: "publish"},
		},
	})
	again := Sanitize(task)
	assert.Equal(t, task.Subtasks, again.Subtasks)
	require.Len(t, again.Subtasks, 2)
	assert.True(t, again.Subtasks[0].Completed)
}

func TestSanitizeFallbacks(t *testing.T) {
	task := Sanitize(Task{
		Title:    "  padded  ",
		Priority: "Critical",
		Status:   "Archived",
		Deadline: "2026-01-15T00:00:00Z",
	})

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "padded", task.Title)
	assert.Equal(t, PriorityMedium, task.Priority)
	assert.Equal(t, StatusPending, task.Status)
	assert.Equal(t, "2026-01-15", task.Deadline)
	assert.NotNil(t, task.Comments)
	assert.NotNil(t, task.History)
	assert.False(t, task.CreatedAt.IsZero())
}

func TestSanitizeKeepsValidFields(t *testing.T) {
	task := Sanitize(Task{
		ID:       "task-1",
		Title:    "ok",
		Priority: PriorityHigh,
		Status:   StatusInProgress,
		Deadline: "2026-02-01",
	})
	assert.Equal(t, "task-1", task.ID)
	assert.Equal(t, PriorityHigh, task.Priority)
	assert.Equal(t, StatusInProgress, task.Status)
	assert.Equal(t, "2026-02-01", task.Deadline)
}

func TestPushHistoryPrepends(t *testing.T) {
	task := Task{}
	task.PushHistory(HistoryCreated, "mgr-1", "Task created.", nil)
	task.PushHistory(HistoryComment, "emp-1", "Comment added.", nil)

	require.Len(t, task.History, 2)
	assert.Equal(t, HistoryComment, task.History[0].Kind)
	assert.Equal(t, HistoryCreated, task.History[1].Kind)
	assert.NotNil(t, task.History[0].Meta)
	assert.NotEmpty(t, task.History[0].ID)
}

func TestPruneDependencies(t *testing.T) {
	task := Task{ID: "task-1", Dependencies: []string{"task-1", "task-2", "task-gone"}}
	task.PruneDependencies(func(id string) bool { return id == "task-2" })
	assert.Equal(t, []string{"task-2"}, task.Dependencies)
}

func TestCloneIsDeep(t *testing.T) {
	task := Task{
		ID:           "task-1",
		Labels:       []string{"api"},
		Dependencies: []string{"task-2"},
		Subtasks:     []Subtask{{ID: "subtask-1", Text: "x"}},
		Comments:     []Comment{{ID: "comment-1", Text: "hi", CreatedAt: time.Now()}},
		History: []HistoryEntry{{
			ID:   "hist-1",
			Kind: HistoryCreated,
			Meta: map[string]string{"k": "v"},
		}},
	}

	clone := task.Clone()
	clone.Labels[0] = "changed"
	clone.Subtasks[0].Completed = true
	clone.History[0].Meta["k"] = "changed"

	assert.Equal(t, "api", task.Labels[0])
	assert.False(t, task.Subtasks[0].Completed)
	assert.Equal(t, "v", task.History[0].Meta["k"])
}
