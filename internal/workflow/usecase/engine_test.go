package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authdomain "taskportal-backend/internal/auth/domain"
	"taskportal-backend/internal/notification"
	notifdomain "taskportal-backend/internal/notification/domain"
	"taskportal-backend/internal/simulate"
	"taskportal-backend/internal/state"
	"taskportal-backend/internal/workflow/domain"
)

var (
	manager  = authdomain.Actor{ID: "mgr-1", Role: authdomain.RoleManager}
	employee = authdomain.Actor{ID: "emp-1", Role: authdomain.RoleEmployee}
	stranger = authdomain.Actor{ID: "emp-2", Role: authdomain.RoleEmployee}
)

func newTestEngine(t *testing.T, tasks ...domain.Task) (Usecase, *state.Store) {
	t.Helper()
	for i := range tasks {
		tasks[i] = domain.Sanitize(tasks[i])
	}
	store := state.NewStore(state.AppState{
		Users: []authdomain.User{
			{ID: "mgr-1", Name: "Jeswanth", Role: authdomain.RoleManager},
			{ID: "emp-1", Name: "Hari", Role: authdomain.RoleEmployee},
			{ID: "emp-2", Name: "Sarath", Role: authdomain.RoleEmployee},
		},
		Tasks: tasks,
		Theme: state.ThemeLight,
	}, nil)
	feed := notification.NewFeed(store, time.Minute)
	return New(store, feed, simulate.Disabled()), store
}

func taskIn(store *state.Store, id string) domain.Task {
	var task domain.Task
	store.View(func(s *state.AppState) {
		if t := s.FindTask(id); t != nil {
			task = t.Clone()
		}
	})
	return task
}

func simpleTask(id string, status domain.Status) domain.Task {
	return domain.Task{
		ID:         id,
		Title:      "Task " + id,
		Status:     status,
		AssignedTo: "emp-1",
	}
}

func TestEmployeeTransitionTable(t *testing.T) {
	cases := []struct {
		from    domain.Status
		to      domain.Status
		allowed bool
	}{
		{domain.StatusPending, domain.StatusInProgress, true},
		{domain.StatusPending, domain.StatusCompleted, false},
		{domain.StatusInProgress, domain.StatusCompleted, true},
		{domain.StatusInProgress, domain.StatusPending, false},
		{domain.StatusCompleted, domain.StatusInProgress, true},
		{domain.StatusCompleted, domain.StatusPending, false},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s_to_%s", tc.from, tc.to), func(t *testing.T) {
			engine, store := newTestEngine(t, simpleTask("task-1", tc.from))
			result := engine.SetStatus(employee, "task-1", tc.to, SourceButton)

			if tc.allowed {
				assert.True(t, result.OK)
				assert.Equal(t, tc.to, taskIn(store, "task-1").Status)
			} else {
				assert.Equal(t, CodeInvalid, result.Code)
				assert.Equal(t, tc.from, taskIn(store, "task-1").Status)
			}
		})
	}
}

func TestManagerMayMoveFreely(t *testing.T) {
	engine, store := newTestEngine(t, simpleTask("task-1", domain.StatusInProgress))
	result := engine.SetStatus(manager, "task-1", domain.StatusPending, SourceDragDrop)
	require.True(t, result.OK)
	assert.Equal(t, domain.StatusPending, taskIn(store, "task-1").Status)
}

func TestEmployeeCannotTouchUnassignedTask(t *testing.T) {
	engine, _ := newTestEngine(t, simpleTask("task-1", domain.StatusPending))
	result := engine.SetStatus(stranger, "task-1", domain.StatusInProgress, SourceButton)
	assert.Equal(t, CodeForbidden, result.Code)
}

func TestSetStatusUnknownTask(t *testing.T) {
	engine, _ := newTestEngine(t)
	result := engine.SetStatus(manager, "task-missing", domain.StatusCompleted, SourceButton)
	assert.Equal(t, CodeNotFound, result.Code)
}

func TestSetStatusSameStatusRejected(t *testing.T) {
	engine, _ := newTestEngine(t, simpleTask("task-1", domain.StatusPending))
	result := engine.SetStatus(manager, "task-1", domain.StatusPending, SourceButton)
	assert.Equal(t, CodeInvalid, result.Code)
}

// Completing a task is blocked first by an incomplete dependency, then by
// unchecked checklist items; clearing both unblocks it.
func TestCompletionGateWalkthrough(t *testing.T) {
	dep := simpleTask("task-1", domain.StatusInProgress)
	dep.Title = "Design schema"
	blocked := domain.Task{
		ID:           "task-2",
		Title:        "Build endpoint",
		Status:       domain.StatusInProgress,
		AssignedTo:   "emp-1",
		Dependencies: []string{"task-1"},
		Subtasks:     []domain.Subtask{{ID: "subtask-1", Text: "write tests"}},
	}
	engine, store := newTestEngine(t, dep, blocked)

	result := engine.SetStatus(employee, "task-2", domain.StatusCompleted, SourceButton)
	require.Equal(t, CodeBlocked, result.Code)
	assert.Equal(t, `Complete dependency "Design schema" first.`, result.Message)

	// A policy rejection lands in the feed as a warning.
	store.View(func(s *state.AppState) {
		require.NotEmpty(t, s.Notifications)
		assert.Equal(t, result.Message, s.Notifications[0].Message)
		assert.Equal(t, notifdomain.SeverityWarning, s.Notifications[0].Severity)
	})

	require.True(t, engine.SetStatus(employee, "task-1", domain.StatusCompleted, SourceButton).OK)

	result = engine.SetStatus(employee, "task-2", domain.StatusCompleted, SourceButton)
	require.Equal(t, CodeBlocked, result.Code)
	assert.Equal(t, "Finish checklist (1 pending).", result.Message)

	require.True(t, engine.ToggleSubtask(employee, "task-2", "subtask-1").OK)

	result = engine.SetStatus(employee, "task-2", domain.StatusCompleted, SourceButton)
	require.True(t, result.OK)
	assert.Equal(t, domain.StatusCompleted, taskIn(store, "task-2").Status)
}

func TestReopenIncrementsCounterAndRecordsSource(t *testing.T) {
	engine, store := newTestEngine(t, simpleTask("task-1", domain.StatusCompleted))
	result := engine.Reopen(employee, "task-1")
	require.True(t, result.OK)

	task := taskIn(store, "task-1")
	assert.Equal(t, domain.StatusInProgress, task.Status)
	assert.Equal(t, 1, task.ReopenCount)
	require.NotEmpty(t, task.History)
	assert.Equal(t, SourceContinueWork, task.History[0].Meta["source"])
}

func TestStatusChangeHistoryMeta(t *testing.T) {
	engine, store := newTestEngine(t, simpleTask("task-1", domain.StatusPending))
	engine.SetStatus(employee, "task-1", domain.StatusInProgress, SourceKeyboard)

	entry := taskIn(store, "task-1").History[0]
	assert.Equal(t, domain.HistoryStatusChange, entry.Kind)
	assert.Equal(t, "Pending", entry.Meta["fromStatus"])
	assert.Equal(t, "In Progress", entry.Meta["toStatus"])
	assert.Equal(t, SourceKeyboard, entry.Meta["source"])
	assert.Equal(t, "emp-1", entry.ActorID)
}

func TestAddCommentPrependsAndAudits(t *testing.T) {
	engine, store := newTestEngine(t, simpleTask("task-1", domain.StatusPending))
	require.True(t, engine.AddComment(employee, "task-1", "  first  ").OK)
	require.True(t, engine.AddComment(employee, "task-1", "second").OK)

	task := taskIn(store, "task-1")
	require.Len(t, task.Comments, 2)
	assert.Equal(t, "second", task.Comments[0].Text)
	assert.Equal(t, "first", task.Comments[1].Text)
	assert.Equal(t, domain.HistoryComment, task.History[0].Kind)
}

func TestAddCommentEmptyRejected(t *testing.T) {
	engine, _ := newTestEngine(t, simpleTask("task-1", domain.StatusPending))
	assert.Equal(t, CodeInvalid, engine.AddComment(employee, "task-1", "   ").Code)
}

func TestAddSubtask(t *testing.T) {
	engine, store := newTestEngine(t, simpleTask("task-1", domain.StatusPending))
	require.True(t, engine.AddSubtask(employee, "task-1", "review PR").OK)

	task := taskIn(store, "task-1")
	require.Len(t, task.Subtasks, 1)
	assert.Equal(t, "review PR", task.Subtasks[0].Text)
	assert.False(t, task.Subtasks[0].Completed)
}

func TestCreateManagerOnly(t *testing.T) {
	engine, _ := newTestEngine(t)
	result := engine.Create(context.Background(), employee, CreatePayload{Title: "nope"})
	assert.Equal(t, CodeForbidden, result.Code)
}

func TestCreateNormalizesAndAudits(t *testing.T) {
	engine, store := newTestEngine(t)
	result := engine.Create(context.Background(), manager, CreatePayload{
		Title:      "  New feature ",
		Priority:   "High",
		AssignedTo: "emp-1",
		Labels:     "api, backend, api",
		Subtasks:   "step one, step two",
	})
	require.True(t, result.OK)
	require.NotNil(t, result.Task)

	task := taskIn(store, result.Task.ID)
	assert.Equal(t, "New feature", task.Title)
	assert.Equal(t, domain.PriorityHigh, task.Priority)
	assert.Equal(t, domain.StatusPending, task.Status)
	assert.Equal(t, []string{"api", "backend"}, task.Labels)
	require.Len(t, task.Subtasks, 2)

	// Newest first: assignment entry on top of the creation entry.
	require.Len(t, task.History, 2)
	assert.Equal(t, domain.HistoryAssigned, task.History[0].Kind)
	assert.Equal(t, "Assigned to Hari.", task.History[0].Message)
	assert.Equal(t, domain.HistoryCreated, task.History[1].Kind)
}

func TestCreateTransientFailureLeavesStateUntouched(t *testing.T) {
	store := state.NewStore(state.AppState{}, nil)
	feed := notification.NewFeed(store, time.Minute)
	sim := &simulate.Simulator{FailureRate: 1, Rand: func() float64 { return 0 }}
	engine := New(store, feed, sim)

	result := engine.Create(context.Background(), manager, CreatePayload{Title: "doomed"})
	require.Equal(t, CodeTransient, result.Code)
	assert.Equal(t, "Simulated network error while creating task.", result.Message)

	store.View(func(s *state.AppState) {
		assert.Empty(t, s.Tasks)
		assert.Equal(t, result.Message, s.LastError)
		require.NotEmpty(t, s.Notifications)
		assert.Equal(t, notifdomain.SeverityError, s.Notifications[0].Severity)
	})
}

func TestUpdateMergesPointerFields(t *testing.T) {
	task := simpleTask("task-1", domain.StatusPending)
	task.Description = "keep me"
	engine, store := newTestEngine(t, task)

	title := "Renamed"
	assignee := "emp-2"
	result := engine.Update(context.Background(), manager, "task-1", UpdatePayload{
		Title:      &title,
		AssignedTo: &assignee,
	})
	require.True(t, result.OK)

	got := taskIn(store, "task-1")
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, "emp-2", got.AssignedTo)
	assert.Equal(t, "keep me", got.Description)
	assert.Equal(t, domain.HistoryEdited, got.History[0].Kind)
	assert.Equal(t, domain.HistoryAssigned, got.History[1].Kind)
	assert.Equal(t, "Reassigned to Sarath.", got.History[1].Message)
}

func TestUpdateBlockedCompletionFailsWholesale(t *testing.T) {
	task := simpleTask("task-1", domain.StatusInProgress)
	task.Subtasks = []domain.Subtask{{ID: "subtask-1", Text: "open item"}}
	engine, store := newTestEngine(t, task)

	title := "Should not stick"
	status := "Completed"
	result := engine.Update(context.Background(), manager, "task-1", UpdatePayload{
		Title:  &title,
		Status: &status,
	})
	require.Equal(t, CodeBlocked, result.Code)

	got := taskIn(store, "task-1")
	assert.Equal(t, "Task task-1", got.Title)
	assert.Equal(t, domain.StatusInProgress, got.Status)
}

func TestDeleteStripsDanglingDependencies(t *testing.T) {
	dependent := simpleTask("task-2", domain.StatusPending)
	dependent.Dependencies = []string{"task-1"}
	engine, store := newTestEngine(t, simpleTask("task-1", domain.StatusPending), dependent)

	require.True(t, engine.Delete(manager, "task-1").OK)

	store.View(func(s *state.AppState) {
		assert.Nil(t, s.FindTask("task-1"))
	})
	assert.Empty(t, taskIn(store, "task-2").Dependencies)
}

// Two racing requests for the same transition must commit exactly once:
// the loser sees the already-moved status and is rejected, so only one
// history entry and one undo entry exist.
func TestConcurrentSetStatusCommitsOnce(t *testing.T) {
	engine, store := newTestEngine(t, simpleTask("task-1", domain.StatusInProgress))

	results := make([]Result, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = engine.SetStatus(manager, "task-1", domain.StatusCompleted, SourceDragDrop)
		}(i)
	}
	wg.Wait()

	okCount := 0
	for _, r := range results {
		if r.OK {
			okCount++
		} else {
			assert.Equal(t, CodeInvalid, r.Code)
			assert.Equal(t, "Task is already Completed.", r.Message)
		}
	}
	assert.Equal(t, 1, okCount)

	task := taskIn(store, "task-1")
	statusChanges := 0
	for _, h := range task.History {
		if h.Kind == domain.HistoryStatusChange {
			statusChanges++
		}
	}
	assert.Equal(t, 1, statusChanges)
	store.View(func(s *state.AppState) {
		assert.Equal(t, 1, s.Undo.Len())
	})
}

func TestSetStatusDeletedTaskNotFound(t *testing.T) {
	engine, store := newTestEngine(t, simpleTask("task-1", domain.StatusPending))
	store.Update(func(s *state.AppState) { s.Tasks = nil })

	result := engine.SetStatus(manager, "task-1", domain.StatusInProgress, SourceButton)
	assert.Equal(t, CodeNotFound, result.Code)
	store.View(func(s *state.AppState) {
		assert.Nil(t, s.Toast)
		assert.Empty(t, s.Notifications)
	})
}

func TestCreateCancelledContextFailsQuietly(t *testing.T) {
	store := state.NewStore(state.AppState{}, nil)
	feed := notification.NewFeed(store, time.Minute)
	engine := New(store, feed, simulate.New(0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := engine.Create(ctx, manager, CreatePayload{Title: "abandoned"})
	require.Equal(t, CodeTransient, result.Code)
	assert.False(t, result.OK)

	// Cancellation is not a simulated network fault: no error state, no
	// feed notification.
	store.View(func(s *state.AppState) {
		assert.Empty(t, s.Tasks)
		assert.Empty(t, s.LastError)
		assert.Empty(t, s.Notifications)
	})
}

func TestUpdatePreservesStructuredChecklist(t *testing.T) {
	task := simpleTask("task-1", domain.StatusPending)
	task.Subtasks = []domain.Subtask{{ID: "subtask-1", Text: "review a, b and c", Completed: true}}
	engine, store := newTestEngine(t, task)

	title := "Renamed"
	require.True(t, engine.Update(context.Background(), manager, "task-1", UpdatePayload{Title: &title}).OK)

	got := taskIn(store, "task-1")
	require.Len(t, got.Subtasks, 1)
	assert.Equal(t, "subtask-1", got.Subtasks[0].ID)
	assert.Equal(t, "review a, b and c", got.Subtasks[0].Text)
	assert.True(t, got.Subtasks[0].Completed)
}

func TestUndoEmptyLogIsNoOp(t *testing.T) {
	engine, _ := newTestEngine(t, simpleTask("task-1", domain.StatusPending))
	assert.False(t, engine.UndoLast(manager))
}

func TestUndoStatusChange(t *testing.T) {
	engine, store := newTestEngine(t, simpleTask("task-1", domain.StatusPending))
	require.True(t, engine.SetStatus(employee, "task-1", domain.StatusInProgress, SourceButton).OK)

	require.True(t, engine.UndoLast(employee))

	task := taskIn(store, "task-1")
	assert.Equal(t, domain.StatusPending, task.Status)
	assert.Equal(t, domain.HistoryUndo, task.History[0].Kind)
	assert.Equal(t, "Undo: status restored to Pending.", task.History[0].Message)
}

func TestUndoCreateRemovesTask(t *testing.T) {
	engine, store := newTestEngine(t)
	result := engine.Create(context.Background(), manager, CreatePayload{Title: "temp"})
	require.True(t, result.OK)

	require.True(t, engine.UndoLast(manager))
	store.View(func(s *state.AppState) {
		assert.Empty(t, s.Tasks)
	})
}

func TestUndoUpdateRestoresSnapshot(t *testing.T) {
	task := simpleTask("task-1", domain.StatusPending)
	task.Title = "Original title"
	engine, store := newTestEngine(t, task)

	title := "Changed title"
	require.True(t, engine.Update(context.Background(), manager, "task-1", UpdatePayload{Title: &title}).OK)
	require.Equal(t, "Changed title", taskIn(store, "task-1").Title)

	require.True(t, engine.UndoLast(manager))
	restored := taskIn(store, "task-1")
	assert.Equal(t, "Original title", restored.Title)
	// The pre-update snapshot carries no edit entry.
	for _, h := range restored.History {
		assert.NotEqual(t, domain.HistoryEdited, h.Kind)
	}
}

func TestUndoDeleteRestoresIdenticalTask(t *testing.T) {
	task := simpleTask("task-1", domain.StatusInProgress)
	engine, store := newTestEngine(t, task)
	require.True(t, engine.AddComment(employee, "task-1", "context").OK)
	before := taskIn(store, "task-1")

	require.True(t, engine.Delete(manager, "task-1").OK)
	require.True(t, engine.UndoLast(manager))

	after := taskIn(store, "task-1")
	assert.Equal(t, before, after)
}

func TestUndoDeleteSkipsRecreatedID(t *testing.T) {
	engine, store := newTestEngine(t, simpleTask("task-1", domain.StatusPending))
	require.True(t, engine.Delete(manager, "task-1").OK)

	// Reintroduce the same id before undoing the delete.
	store.Update(func(s *state.AppState) {
		s.Tasks = append(s.Tasks, domain.Sanitize(domain.Task{ID: "task-1", Title: "Recreated"}))
	})

	require.True(t, engine.UndoLast(manager))
	store.View(func(s *state.AppState) {
		count := 0
		for _, task := range s.Tasks {
			if task.ID == "task-1" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})
	assert.Equal(t, "Recreated", taskIn(store, "task-1").Title)
}

func TestUndoLogCapacity(t *testing.T) {
	engine, store := newTestEngine(t, simpleTask("task-1", domain.StatusPending))

	// Alternate the status back and forth well past the log capacity.
	next := domain.StatusInProgress
	for i := 0; i < 30; i++ {
		require.True(t, engine.SetStatus(manager, "task-1", next, SourceButton).OK)
		if next == domain.StatusInProgress {
			next = domain.StatusPending
		} else {
			next = domain.StatusInProgress
		}
	}

	store.View(func(s *state.AppState) {
		assert.Equal(t, 25, s.Undo.Len())
	})

	undone := 0
	for engine.UndoLast(manager) {
		undone++
	}
	assert.Equal(t, 25, undone)
}
