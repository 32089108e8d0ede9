package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompletionBlockerNoBlockers(t *testing.T) {
	task := Task{ID: "task-1", Title: "Ship it", Status: StatusInProgress}
	assert.Empty(t, CompletionBlocker(task, []Task{task}))
}

func TestCompletionBlockerDependencyNotCompleted(t *testing.T) {
	dep := Task{ID: "task-1", Title: "Design API schema", Status: StatusPending}
	task := Task{
		ID:           "task-2",
		Title:        "Implement login endpoint",
		Status:       StatusInProgress,
		Dependencies: []string{"task-1"},
	}

	blocker := CompletionBlocker(task, []Task{dep, task})
	assert.Equal(t, `Complete dependency "Design API schema" first.`, blocker)
}

func TestCompletionBlockerDependencyOrder(t *testing.T) {
	depA := Task{ID: "task-a", Title: "First", Status: StatusPending}
	depB := Task{ID: "task-b", Title: "Second", Status: StatusPending}
	task := Task{
		ID:           "task-c",
		Status:       StatusInProgress,
		Dependencies: []string{"task-a", "task-b"},
	}

	// The first non-completed dependency in the task's own order wins.
	blocker := CompletionBlocker(task, []Task{depB, depA, task})
	assert.Equal(t, `Complete dependency "First" first.`, blocker)
}

func TestCompletionBlockerCompletedDependencyDoesNotBlock(t *testing.T) {
	dep := Task{ID: "task-1", Title: "Done already", Status: StatusCompleted}
	task := Task{
		ID:           "task-2",
		Status:       StatusInProgress,
		Dependencies: []string{"task-1"},
	}
	assert.Empty(t, CompletionBlocker(task, []Task{dep, task}))
}

func TestCompletionBlockerMissingDependencyIgnored(t *testing.T) {
	task := Task{
		ID:           "task-2",
		Status:       StatusInProgress,
		Dependencies: []string{"task-gone"},
	}
	assert.Empty(t, CompletionBlocker(task, []Task{task}))
}

func TestCompletionBlockerPendingChecklist(t *testing.T) {
	task := Task{
		ID:     "task-1",
		Status: StatusInProgress,
		Subtasks: []Subtask{
			{ID: "subtask-1", Text: "a", Completed: true},
			{ID: "subtask-2", Text: "b"},
			{ID: "subtask-3", Text: "c"},
		},
	}
	assert.Equal(t, "Finish checklist (2 pending).", CompletionBlocker(task, []Task{task}))
}

func TestCompletionBlockerDependencyBeforeChecklist(t *testing.T) {
	dep := Task{ID: "task-1", Title: "Blocker", Status: StatusInProgress}
	task := Task{
		ID:           "task-2",
		Status:       StatusInProgress,
		Dependencies: []string{"task-1"},
		Subtasks:     []Subtask{{ID: "subtask-1", Text: "open"}},
	}
	assert.Equal(t, `Complete dependency "Blocker" first.`, CompletionBlocker(task, []Task{dep, task}))
}

func TestCompletionBlockerCompletedTaskReportsNothing(t *testing.T) {
	task := Task{
		ID:       "task-1",
		Status:   StatusCompleted,
		Subtasks: []Subtask{{ID: "subtask-1", Text: "never checked"}},
	}
	assert.Empty(t, CompletionBlocker(task, []Task{task}))
}
