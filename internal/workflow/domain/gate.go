package domain

import "fmt"

// CompletionBlocker returns the human-readable reason task may not enter
// Completed, or "" when nothing blocks it. Checked in order: the first
// dependency (in the task's own dependency order) that exists and is not
// Completed, then the count of unchecked checklist items. Pure; tasks that
// are already Completed report no blocker.
func CompletionBlocker(task Task, allTasks []Task) string {
	if task.Status == StatusCompleted {
		return ""
	}

	byID := make(map[string]Task, len(allTasks))
	for _, t := range allTasks {
		byID[t.ID] = t
	}

	for _, depID := range task.Dependencies {
		dep, ok := byID[depID]
		if ok && dep.Status != StatusCompleted {
			return fmt.Sprintf("Complete dependency %q first.", dep.Title)
		}
	}

	pending := 0
	for _, st := range task.Subtasks {
		if !st.Completed {
			pending++
		}
	}
	if pending > 0 {
		return fmt.Sprintf("Finish checklist (%d pending).", pending)
	}

	return ""
}
