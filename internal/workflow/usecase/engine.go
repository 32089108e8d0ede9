package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	authdomain "taskportal-backend/internal/auth/domain"
	"taskportal-backend/internal/notification"
	notifdomain "taskportal-backend/internal/notification/domain"
	"taskportal-backend/internal/simulate"
	"taskportal-backend/internal/state"
	"taskportal-backend/internal/undo"
	"taskportal-backend/internal/workflow/domain"
)

// employeeTransitions is the full set of moves a non-manager may request.
var employeeTransitions = map[domain.Status][]domain.Status{
	domain.StatusPending:    {domain.StatusInProgress},
	domain.StatusInProgress: {domain.StatusCompleted},
	domain.StatusCompleted:  {domain.StatusInProgress},
}

type engine struct {
	store *state.Store
	feed  *notification.Feed
	sim   *simulate.Simulator
}

// New creates the workflow engine over the single state owner.
func New(store *state.Store, feed *notification.Feed, sim *simulate.Simulator) Usecase {
	if sim == nil {
		sim = simulate.Disabled()
	}
	return &engine{store: store, feed: feed, sim: sim}
}

func canTouch(actor authdomain.Actor, task domain.Task) bool {
	if actor.IsManager() {
		return true
	}
	return actor.Role == authdomain.RoleEmployee && actor.ID == task.AssignedTo
}

func actorID(actor authdomain.Actor) string {
	if actor.ID == "" {
		return "system"
	}
	return actor.ID
}

// SetStatus checks and commits under a single store lock so concurrent
// requests cannot both pass the preconditions. Feed effects run after the
// commit; the feed re-enters the store mutex.
func (e *engine) SetStatus(actor authdomain.Actor, taskID string, next domain.Status, source string) Result {
	actorID := actorID(actor)
	var (
		result Result
		title  string
	)
	e.store.Update(func(s *state.AppState) {
		t := s.FindTask(taskID)
		if t == nil {
			result = fail(CodeNotFound, "Task not found.")
			return
		}

		if !canTouch(actor, *t) {
			result = fail(CodeForbidden, "Not allowed for this task.")
			return
		}

		if !actor.IsManager() {
			allowed := false
			for _, status := range employeeTransitions[t.Status] {
				if status == next {
					allowed = true
				}
			}
			if !allowed {
				result = fail(CodeInvalid, fmt.Sprintf("Invalid transition from %s.", t.Status))
				return
			}
		}

		if t.Status == next {
			result = fail(CodeInvalid, fmt.Sprintf("Task is already %s.", next))
			return
		}

		if next == domain.StatusCompleted {
			if blocker := domain.CompletionBlocker(*t, s.Tasks); blocker != "" {
				result = fail(CodeBlocked, blocker)
				return
			}
		}

		previous := t.Status
		if previous == domain.StatusCompleted && next == domain.StatusInProgress {
			t.ReopenCount++
		}
		t.Status = next
		t.UpdatedAt = time.Now()
		t.PushHistory(domain.HistoryStatusChange, actorID,
			fmt.Sprintf("Status changed from %s to %s.", previous, next),
			map[string]string{
				"fromStatus": string(previous),
				"toStatus":   string(next),
				"source":     source,
			})
		s.Undo.Push(undo.Entry{
			Kind:           undo.KindStatusChange,
			TaskID:         taskID,
			PreviousStatus: previous,
			NextStatus:     next,
		})
		title = t.Title
		result = ok(fmt.Sprintf("Moved to %s", next), nil)
	})

	switch {
	case result.Code == CodeBlocked:
		e.feed.Push(result.Message, notifdomain.SeverityWarning)
	case result.OK:
		e.feed.PushToast(fmt.Sprintf("Moved %q to %s", title, next), true)
		severity := notifdomain.SeverityInfo
		if next == domain.StatusCompleted {
			severity = notifdomain.SeveritySuccess
		}
		e.feed.Push(fmt.Sprintf("%q is now %s.", title, next), severity)
	}

	return result
}

func (e *engine) Reopen(actor authdomain.Actor, taskID string) Result {
	return e.SetStatus(actor, taskID, domain.StatusInProgress, SourceContinueWork)
}

// withTask runs a gated mutation against one task: it resolves the task,
// applies the assignee-or-manager check and commits fn under the store.
func (e *engine) withTask(actor authdomain.Actor, taskID string, fn func(t *domain.Task, actorID string)) Result {
	var result Result
	e.store.Update(func(s *state.AppState) {
		t := s.FindTask(taskID)
		if t == nil {
			result = fail(CodeNotFound, "Task not found.")
			return
		}
		if !canTouch(actor, *t) {
			result = fail(CodeForbidden, "Not allowed for this task.")
			return
		}
		fn(t, actorID(actor))
		result = ok("", nil)
	})
	return result
}

func (e *engine) AddComment(actor authdomain.Actor, taskID, text string) Result {
	text = strings.TrimSpace(text)
	if text == "" {
		return fail(CodeInvalid, "Comment cannot be empty.")
	}
	return e.withTask(actor, taskID, func(t *domain.Task, actorID string) {
		comment := domain.Comment{
			ID:        domain.NewID("comment"),
			Text:      text,
			AuthorID:  actorID,
			CreatedAt: time.Now(),
		}
		t.Comments = append([]domain.Comment{comment}, t.Comments...)
		t.UpdatedAt = time.Now()
		t.PushHistory(domain.HistoryComment, actorID, "Comment added.", nil)
	})
}

func (e *engine) ToggleSubtask(actor authdomain.Actor, taskID, subtaskID string) Result {
	return e.withTask(actor, taskID, func(t *domain.Task, actorID string) {
		for i := range t.Subtasks {
			if t.Subtasks[i].ID == subtaskID {
				t.Subtasks[i].Completed = !t.Subtasks[i].Completed
			}
		}
		t.UpdatedAt = time.Now()
		t.PushHistory(domain.HistorySubtask, actorID, "Checklist updated.",
			map[string]string{"subtaskId": subtaskID})
	})
}

func (e *engine) AddSubtask(actor authdomain.Actor, taskID, text string) Result {
	text = strings.TrimSpace(text)
	if text == "" {
		return fail(CodeInvalid, "Subtask text is required.")
	}
	return e.withTask(actor, taskID, func(t *domain.Task, actorID string) {
		t.Subtasks = append(t.Subtasks, domain.Subtask{
			ID:   domain.NewID("subtask"),
			Text: text,
		})
		t.UpdatedAt = time.Now()
		t.PushHistory(domain.HistorySubtask, actorID, "Checklist item added.", nil)
	})
}

// beginMutation clears the error slot and inspects the simulated round
// trip's outcome. A simulated network fault records the error state plus a
// failure notification; caller-initiated cancellation fails quietly.
func (e *engine) beginMutation(err error) *Result {
	if err == nil {
		e.store.Update(func(s *state.AppState) { s.LastError = "" })
		return nil
	}

	var transient *simulate.TransientError
	if !errors.As(err, &transient) {
		r := fail(CodeTransient, err.Error())
		return &r
	}

	message := err.Error()
	e.store.Update(func(s *state.AppState) { s.LastError = message })
	e.feed.Push(message, notifdomain.SeverityError)
	r := fail(CodeTransient, message)
	return &r
}

func (e *engine) Create(ctx context.Context, actor authdomain.Actor, payload CreatePayload) Result {
	if !actor.IsManager() {
		return fail(CodeForbidden, "Only manager can perform this action.")
	}
	if r := e.beginMutation(e.sim.RunCreate(ctx)); r != nil {
		return *r
	}

	actorID := actorID(actor)
	now := time.Now()
	task := domain.Sanitize(domain.Task{
		ID:           domain.NewID("task"),
		Title:        payload.Title,
		Description:  payload.Description,
		Priority:     domain.Priority(payload.Priority),
		Deadline:     payload.Deadline,
		AssignedTo:   payload.AssignedTo,
		Status:       domain.Status(payload.Status),
		Labels:       []string{payload.Labels},
		Dependencies: []string{payload.Dependencies},
		Subtasks:     domain.ParseSubtasks(payload.Subtasks),
		CreatedAt:    now,
		UpdatedAt:    now,
	})

	var created domain.Task
	e.store.Update(func(s *state.AppState) {
		task.PruneDependencies(func(id string) bool { return s.FindTask(id) != nil })
		task.PushHistory(domain.HistoryCreated, actorID, "Task created.", nil)
		task.PushHistory(domain.HistoryAssigned, actorID,
			fmt.Sprintf("Assigned to %s.", s.UserName(task.AssignedTo)),
			map[string]string{"assignedTo": task.AssignedTo})
		s.Tasks = append([]domain.Task{task}, s.Tasks...)
		s.Undo.Push(undo.Entry{Kind: undo.KindCreate, TaskID: task.ID})
		created = task.Clone()
	})

	e.feed.PushToast(fmt.Sprintf("Created %q", created.Title), true)
	e.feed.Push(fmt.Sprintf("Task %q assigned.", created.Title), notifdomain.SeveritySuccess)
	return ok("Task created.", &created)
}

func (e *engine) Update(ctx context.Context, actor authdomain.Actor, taskID string, payload UpdatePayload) Result {
	if !actor.IsManager() {
		return fail(CodeForbidden, "Only manager can perform this action.")
	}
	if r := e.beginMutation(e.sim.RunUpdate(ctx)); r != nil {
		return *r
	}

	actorID := actorID(actor)
	var (
		result  Result
		updated domain.Task
		blocked string
	)
	e.store.Update(func(s *state.AppState) {
		existing := s.FindTask(taskID)
		if existing == nil {
			result = fail(CodeNotFound, "Task not found.")
			return
		}
		snapshot := existing.Clone()

		merged := snapshot.Clone()
		if payload.Title != nil {
			merged.Title = *payload.Title
		}
		if payload.Description != nil {
			merged.Description = *payload.Description
		}
		if payload.Priority != nil {
			merged.Priority = domain.Priority(*payload.Priority)
		}
		if payload.Deadline != nil {
			merged.Deadline = *payload.Deadline
		}
		if payload.AssignedTo != nil {
			merged.AssignedTo = *payload.AssignedTo
		}
		if payload.Status != nil {
			merged.Status = domain.Status(*payload.Status)
		}
		if payload.Labels != nil {
			merged.Labels = []string{*payload.Labels}
		}
		if payload.Dependencies != nil {
			merged.Dependencies = []string{*payload.Dependencies}
		}
		if payload.Subtasks != nil {
			merged.Subtasks = *payload.Subtasks
		}
		merged = domain.Sanitize(merged)
		merged.ID = snapshot.ID
		merged.Comments = snapshot.Comments
		merged.History = snapshot.History
		merged.ReopenCount = snapshot.ReopenCount
		merged.CreatedAt = snapshot.CreatedAt
		merged.UpdatedAt = time.Now()
		merged.PruneDependencies(func(id string) bool {
			return id != snapshot.ID && s.FindTask(id) != nil
		})

		if merged.Status == domain.StatusCompleted {
			if b := domain.CompletionBlocker(merged, s.Tasks); b != "" {
				blocked = b
				result = fail(CodeBlocked, b)
				return
			}
		}

		if snapshot.AssignedTo != merged.AssignedTo {
			merged.PushHistory(domain.HistoryAssigned, actorID,
				fmt.Sprintf("Reassigned to %s.", s.UserName(merged.AssignedTo)),
				map[string]string{"from": snapshot.AssignedTo, "to": merged.AssignedTo})
		}
		if snapshot.Status != merged.Status {
			merged.PushHistory(domain.HistoryStatusChange, actorID,
				fmt.Sprintf("Status changed from %s to %s.", snapshot.Status, merged.Status),
				map[string]string{
					"fromStatus": string(snapshot.Status),
					"toStatus":   string(merged.Status),
				})
		}
		merged.PushHistory(domain.HistoryEdited, actorID, "Task details updated.", nil)

		*existing = merged
		s.Undo.Push(undo.Entry{Kind: undo.KindUpdate, Task: snapshot})
		updated = merged.Clone()
		result = ok("Task updated.", &updated)
	})

	switch {
	case blocked != "":
		e.store.Update(func(s *state.AppState) { s.LastError = blocked })
		e.feed.Push(blocked, notifdomain.SeverityError)
	case result.OK:
		e.feed.PushToast(fmt.Sprintf("Updated %q", updated.Title), true)
		e.feed.Push(fmt.Sprintf("Task %q updated.", updated.Title), notifdomain.SeverityInfo)
	}
	return result
}

func (e *engine) Delete(actor authdomain.Actor, taskID string) Result {
	if !actor.IsManager() {
		return fail(CodeForbidden, "Only manager can perform this action.")
	}

	var (
		removed domain.Task
		found   bool
	)
	e.store.Update(func(s *state.AppState) {
		t := s.FindTask(taskID)
		if t == nil {
			return
		}
		removed = t.Clone()
		found = true

		kept := s.Tasks[:0]
		for _, item := range s.Tasks {
			if item.ID == taskID {
				continue
			}
			deps := item.Dependencies[:0]
			for _, dep := range item.Dependencies {
				if dep != taskID {
					deps = append(deps, dep)
				}
			}
			item.Dependencies = deps
			kept = append(kept, item)
		}
		s.Tasks = kept
		s.Undo.Push(undo.Entry{Kind: undo.KindDelete, Task: removed})
	})
	if !found {
		return fail(CodeNotFound, "Task not found.")
	}

	e.feed.PushToast(fmt.Sprintf("Deleted %q", removed.Title), true)
	e.feed.Push(fmt.Sprintf("Task %q deleted.", removed.Title), notifdomain.SeverityWarning)
	return ok("Task deleted.", nil)
}

// UndoLast pops the newest undo entry and applies its inverse. Undo is a
// privileged system action: no role or transition checks apply.
func (e *engine) UndoLast(actor authdomain.Actor) bool {
	var (
		applied bool
		message string
	)
	e.store.Update(func(s *state.AppState) {
		entry, popped := s.Undo.Pop()
		if !popped {
			return
		}
		applied = true

		switch entry.Kind {
		case undo.KindStatusChange:
			if t := s.FindTask(entry.TaskID); t != nil {
				t.Status = entry.PreviousStatus
				t.UpdatedAt = time.Now()
				t.PushHistory(domain.HistoryUndo, actorID(actor),
					fmt.Sprintf("Undo: status restored to %s.", entry.PreviousStatus), nil)
			}
			message = "Status change reverted."
		case undo.KindCreate:
			kept := s.Tasks[:0]
			for _, t := range s.Tasks {
				if t.ID != entry.TaskID {
					kept = append(kept, t)
				}
			}
			s.Tasks = kept
			message = "Created task removed."
		case undo.KindUpdate:
			if t := s.FindTask(entry.Task.ID); t != nil {
				*t = entry.Task.Clone()
			}
			message = "Task update reverted."
		case undo.KindDelete:
			// Re-insert only when the id was not legitimately recreated.
			if s.FindTask(entry.Task.ID) == nil {
				s.Tasks = append([]domain.Task{entry.Task.Clone()}, s.Tasks...)
			}
			message = "Deleted task restored."
		}
	})
	if !applied {
		return false
	}

	e.feed.Push(message, notifdomain.SeverityInfo)
	e.feed.DismissToast()
	return true
}

func (e *engine) CompletionBlockerFor(taskID string) string {
	var blocker string
	e.store.View(func(s *state.AppState) {
		if t := s.FindTask(taskID); t != nil {
			blocker = domain.CompletionBlocker(*t, s.Tasks)
		}
	})
	return blocker
}

func (e *engine) Tasks() []domain.Task {
	var tasks []domain.Task
	e.store.View(func(s *state.AppState) {
		tasks = make([]domain.Task, 0, len(s.Tasks))
		for _, t := range s.Tasks {
			tasks = append(tasks, t.Clone())
		}
	})
	return tasks
}

func (e *engine) Task(id string) (domain.Task, bool) {
	var (
		task  domain.Task
		found bool
	)
	e.store.View(func(s *state.AppState) {
		if t := s.FindTask(id); t != nil {
			task = t.Clone()
			found = true
		}
	})
	return task, found
}
