package state

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	authdomain "taskportal-backend/internal/auth/domain"
	caldomain "taskportal-backend/internal/calendar/domain"
	notifdomain "taskportal-backend/internal/notification/domain"
	wfdomain "taskportal-backend/internal/workflow/domain"
)

func hashPassword(plain string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		// Only reachable with an invalid cost constant.
		panic(err)
	}
	return string(hash)
}

func seedTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

// Seed builds the demo aggregate used when no snapshot exists: one manager,
// two employees and three tasks covering each workflow state.
func Seed() AppState {
	created := seedTime("2026-02-20T09:30:00Z")

	users := []authdomain.User{
		{
			ID:        "mgr-1",
			Name:      "Jeswanth",
			Role:      authdomain.RoleManager,
			Username:  "jeswanth",
			Password:  hashPassword("123456"),
			CreatedAt: created,
			UpdatedAt: created,
		},
		{
			ID:        "emp-1",
			Name:      "Hari",
			Role:      authdomain.RoleEmployee,
			Username:  "hari",
			Password:  hashPassword("12345"),
			CreatedAt: created,
			UpdatedAt: created,
		},
		{
			ID:        "emp-2",
			Name:      "Sarath",
			Role:      authdomain.RoleEmployee,
			Username:  "sarath",
			Password:  hashPassword("1234"),
			CreatedAt: created,
			UpdatedAt: created,
		},
	}

	tasks := []wfdomain.Task{
		{
			ID:          "task-1",
			Title:       "Design task board layout",
			Description: "Create a Kanban layout with Pending, In Progress, and Completed columns.",
			Priority:    wfdomain.PriorityHigh,
			Deadline:    "2026-03-05",
			AssignedTo:  "emp-1",
			Status:      wfdomain.StatusPending,
			Labels:      []string{"UI", "Kanban"},
			History: []wfdomain.HistoryEntry{
				{
					ID:        "hist-1",
					Kind:      wfdomain.HistoryAssigned,
					ActorID:   "mgr-1",
					Message:   "Assigned to Hari.",
					CreatedAt: seedTime("2026-02-20T09:30:00Z"),
					Meta:      map[string]string{"assignedTo": "emp-1"},
				},
				{
					ID:        "hist-2",
					Kind:      wfdomain.HistoryCreated,
					ActorID:   "mgr-1",
					Message:   "Task created.",
					CreatedAt: seedTime("2026-02-20T09:30:00Z"),
					Meta:      map[string]string{},
				},
			},
			CreatedAt: seedTime("2026-02-20T09:30:00Z"),
			UpdatedAt: seedTime("2026-02-20T09:30:00Z"),
		},
		{
			ID:          "task-2",
			Title:       "Implement status transitions",
			Description: "Allow employee status flow Pending -> In Progress -> Completed.",
			Priority:    wfdomain.PriorityMedium,
			Deadline:    "2026-03-07",
			AssignedTo:  "emp-2",
			Status:      wfdomain.StatusInProgress,
			Labels:      []string{"Logic"},
			History: []wfdomain.HistoryEntry{
				{
					ID:        "hist-3",
					Kind:      wfdomain.HistoryStatusChange,
					ActorID:   "emp-2",
					Message:   "Status changed from Pending to In Progress.",
					CreatedAt: seedTime("2026-02-22T15:00:00Z"),
					Meta:      map[string]string{"fromStatus": "Pending", "toStatus": "In Progress"},
				},
				{
					ID:        "hist-4",
					Kind:      wfdomain.HistoryAssigned,
					ActorID:   "mgr-1",
					Message:   "Assigned to Sarath.",
					CreatedAt: seedTime("2026-02-21T10:10:00Z"),
					Meta:      map[string]string{"assignedTo": "emp-2"},
				},
				{
					ID:        "hist-5",
					Kind:      wfdomain.HistoryCreated,
					ActorID:   "mgr-1",
					Message:   "Task created.",
					CreatedAt: seedTime("2026-02-21T10:10:00Z"),
					Meta:      map[string]string{},
				},
			},
			CreatedAt: seedTime("2026-02-21T10:10:00Z"),
			UpdatedAt: seedTime("2026-02-22T15:00:00Z"),
		},
		{
			ID:          "task-3",
			Title:       "Set up profile GitHub linking",
			Description: "Add GitHub username storage and avatar rendering on profile page.",
			Priority:    wfdomain.PriorityLow,
			Deadline:    "2026-03-10",
			AssignedTo:  "emp-2",
			Status:      wfdomain.StatusCompleted,
			Labels:      []string{"Profile"},
			Comments: []wfdomain.Comment{
				{
					ID:        "comment-1",
					Text:      "Completed and verified avatar rendering.",
					AuthorID:  "emp-2",
					CreatedAt: seedTime("2026-02-25T08:15:00Z"),
				},
			},
			History: []wfdomain.HistoryEntry{
				{
					ID:        "hist-6",
					Kind:      wfdomain.HistoryComment,
					ActorID:   "emp-2",
					Message:   "Comment added.",
					CreatedAt: seedTime("2026-02-25T08:15:00Z"),
					Meta:      map[string]string{},
				},
				{
					ID:        "hist-7",
					Kind:      wfdomain.HistoryStatusChange,
					ActorID:   "emp-2",
					Message:   "Status changed from In Progress to Completed.",
					CreatedAt: seedTime("2026-02-24T10:00:00Z"),
					Meta:      map[string]string{"fromStatus": "In Progress", "toStatus": "Completed"},
				},
				{
					ID:        "hist-8",
					Kind:      wfdomain.HistoryAssigned,
					ActorID:   "mgr-1",
					Message:   "Assigned to Sarath.",
					CreatedAt: seedTime("2026-02-21T11:45:00Z"),
					Meta:      map[string]string{"assignedTo": "emp-2"},
				},
				{
					ID:        "hist-9",
					Kind:      wfdomain.HistoryCreated,
					ActorID:   "mgr-1",
					Message:   "Task created.",
					CreatedAt: seedTime("2026-02-21T11:45:00Z"),
					Meta:      map[string]string{},
				},
			},
			CreatedAt: seedTime("2026-02-21T11:45:00Z"),
			UpdatedAt: seedTime("2026-02-25T08:15:00Z"),
		},
	}

	for i := range tasks {
		tasks[i] = wfdomain.Sanitize(tasks[i])
	}

	return AppState{
		Users:          users,
		Tasks:          tasks,
		CalendarEvents: []caldomain.Event{},
		Notifications:  []notifdomain.Notification{},
		Theme:          ThemeLight,
		Session:        authdomain.Session{},
	}
}
