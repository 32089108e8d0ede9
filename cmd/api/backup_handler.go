package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authdelivery "taskportal-backend/internal/auth/delivery"
	authdomain "taskportal-backend/internal/auth/domain"
	caldomain "taskportal-backend/internal/calendar/domain"
	notifdomain "taskportal-backend/internal/notification/domain"
	"taskportal-backend/internal/state"
	wfdomain "taskportal-backend/internal/workflow/domain"
)

// backupUser mirrors the persisted user shape so an exported file can be
// imported back without losing credentials.
type backupUser struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	Username       string    `json:"username"`
	PasswordHash   string    `json:"passwordHash"`
	GithubUsername string    `json:"githubUsername"`
	AvatarDataURL  string    `json:"avatarDataUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type backupDocument struct {
	Version        int               `json:"version"`
	ExportedAt     time.Time         `json:"exportedAt"`
	Users          []backupUser      `json:"users"`
	Tasks          []wfdomain.Task   `json:"tasks"`
	CalendarEvents []caldomain.Event `json:"calendarEvents"`
	Theme          string            `json:"theme"`
}

// ExportBackup serializes users, tasks, events and theme
// GET /api/backup/export
func (h *Handler) ExportBackup(c *gin.Context) {
	doc := backupDocument{Version: 1, ExportedAt: time.Now()}
	h.store.View(func(s *state.AppState) {
		for _, u := range s.Users {
			doc.Users = append(doc.Users, backupUser{
				ID:             u.ID,
				Name:           u.Name,
				Role:           string(u.Role),
				Username:       u.Username,
				PasswordHash:   u.Password,
				GithubUsername: u.GithubUsername,
				AvatarDataURL:  u.AvatarDataURL,
				CreatedAt:      u.CreatedAt,
				UpdatedAt:      u.UpdatedAt,
			})
		}
		for _, t := range s.Tasks {
			doc.Tasks = append(doc.Tasks, t.Clone())
		}
		doc.CalendarEvents = append(doc.CalendarEvents, s.CalendarEvents...)
		doc.Theme = s.Theme
	})

	c.Header("Content-Disposition", "attachment; filename=taskportal-backup.json")
	c.JSON(http.StatusOK, doc)
}

// ImportBackup replaces users, tasks and events wholesale. Manager only,
// and never undoable; the undo log is cleared to keep stale inverses from
// resurrecting pre-import state.
// POST /api/backup/import
func (h *Handler) ImportBackup(c *gin.Context) {
	if !authdelivery.ActorFrom(c).IsManager() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only manager can import a backup."})
		return
	}

	var doc backupDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid backup file."})
		return
	}
	if doc.Users == nil || doc.Tasks == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Backup must contain users and tasks."})
		return
	}

	users := make([]authdomain.User, 0, len(doc.Users))
	hasManager := false
	for _, bu := range doc.Users {
		role := authdomain.Role(bu.Role)
		if role != authdomain.RoleManager {
			role = authdomain.RoleEmployee
		} else {
			hasManager = true
		}
		users = append(users, authdomain.User{
			ID:             bu.ID,
			Name:           bu.Name,
			Role:           role,
			Username:       bu.Username,
			Password:       bu.PasswordHash,
			GithubUsername: bu.GithubUsername,
			AvatarDataURL:  bu.AvatarDataURL,
			CreatedAt:      bu.CreatedAt,
			UpdatedAt:      bu.UpdatedAt,
		})
	}
	if !hasManager {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Backup must contain at least one Manager."})
		return
	}

	userIDs := make(map[string]bool, len(users))
	for _, u := range users {
		userIDs[u.ID] = true
	}

	tasks := make([]wfdomain.Task, 0, len(doc.Tasks))
	taskIDs := make(map[string]bool, len(doc.Tasks))
	for _, t := range doc.Tasks {
		task := wfdomain.Sanitize(t)
		if !userIDs[task.AssignedTo] {
			task.AssignedTo = ""
		}
		tasks = append(tasks, task)
		taskIDs[task.ID] = true
	}
	for i := range tasks {
		tasks[i].PruneDependencies(func(id string) bool { return taskIDs[id] })
	}

	events := doc.CalendarEvents
	if events == nil {
		events = []caldomain.Event{}
	}

	h.store.Update(func(s *state.AppState) {
		s.Users = users
		s.Tasks = tasks
		s.CalendarEvents = events
		if doc.Theme == state.ThemeDark || doc.Theme == state.ThemeLight {
			s.Theme = doc.Theme
		}
		s.Undo.Clear()
	})

	h.feed.Push("Backup imported.", notifdomain.SeveritySuccess)
	c.JSON(http.StatusOK, gin.H{"message": "Backup imported", "users": len(users), "tasks": len(tasks)})
}
