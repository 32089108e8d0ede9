package state

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	authdomain "taskportal-backend/internal/auth/domain"
	caldomain "taskportal-backend/internal/calendar/domain"
	notifdomain "taskportal-backend/internal/notification/domain"
	wfdomain "taskportal-backend/internal/workflow/domain"
)

// StoredUser is the persisted user shape. Unlike the API view it carries
// the credential hash, since the snapshot is the only durable record.
type StoredUser struct {
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

// Snapshot is the full persisted document. Each save is a self-consistent
// replacement of the previous one, never an incremental diff.
type Snapshot struct {
	Users          []StoredUser               `json:"users"`
	Tasks          []wfdomain.Task            `json:"tasks"`
	CalendarEvents []caldomain.Event          `json:"calendarEvents"`
	Notifications  []notifdomain.Notification `json:"notifications"`
	Theme          string                     `json:"theme"`
	Session        authdomain.Session         `json:"session"`
}

func storedUserFrom(u authdomain.User) StoredUser {
	return StoredUser{
		ID:             u.ID,
		Name:           u.Name,
		Role:           string(u.Role),
		Username:       u.Username,
		PasswordHash:   u.Password,
		GithubUsername: u.GithubUsername,
		AvatarDataURL:  u.AvatarDataURL,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (su StoredUser) toUser() authdomain.User {
	role := authdomain.Role(su.Role)
	if role != authdomain.RoleManager {
		role = authdomain.RoleEmployee
	}
	return authdomain.User{
		ID:             su.ID,
		Name:           su.Name,
		Role:           role,
		Username:       su.Username,
		Password:       su.PasswordHash,
		GithubUsername: su.GithubUsername,
		AvatarDataURL:  su.AvatarDataURL,
		CreatedAt:      su.CreatedAt,
		UpdatedAt:      su.UpdatedAt,
	}
}

// makeSnapshot deep-copies the persisted portion of the aggregate so the
// async writer never aliases live state.
func makeSnapshot(s *AppState) Snapshot {
	doc := Snapshot{
		Users:          make([]StoredUser, 0, len(s.Users)),
		Tasks:          make([]wfdomain.Task, 0, len(s.Tasks)),
		CalendarEvents: append([]caldomain.Event{}, s.CalendarEvents...),
		Notifications:  append([]notifdomain.Notification{}, s.Notifications...),
		Theme:          s.Theme,
		Session:        s.Session,
	}
	for _, u := range s.Users {
		doc.Users = append(doc.Users, storedUserFrom(u))
	}
	for _, t := range s.Tasks {
		doc.Tasks = append(doc.Tasks, t.Clone())
	}
	return doc
}

// SnapshotModel is the gorm row holding the marshaled document. A single
// row (ID 1) is replaced on every save.
type SnapshotModel struct {
	ID        uint   `gorm:"primaryKey"`
	Data      []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (SnapshotModel) TableName() string { return "snapshots" }

// SnapshotRepository persists snapshots through gorm.
type SnapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository auto-migrates the snapshots table.
func NewSnapshotRepository(db *gorm.DB) (*SnapshotRepository, error) {
	if err := db.AutoMigrate(&SnapshotModel{}); err != nil {
		return nil, err
	}
	return &SnapshotRepository{db: db}, nil
}

// Save marshals and upserts the single snapshot row.
func (r *SnapshotRepository) Save(doc Snapshot) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	model := SnapshotModel{ID: 1, Data: data, UpdatedAt: time.Now()}
	return r.db.Save(&model).Error
}

// Load returns the stored document, or ok=false when no usable snapshot
// exists. A corrupt row is treated the same as a missing one; the caller
// falls back to seed data rather than failing.
func (r *SnapshotRepository) Load() (Snapshot, bool) {
	var model SnapshotModel
	err := r.db.First(&model, 1).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[Snapshot] load failed: %v", err)
		}
		return Snapshot{}, false
	}

	var doc Snapshot
	if err := json.Unmarshal(model.Data, &doc); err != nil {
		log.Printf("[Snapshot] corrupt snapshot ignored: %v", err)
		return Snapshot{}, false
	}
	return doc, true
}

// Restore validates a loaded document field by field and turns it into a
// live aggregate. A malformed top-level shape (missing users or tasks)
// yields ok=false so the caller can fall back to seed data.
func Restore(doc Snapshot) (AppState, bool) {
	if doc.Users == nil || doc.Tasks == nil {
		return AppState{}, false
	}

	s := AppState{
		Users:          make([]authdomain.User, 0, len(doc.Users)),
		Tasks:          make([]wfdomain.Task, 0, len(doc.Tasks)),
		CalendarEvents: doc.CalendarEvents,
		Notifications:  doc.Notifications,
		Theme:          ThemeLight,
		Session:        authdomain.Session{},
	}
	for _, su := range doc.Users {
		s.Users = append(s.Users, su.toUser())
	}
	for _, t := range doc.Tasks {
		s.Tasks = append(s.Tasks, wfdomain.Sanitize(t))
	}
	if s.CalendarEvents == nil {
		s.CalendarEvents = []caldomain.Event{}
	}
	if s.Notifications == nil {
		s.Notifications = []notifdomain.Notification{}
	}
	if doc.Theme == ThemeDark {
		s.Theme = ThemeDark
	}
	if doc.Session.LoggedIn && doc.Session.UserID != "" && doc.Session.Role != "" {
		s.Session = doc.Session
	}

	// Dangling dependency ids are pruned on load.
	ids := make(map[string]bool, len(s.Tasks))
	for _, t := range s.Tasks {
		ids[t.ID] = true
	}
	for i := range s.Tasks {
		s.Tasks[i].PruneDependencies(func(id string) bool { return ids[id] })
	}

	return s, true
}

// InitialState loads the last snapshot and falls back to seed data when it
// is absent or malformed. Never fails.
func InitialState(repo *SnapshotRepository) AppState {
	if repo != nil {
		if doc, ok := repo.Load(); ok {
			if s, ok := Restore(doc); ok {
				return s
			}
			log.Printf("[Snapshot] stored snapshot malformed, using seed data")
		}
	}
	return Seed()
}
