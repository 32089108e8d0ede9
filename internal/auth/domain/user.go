package domain

import "time"

// Role is a user's portal role. Roles are immutable after creation.
type Role string

const (
	RoleManager  Role = "Manager"
	RoleEmployee Role = "Employee"
)

type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Role           Role      `json:"role"`
	Username       string    `json:"username"`
	Password       string    `json:"-"` // bcrypt hash, never returned in API responses
	GithubUsername string    `json:"githubUsername"`
	AvatarDataURL  string    `json:"avatarDataUrl,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Session is the single login session carried inside the app state.
type Session struct {
	LoggedIn bool   `json:"loggedIn"`
	UserID   string `json:"userId"`
	Role     Role   `json:"role"`
}

// Actor identifies who is performing an engine operation.
type Actor struct {
	ID   string
	Role Role
}

// IsManager reports whether the actor holds the Manager role.
func (a Actor) IsManager() bool {
	return a.Role == RoleManager
}
