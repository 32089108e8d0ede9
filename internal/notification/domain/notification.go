package domain

import "time"

// Severity tags for feed notifications.
const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// FeedCapacity bounds the notification feed; the oldest entries are
// dropped when exceeded.
const FeedCapacity = 150

// Notification is one entry in the persistent read/unread feed.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Severity  string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// Toast is the single ephemeral auto-expiring notice. At most one is live
// at a time and it is never persisted.
type Toast struct {
	ID       string `json:"id"`
	Message  string `json:"message"`
	Undoable bool   `json:"undoable"`
}
