package domain

import "time"

// Status represents the lifecycle state of a scheduled notification.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSent      Status = "sent"
	StatusCancelled Status = "cancelled"
)

// ScheduledNotification is a reminder waiting to be delivered at TriggerAt.
// The ID is the opaque identifier handed back to callers of Schedule.
type ScheduledNotification struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null"`
	Body      string    `json:"body"`
	Data      string    `json:"data"` // JSON-encoded payload delivered with the push
	TriggerAt time.Time `json:"trigger_at" gorm:"index;not null"`
	Status    Status    `json:"status" gorm:"index;default:pending"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Request describes a notification to schedule.
type Request struct {
	Title     string
	Body      string
	Data      map[string]string
	TriggerAt time.Time
}

// HandlerConfig controls how clients present a notification that arrives while
// the app is foregrounded. It is passed to the service at construction and
// travels with every push, rather than living in process-wide mutable state.
type HandlerConfig struct {
	ShowAlert bool
	PlaySound bool
	SetBadge  bool
}

// DefaultHandlerConfig mirrors the presentation the mobile app uses.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{ShowAlert: true, PlaySound: true, SetBadge: true}
}
