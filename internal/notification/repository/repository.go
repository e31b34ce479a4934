package repository

import (
	"time"

	"freshkeep-backend/internal/notification/domain"
)

// NotificationRepository defines data access for scheduled notifications.
type NotificationRepository interface {
	// Create inserts a new pending notification.
	Create(n *domain.ScheduledNotification) error

	// FindByID returns the notification or nil when none exists.
	FindByID(id string) (*domain.ScheduledNotification, error)

	// FindDue returns pending notifications with trigger_at <= now.
	FindDue(now time.Time) ([]*domain.ScheduledNotification, error)

	// MarkSent transitions a notification to sent.
	MarkSent(id string) error

	// MarkCancelled transitions a pending notification to cancelled.
	// Already-sent notifications are left alone.
	MarkCancelled(id string) error
}
