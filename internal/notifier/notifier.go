package notifier

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"freshkeep-backend/internal/item/domain"
	"freshkeep-backend/internal/item/repository"
	notifdomain "freshkeep-backend/internal/notification/domain"
)

// ReminderLeadDays is the fixed lead time: reminders fire this many days
// before expiry, or not at all. Short-fuse items get no reminder rather than
// an immediately-fired one.
const ReminderLeadDays = 7

// Scheduler is the slice of the notification service the notifier needs.
type Scheduler interface {
	Schedule(ctx context.Context, req notifdomain.Request) (string, error)
	Cancel(ctx context.Context, id string) error
}

// Notifier decides, per item, whether an expiry reminder should be scheduled,
// and keeps the stored notification ID in sync with that decision.
type Notifier struct {
	items     repository.ItemRepository
	scheduler Scheduler
}

func New(items repository.ItemRepository, scheduler Scheduler) *Notifier {
	return &Notifier{items: items, scheduler: scheduler}
}

// EnsureScheduled evaluates the reminder transition for one item:
// an item already carrying a notification ID stays scheduled, an expired or
// short-fuse item stays unscheduled, and anything else gets a reminder at
// ReminderLeadDays before expiry. On success the returned identifier is
// attached to the item via a conditional update; if a concurrent run attached
// one first, the freshly scheduled notification is withdrawn so the item keeps
// at most one live reminder.
//
// Returns true when a new reminder was scheduled and attached.
func (n *Notifier) EnsureScheduled(ctx context.Context, item *domain.FoodItem) (bool, error) {
	if item.HasReminder() {
		return false, nil
	}

	now := time.Now()
	if domain.DaysLeft(item.ExpiryDate, now) <= 0 {
		return false, nil
	}

	reminderAt := domain.Midnight(item.ExpiryDate).AddDate(0, 0, -ReminderLeadDays)
	if reminderAt.Before(now) {
		log.Printf("[Notifier] Not scheduling reminder for %q - would be in the past", item.Name)
		return false, nil
	}

	id, err := n.scheduler.Schedule(ctx, notifdomain.Request{
		Title: "🍎 Food Expiring Soon!",
		Body: fmt.Sprintf("%s will expire in %d days on %s",
			item.Name, ReminderLeadDays, domain.FormatDate(item.ExpiryDate)),
		Data:      map[string]string{"itemId": item.ID},
		TriggerAt: reminderAt,
	})
	if err != nil {
		return false, fmt.Errorf("failed to schedule reminder for item %s: %w", item.ID, err)
	}

	if err := n.items.AttachNotificationID(ctx, item.ID, id); err != nil {
		// Either way the fresh notification must not outlive the failed attach.
		if cancelErr := n.scheduler.Cancel(ctx, id); cancelErr != nil {
			log.Printf("[Notifier] Error withdrawing notification %s: %v", id, cancelErr)
		}
		if errors.Is(err, repository.ErrNotificationAlreadyAttached) {
			log.Printf("[Notifier] Item %s already has a reminder, withdrew duplicate", item.ID)
			return false, nil
		}
		return false, fmt.Errorf("failed to attach notification id to item %s: %w", item.ID, err)
	}

	item.NotificationID = id
	log.Printf("[Notifier] Scheduled reminder %s for %q at %s", id, item.Name, reminderAt.Format(time.RFC3339))
	return true, nil
}

// Cancel withdraws the item's reminder, if any, and clears the stored
// notification ID so the item can be rescheduled later. The platform cancel is
// best-effort; a failure there still clears the field.
func (n *Notifier) Cancel(ctx context.Context, item *domain.FoodItem) error {
	if !item.HasReminder() {
		return nil
	}

	if err := n.scheduler.Cancel(ctx, item.NotificationID); err != nil {
		log.Printf("[Notifier] Error cancelling notification %s: %v", item.NotificationID, err)
	}

	if err := n.items.ClearNotificationID(ctx, item.ID); err != nil {
		return fmt.Errorf("failed to clear notification id on item %s: %w", item.ID, err)
	}
	item.NotificationID = ""
	return nil
}
