package notifier

import (
	"context"
	"log"
	"time"

	"freshkeep-backend/internal/item/domain"
	"freshkeep-backend/internal/item/repository"
)

// Sweep is the startup reconciliation pass: it scans every stored item once
// and schedules reminders for items that lack one, picking up items created
// before reminder logic existed or whose earlier scheduling attempt failed.
// It runs only at process start; it is a best-effort pass, not a guarantee.
type Sweep struct {
	items    repository.ItemRepository
	notifier *Notifier
}

func NewSweep(items repository.ItemRepository, notifier *Notifier) *Sweep {
	return &Sweep{items: items, notifier: notifier}
}

// Run iterates all items sequentially, awaiting each notifier decision before
// moving on. Items already scheduled or already expired are skipped; per-item
// scheduling errors are logged and the sweep continues.
func (s *Sweep) Run(ctx context.Context) error {
	items, err := s.items.ListAll(ctx)
	if err != nil {
		return err
	}

	scheduled := 0
	for _, item := range items {
		if item.HasReminder() {
			continue
		}
		if domain.DaysLeft(item.ExpiryDate, time.Now()) <= 0 {
			continue
		}

		ok, err := s.notifier.EnsureScheduled(ctx, item)
		if err != nil {
			log.Printf("[Sweep] Error scheduling reminder for item %s: %v", item.ID, err)
			continue
		}
		if ok {
			scheduled++
		}
	}

	log.Printf("[Sweep] Finished checking %d items, %d reminders scheduled", len(items), scheduled)
	return nil
}
