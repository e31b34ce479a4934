package dispatcher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	devicerepo "freshkeep-backend/internal/device/repository"
	"freshkeep-backend/internal/notification/repository"
	"freshkeep-backend/pkg/fcm"
)

// Pusher delivers a notification payload to a set of device tokens and
// reports the tokens that were rejected.
type Pusher interface {
	SendToDevices(ctx context.Context, tokens []string, notification fcm.NotificationData) ([]string, error)
}

// Dispatcher delivers due scheduled notifications to registered devices.
type Dispatcher struct {
	notifRepo  repository.NotificationRepository
	deviceRepo devicerepo.DeviceRepository
	pusher     Pusher
	interval   time.Duration
	stopChan   chan struct{}
}

// NewDispatcher creates a dispatcher that checks for due notifications once
// per minute.
func NewDispatcher(notifRepo repository.NotificationRepository, deviceRepo devicerepo.DeviceRepository, pusher Pusher) *Dispatcher {
	return &Dispatcher{
		notifRepo:  notifRepo,
		deviceRepo: deviceRepo,
		pusher:     pusher,
		interval:   1 * time.Minute,
		stopChan:   make(chan struct{}),
	}
}

// Start begins the dispatch loop. The first check runs immediately.
func (d *Dispatcher) Start() {
	if d.pusher == nil {
		log.Println("[Dispatcher] FCM client not available, dispatcher disabled")
		return
	}

	log.Printf("[Dispatcher] Starting notification dispatcher (interval: %s)", d.interval)

	go func() {
		d.DeliverDue(time.Now())

		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				d.DeliverDue(time.Now())
			case <-d.stopChan:
				log.Println("[Dispatcher] Dispatcher stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the dispatch loop.
func (d *Dispatcher) Stop() {
	close(d.stopChan)
}

// DeliverDue sends every pending notification whose trigger time has passed.
// Each notification is marked sent regardless of delivery success so a flaky
// push path never spams devices on the next tick.
func (d *Dispatcher) DeliverDue(now time.Time) {
	due, err := d.notifRepo.FindDue(now)
	if err != nil {
		log.Printf("[Dispatcher] Error finding due notifications: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}

	log.Printf("[Dispatcher] Found %d due notifications", len(due))

	tokens, err := d.deviceRepo.ListTokens()
	if err != nil {
		log.Printf("[Dispatcher] Error listing device tokens: %v", err)
		return
	}

	var tokenStrings []string
	for _, t := range tokens {
		tokenStrings = append(tokenStrings, t.Token)
	}

	for _, n := range due {
		if len(tokenStrings) == 0 {
			log.Printf("[Dispatcher] No registered devices, marking %s as sent", n.ID)
			if err := d.notifRepo.MarkSent(n.ID); err != nil {
				log.Printf("[Dispatcher] Error marking %s as sent: %v", n.ID, err)
			}
			continue
		}

		data := map[string]string{"notification_id": n.ID}
		if n.Data != "" {
			var stored map[string]string
			if err := json.Unmarshal([]byte(n.Data), &stored); err != nil {
				log.Printf("[Dispatcher] Malformed data payload on %s: %v", n.ID, err)
			} else {
				for k, v := range stored {
					data[k] = v
				}
			}
		}

		failedTokens, err := d.pusher.SendToDevices(context.Background(), tokenStrings, fcm.NotificationData{
			Title: n.Title,
			Body:  n.Body,
			Data:  data,
		})
		if err != nil {
			log.Printf("[Dispatcher] Error delivering %s: %v", n.ID, err)
		} else {
			log.Printf("[Dispatcher] Delivered %s to %d devices", n.ID, len(tokenStrings)-len(failedTokens))
		}

		// Prune tokens FCM rejected so dead devices stop accumulating
		for _, token := range failedTokens {
			if err := d.deviceRepo.DeleteToken(token); err != nil {
				log.Printf("[Dispatcher] Error deleting rejected token: %v", err)
			}
		}

		if err := d.notifRepo.MarkSent(n.ID); err != nil {
			log.Printf("[Dispatcher] Error marking %s as sent: %v", n.ID, err)
		}
	}
}
