package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"freshkeep-backend/internal/notification/domain"
	"freshkeep-backend/internal/notification/repository"
)

// ErrTriggerInPast means the requested trigger time has already passed.
var ErrTriggerInPast = errors.New("notification trigger time is in the past")

// Service accepts scheduling requests and hands back opaque notification IDs.
// Delivery happens later, through the Dispatcher.
type Service struct {
	repo       repository.NotificationRepository
	handlerCfg domain.HandlerConfig
}

// NewService creates a notification service. The handler configuration is an
// explicit constructor argument; its flags are copied into the payload of every
// scheduled notification so foregrounded clients know how to present it.
func NewService(repo repository.NotificationRepository, handlerCfg domain.HandlerConfig) *Service {
	return &Service{repo: repo, handlerCfg: handlerCfg}
}

// Schedule stores a notification to be delivered at req.TriggerAt and returns
// its identifier.
func (s *Service) Schedule(ctx context.Context, req domain.Request) (string, error) {
	if req.TriggerAt.Before(time.Now()) {
		return "", ErrTriggerInPast
	}

	payload := map[string]string{
		"show_alert": strconv.FormatBool(s.handlerCfg.ShowAlert),
		"play_sound": strconv.FormatBool(s.handlerCfg.PlaySound),
		"set_badge":  strconv.FormatBool(s.handlerCfg.SetBadge),
	}
	for k, v := range req.Data {
		payload[k] = v
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode notification data: %w", err)
	}

	n := &domain.ScheduledNotification{
		ID:        uuid.New().String(),
		Title:     req.Title,
		Body:      req.Body,
		Data:      string(data),
		TriggerAt: req.TriggerAt,
		Status:    domain.StatusPending,
	}
	if err := s.repo.Create(n); err != nil {
		return "", fmt.Errorf("failed to schedule notification: %w", err)
	}

	log.Printf("[Notification] Scheduled %s (%q) for %s", n.ID, n.Title, n.TriggerAt.Format(time.RFC3339))
	return n.ID, nil
}

// Cancel withdraws a pending notification. An empty ID is a no-op; cancelling
// an unknown or already-sent notification is best-effort and not an error.
func (s *Service) Cancel(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.repo.MarkCancelled(id); err != nil {
		return fmt.Errorf("failed to cancel notification %s: %w", id, err)
	}
	log.Printf("[Notification] Cancelled %s", id)
	return nil
}
