package dispatcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	devicedomain "freshkeep-backend/internal/device/domain"
	"freshkeep-backend/internal/notification/domain"
	"freshkeep-backend/pkg/fcm"
)

type fakeNotifRepo struct {
	rows []*domain.ScheduledNotification
}

func (r *fakeNotifRepo) Create(n *domain.ScheduledNotification) error {
	r.rows = append(r.rows, n)
	return nil
}

func (r *fakeNotifRepo) FindByID(id string) (*domain.ScheduledNotification, error) {
	for _, n := range r.rows {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, nil
}

func (r *fakeNotifRepo) FindDue(now time.Time) ([]*domain.ScheduledNotification, error) {
	var due []*domain.ScheduledNotification
	for _, n := range r.rows {
		if n.Status == domain.StatusPending && !n.TriggerAt.After(now) {
			due = append(due, n)
		}
	}
	return due, nil
}

func (r *fakeNotifRepo) MarkSent(id string) error {
	for _, n := range r.rows {
		if n.ID == id {
			n.Status = domain.StatusSent
		}
	}
	return nil
}

func (r *fakeNotifRepo) MarkCancelled(id string) error {
	for _, n := range r.rows {
		if n.ID == id && n.Status == domain.StatusPending {
			n.Status = domain.StatusCancelled
		}
	}
	return nil
}

type fakeDeviceRepo struct {
	tokens  []devicedomain.DeviceToken
	deleted []string
}

func (r *fakeDeviceRepo) SaveToken(token, deviceInfo string) error {
	r.tokens = append(r.tokens, devicedomain.DeviceToken{Token: token, DeviceInfo: deviceInfo})
	return nil
}

func (r *fakeDeviceRepo) ListTokens() ([]devicedomain.DeviceToken, error) {
	return r.tokens, nil
}

func (r *fakeDeviceRepo) DeleteToken(token string) error {
	r.deleted = append(r.deleted, token)
	return nil
}

type fakePusher struct {
	sent   []fcm.NotificationData
	reject []string
}

func (p *fakePusher) SendToDevices(_ context.Context, tokens []string, n fcm.NotificationData) ([]string, error) {
	p.sent = append(p.sent, n)
	return p.reject, nil
}

func pendingAt(id string, trigger time.Time) *domain.ScheduledNotification {
	return &domain.ScheduledNotification{
		ID:        id,
		Title:     "Food Expiring Soon!",
		Body:      "Milk will expire in 7 days",
		Data:      `{"itemId":"item-1","show_alert":"true"}`,
		TriggerAt: trigger,
		Status:    domain.StatusPending,
	}
}

func TestDeliverDueSendsAndMarksSent(t *testing.T) {
	now := time.Now()
	notifRepo := &fakeNotifRepo{rows: []*domain.ScheduledNotification{
		pendingAt("due", now.Add(-time.Minute)),
		pendingAt("future", now.Add(time.Hour)),
	}}
	deviceRepo := &fakeDeviceRepo{tokens: []devicedomain.DeviceToken{{Token: "tok-1"}, {Token: "tok-2"}}}
	pusher := &fakePusher{}

	NewDispatcher(notifRepo, deviceRepo, pusher).DeliverDue(now)

	require.Len(t, pusher.sent, 1)
	assert.Equal(t, "Food Expiring Soon!", pusher.sent[0].Title)
	assert.Equal(t, "item-1", pusher.sent[0].Data["itemId"])
	assert.Equal(t, "true", pusher.sent[0].Data["show_alert"])
	assert.Equal(t, "due", pusher.sent[0].Data["notification_id"])

	assert.Equal(t, domain.StatusSent, notifRepo.rows[0].Status)
	assert.Equal(t, domain.StatusPending, notifRepo.rows[1].Status)
}

func TestDeliverDueMarksSentWithoutDevices(t *testing.T) {
	now := time.Now()
	notifRepo := &fakeNotifRepo{rows: []*domain.ScheduledNotification{
		pendingAt("due", now.Add(-time.Minute)),
	}}
	pusher := &fakePusher{}

	NewDispatcher(notifRepo, &fakeDeviceRepo{}, pusher).DeliverDue(now)

	assert.Empty(t, pusher.sent)
	assert.Equal(t, domain.StatusSent, notifRepo.rows[0].Status)
}

func TestDeliverDuePrunesRejectedTokens(t *testing.T) {
	now := time.Now()
	notifRepo := &fakeNotifRepo{rows: []*domain.ScheduledNotification{
		pendingAt("due", now.Add(-time.Minute)),
	}}
	deviceRepo := &fakeDeviceRepo{tokens: []devicedomain.DeviceToken{{Token: "dead"}, {Token: "alive"}}}
	pusher := &fakePusher{reject: []string{"dead"}}

	NewDispatcher(notifRepo, deviceRepo, pusher).DeliverDue(now)

	assert.Equal(t, []string{"dead"}, deviceRepo.deleted)
	assert.Equal(t, domain.StatusSent, notifRepo.rows[0].Status)
}

func TestDeliverDueSkipsCancelled(t *testing.T) {
	now := time.Now()
	cancelled := pendingAt("gone", now.Add(-time.Minute))
	cancelled.Status = domain.StatusCancelled
	notifRepo := &fakeNotifRepo{rows: []*domain.ScheduledNotification{cancelled}}
	pusher := &fakePusher{}

	NewDispatcher(notifRepo, &fakeDeviceRepo{tokens: []devicedomain.DeviceToken{{Token: "tok"}}}, pusher).DeliverDue(now)

	assert.Empty(t, pusher.sent)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
}
