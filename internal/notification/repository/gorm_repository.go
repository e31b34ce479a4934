package repository

import (
	"time"

	"gorm.io/gorm"

	"freshkeep-backend/internal/notification/domain"
)

// gormNotificationRepository implements NotificationRepository using GORM.
type gormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a GORM-based NotificationRepository.
func NewGormNotificationRepository(db *gorm.DB) NotificationRepository {
	return &gormNotificationRepository{db: db}
}

func (r *gormNotificationRepository) Create(n *domain.ScheduledNotification) error {
	n.CreatedAt = time.Now()
	n.UpdatedAt = time.Now()
	return r.db.Create(n).Error
}

func (r *gormNotificationRepository) FindByID(id string) (*domain.ScheduledNotification, error) {
	var n domain.ScheduledNotification
	err := r.db.Where("id = ?", id).First(&n).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

func (r *gormNotificationRepository) FindDue(now time.Time) ([]*domain.ScheduledNotification, error) {
	var due []*domain.ScheduledNotification
	err := r.db.Where("trigger_at <= ? AND status = ?", now, domain.StatusPending).
		Order("trigger_at ASC").Find(&due).Error
	return due, err
}

func (r *gormNotificationRepository) MarkSent(id string) error {
	return r.db.Model(&domain.ScheduledNotification{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     domain.StatusSent,
			"updated_at": time.Now(),
		}).Error
}

func (r *gormNotificationRepository) MarkCancelled(id string) error {
	return r.db.Model(&domain.ScheduledNotification{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Updates(map[string]interface{}{
			"status":     domain.StatusCancelled,
			"updated_at": time.Now(),
		}).Error
}
