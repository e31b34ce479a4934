package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	devicedomain "freshkeep-backend/internal/device/domain"
)

// DeviceRepository defines the interface for device token operations.
type DeviceRepository interface {
	SaveToken(token, deviceInfo string) error
	ListTokens() ([]devicedomain.DeviceToken, error)
	DeleteToken(token string) error
}

// deviceRepository implements DeviceRepository using GORM.
type deviceRepository struct {
	db *gorm.DB
}

// NewDeviceRepository creates a new instance of deviceRepository.
func NewDeviceRepository(db *gorm.DB) DeviceRepository {
	return &deviceRepository{db: db}
}

// SaveToken saves or refreshes a device token (atomic upsert on token).
func (r *deviceRepository) SaveToken(token, deviceInfo string) error {
	deviceToken := &devicedomain.DeviceToken{
		ID:         uuid.New().String(),
		Token:      token,
		DeviceInfo: deviceInfo,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"device_info", "updated_at"}),
	}).Create(deviceToken).Error
}

// ListTokens returns every registered device token.
func (r *deviceRepository) ListTokens() ([]devicedomain.DeviceToken, error) {
	var tokens []devicedomain.DeviceToken
	if err := r.db.Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

// DeleteToken removes a specific device token.
func (r *deviceRepository) DeleteToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&devicedomain.DeviceToken{}).Error
}
