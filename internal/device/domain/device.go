package domain

import "time"

// DeviceToken is a Firebase Cloud Messaging token for one household device.
// Reminders are fanned out to every registered token at delivery time.
type DeviceToken struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Token      string    `json:"-" gorm:"uniqueIndex;not null"` // Don't expose token in JSON
	DeviceInfo string    `json:"device_info"`                   // Phone/OS metadata
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
