package repository

import (
	"context"
	"errors"

	"freshkeep-backend/internal/item/domain"
)

var (
	// ErrItemNotFound means no document exists for the requested ID.
	ErrItemNotFound = errors.New("food item not found")

	// ErrNotificationAlreadyAttached means a conditional AttachNotificationID
	// lost to a concurrent writer: the item already carries a notification ID.
	ErrNotificationAlreadyAttached = errors.New("notification id already attached")
)

// ItemRepository defines data access for the foodItems collection.
type ItemRepository interface {
	// Create persists a new item and returns the store-assigned ID.
	// CreatedAt is server-assigned; the caller supplies the daysLeft snapshot.
	Create(ctx context.Context, item *domain.FoodItem) (string, error)

	// GetByID returns the item or ErrItemNotFound.
	GetByID(ctx context.Context, id string) (*domain.FoodItem, error)

	// ListAll returns every stored item.
	ListAll(ctx context.Context) ([]*domain.FoodItem, error)

	// AttachNotificationID sets the notificationId field, but only if the item
	// does not already carry one. Returns ErrNotificationAlreadyAttached when
	// a concurrent writer got there first, ErrItemNotFound when the document
	// is gone. The update touches only the notificationId field.
	AttachNotificationID(ctx context.Context, id, notificationID string) error

	// ClearNotificationID removes the notificationId field from the item.
	ClearNotificationID(ctx context.Context, id string) error
}
