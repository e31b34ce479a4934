package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"freshkeep-backend/internal/item/domain"
)

// ItemCollection is the Firestore collection holding food item documents.
const ItemCollection = "foodItems"

// firestoreItemRepository implements ItemRepository over a Firestore collection.
type firestoreItemRepository struct {
	client *firestore.Client
}

// NewFirestoreItemRepository creates a Firestore-backed ItemRepository.
func NewFirestoreItemRepository(client *firestore.Client) ItemRepository {
	return &firestoreItemRepository{client: client}
}

func (r *firestoreItemRepository) items() *firestore.CollectionRef {
	return r.client.Collection(ItemCollection)
}

func (r *firestoreItemRepository) Create(ctx context.Context, item *domain.FoodItem) (string, error) {
	// CreatedAt is zero here; the serverTimestamp tag makes Firestore assign it.
	ref, _, err := r.items().Add(ctx, item)
	if err != nil {
		return "", fmt.Errorf("failed to create food item: %w", err)
	}
	item.ID = ref.ID
	return ref.ID, nil
}

func (r *firestoreItemRepository) GetByID(ctx context.Context, id string) (*domain.FoodItem, error) {
	snap, err := r.items().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get food item %s: %w", id, err)
	}
	return itemFromSnapshot(snap)
}

func (r *firestoreItemRepository) ListAll(ctx context.Context) ([]*domain.FoodItem, error) {
	var items []*domain.FoodItem

	iter := r.items().Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list food items: %w", err)
		}
		item, err := itemFromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// AttachNotificationID runs a transaction so the read of the current field and
// the write happen atomically: two sweeps racing on the same item cannot both
// attach an ID.
func (r *firestoreItemRepository) AttachNotificationID(ctx context.Context, id, notificationID string) error {
	ref := r.items().Doc(id)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrItemNotFound
			}
			return err
		}

		existing, err := snap.DataAt("notificationId")
		if err == nil {
			if s, ok := existing.(string); ok && s != "" {
				return ErrNotificationAlreadyAttached
			}
		}

		return tx.Update(ref, []firestore.Update{
			{Path: "notificationId", Value: notificationID},
		})
	})
	if err == ErrItemNotFound || err == ErrNotificationAlreadyAttached {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to attach notification id to item %s: %w", id, err)
	}
	return nil
}

func (r *firestoreItemRepository) ClearNotificationID(ctx context.Context, id string) error {
	_, err := r.items().Doc(id).Update(ctx, []firestore.Update{
		{Path: "notificationId", Value: firestore.Delete},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to clear notification id on item %s: %w", id, err)
	}
	return nil
}

func itemFromSnapshot(snap *firestore.DocumentSnapshot) (*domain.FoodItem, error) {
	var item domain.FoodItem
	if err := snap.DataTo(&item); err != nil {
		return nil, fmt.Errorf("malformed food item document %s: %w", snap.Ref.ID, err)
	}
	item.ID = snap.Ref.ID
	return &item, nil
}
