package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshkeep-backend/internal/item/domain"
	"freshkeep-backend/internal/item/repository"
	"freshkeep-backend/pkg/openfoodfacts"
)

type fakeItemRepo struct {
	items     []*domain.FoodItem
	createErr error
}

func (r *fakeItemRepo) Create(_ context.Context, item *domain.FoodItem) (string, error) {
	if r.createErr != nil {
		return "", r.createErr
	}
	item.ID = fmt.Sprintf("item-%d", len(r.items)+1)
	item.CreatedAt = time.Now()
	r.items = append(r.items, item)
	return item.ID, nil
}

func (r *fakeItemRepo) GetByID(_ context.Context, id string) (*domain.FoodItem, error) {
	for _, item := range r.items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, repository.ErrItemNotFound
}

func (r *fakeItemRepo) ListAll(_ context.Context) ([]*domain.FoodItem, error) {
	return r.items, nil
}

func (r *fakeItemRepo) AttachNotificationID(_ context.Context, id, notificationID string) error {
	item, err := r.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	if item.NotificationID != "" {
		return repository.ErrNotificationAlreadyAttached
	}
	item.NotificationID = notificationID
	return nil
}

func (r *fakeItemRepo) ClearNotificationID(_ context.Context, id string) error {
	item, err := r.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	item.NotificationID = ""
	return nil
}

type fakeLookup struct {
	info openfoodfacts.ProductInfo
	err  error
}

func (l *fakeLookup) Lookup(_ context.Context, _ string) (openfoodfacts.ProductInfo, error) {
	return l.info, l.err
}

type fakeNotifier struct {
	calls     int
	scheduled bool
	err       error
}

func (n *fakeNotifier) EnsureScheduled(_ context.Context, item *domain.FoodItem) (bool, error) {
	n.calls++
	if n.scheduled {
		item.NotificationID = "notif-1"
	}
	return n.scheduled, n.err
}

func expiryString(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func TestCreateItemPersistsAndSchedules(t *testing.T) {
	repo := &fakeItemRepo{}
	notifier := &fakeNotifier{scheduled: true}
	uc := NewItemUsecase(repo, &fakeLookup{}, notifier)

	res, err := uc.CreateItem(context.Background(), CreateItemRequest{
		Name:       "  Alpro Soya Drink ",
		Barcode:    "5411188110835",
		Category:   "dairy",
		ExpiryDate: expiryString(10),
	})
	require.NoError(t, err)

	assert.Equal(t, "item-1", res.Item.ID)
	assert.Equal(t, "Alpro Soya Drink", res.Item.Name)
	assert.Equal(t, domain.CategoryDairy, res.Item.Category)
	assert.Equal(t, 10, res.Item.DaysLeft)
	assert.True(t, res.NotificationScheduled)
	assert.Equal(t, 1, notifier.calls)

	stored, err := uc.GetItemDetails(context.Background(), "item-1")
	require.NoError(t, err)
	assert.Equal(t, "5411188110835", stored.Item.Barcode)
}

func TestCreateItemValidation(t *testing.T) {
	uc := NewItemUsecase(&fakeItemRepo{}, &fakeLookup{}, &fakeNotifier{})

	_, err := uc.CreateItem(context.Background(), CreateItemRequest{Name: "   ", ExpiryDate: expiryString(5)})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = uc.CreateItem(context.Background(), CreateItemRequest{Name: "Milk", ExpiryDate: "next tuesday"})
	assert.ErrorIs(t, err, ErrInvalidExpiryDate)
}

func TestCreateItemUnknownCategoryDefaultsToOther(t *testing.T) {
	repo := &fakeItemRepo{}
	uc := NewItemUsecase(repo, &fakeLookup{}, &fakeNotifier{})

	res, err := uc.CreateItem(context.Background(), CreateItemRequest{
		Name:       "Mystery",
		Category:   "cryogenics",
		ExpiryDate: expiryString(3),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryOther, res.Item.Category)
}

func TestCreateItemSchedulingFailureIsNotFatal(t *testing.T) {
	repo := &fakeItemRepo{}
	uc := NewItemUsecase(repo, &fakeLookup{}, &fakeNotifier{err: errors.New("platform down")})

	res, err := uc.CreateItem(context.Background(), CreateItemRequest{
		Name:       "Milk",
		ExpiryDate: expiryString(10),
	})
	require.NoError(t, err)
	assert.False(t, res.NotificationScheduled)
	assert.Len(t, repo.items, 1)
}

func TestLookupProductCollapsesFailures(t *testing.T) {
	uc := NewItemUsecase(&fakeItemRepo{}, &fakeLookup{err: errors.New("timeout")}, &fakeNotifier{})

	info := uc.LookupProduct(context.Background(), "000")
	assert.Equal(t, openfoodfacts.DefaultProduct(), info)

	uc = NewItemUsecase(&fakeItemRepo{}, &fakeLookup{err: openfoodfacts.ErrProductNotFound}, &fakeNotifier{})
	info = uc.LookupProduct(context.Background(), "000")
	assert.Equal(t, openfoodfacts.DefaultProduct(), info)
}

func TestListItemsRecomputesDaysLeft(t *testing.T) {
	stale := &domain.FoodItem{
		ID:         "item-1",
		Name:       "Old Yogurt",
		ExpiryDate: domain.Midnight(time.Now()).AddDate(0, 0, 2),
		DaysLeft:   30, // stale snapshot from creation time
	}
	noDate := &domain.FoodItem{ID: "item-2", Name: "Undated"}
	repo := &fakeItemRepo{items: []*domain.FoodItem{stale, noDate}}
	uc := NewItemUsecase(repo, &fakeLookup{}, &fakeNotifier{})

	views, err := uc.ListItems(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, 2, views[0].DaysLeft)
	assert.True(t, views[0].ValidDate)

	assert.False(t, views[1].ValidDate)
	assert.Zero(t, views[1].DaysLeft)
}

func TestGetItemDetailsFallsBackToStoredFields(t *testing.T) {
	item := &domain.FoodItem{
		ID:         "item-1",
		Name:       "Stored Name",
		ImageURL:   "https://images.example/stored.jpg",
		Barcode:    "123",
		ExpiryDate: domain.Midnight(time.Now()).AddDate(0, 0, 4),
	}
	repo := &fakeItemRepo{items: []*domain.FoodItem{item}}
	uc := NewItemUsecase(repo, &fakeLookup{err: errors.New("offline")}, &fakeNotifier{})

	details, err := uc.GetItemDetails(context.Background(), "item-1")
	require.NoError(t, err)
	assert.Equal(t, "Stored Name", details.Product.Name)
	assert.Equal(t, "https://images.example/stored.jpg", details.Product.ImageURL)
	assert.Equal(t, openfoodfacts.NotAvailable, details.Product.Nutrition.Calories)
	assert.Equal(t, 4, details.DaysLeft)
}

func TestGetItemDetailsNotFound(t *testing.T) {
	uc := NewItemUsecase(&fakeItemRepo{}, &fakeLookup{}, &fakeNotifier{})
	_, err := uc.GetItemDetails(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrItemNotFound)
}
