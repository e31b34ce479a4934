package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"freshkeep-backend/internal/item/domain"
	"freshkeep-backend/internal/item/repository"
	"freshkeep-backend/pkg/openfoodfacts"
)

var (
	ErrNameRequired      = errors.New("food name is required")
	ErrInvalidExpiryDate = errors.New("invalid expiry date")
)

// ProductLookup is the slice of the Open Food Facts client the usecase needs.
type ProductLookup interface {
	Lookup(ctx context.Context, barcode string) (openfoodfacts.ProductInfo, error)
}

// ReminderScheduler is the notifier's reminder transition.
type ReminderScheduler interface {
	EnsureScheduled(ctx context.Context, item *domain.FoodItem) (bool, error)
}

// CreateItemRequest carries the user-confirmed fields from the scan flow.
type CreateItemRequest struct {
	Name       string `json:"name"`
	ImageURL   string `json:"image_url"`
	Barcode    string `json:"barcode"`
	Category   string `json:"category"`
	ExpiryDate string `json:"expiry_date"` // YYYY-MM-DD
}

// CreateItemResult reports the created item and whether a reminder was
// scheduled for it. Scheduling is best-effort: a false value is not a failure.
type CreateItemResult struct {
	Item                  *domain.FoodItem `json:"item"`
	NotificationScheduled bool             `json:"notification_scheduled"`
}

// ItemView is an item prepared for display: days_left is recomputed at read
// time and valid_date flags a missing or unparsable expiry date. The stored
// daysLeft snapshot is never trusted for presentation.
type ItemView struct {
	Item      *domain.FoodItem `json:"item"`
	DaysLeft  int              `json:"days_left"`
	ValidDate bool             `json:"valid_date"`
}

// ItemDetails is the detail-screen shape: the stored item plus live product
// data fetched from the external database.
type ItemDetails struct {
	ItemView
	Product openfoodfacts.ProductInfo `json:"product"`
}

type ItemUsecase interface {
	LookupProduct(ctx context.Context, barcode string) openfoodfacts.ProductInfo
	CreateItem(ctx context.Context, req CreateItemRequest) (*CreateItemResult, error)
	ListItems(ctx context.Context) ([]ItemView, error)
	GetItemDetails(ctx context.Context, id string) (*ItemDetails, error)
}

type itemUsecase struct {
	repo     repository.ItemRepository
	lookup   ProductLookup
	notifier ReminderScheduler
}

func NewItemUsecase(repo repository.ItemRepository, lookup ProductLookup, notifier ReminderScheduler) ItemUsecase {
	return &itemUsecase{repo: repo, lookup: lookup, notifier: notifier}
}

// LookupProduct queries the external product database. Network failure,
// malformed payload and "not found" all collapse into the default product
// shell so the scan flow can proceed to manual entry without distinguishing
// them.
func (u *itemUsecase) LookupProduct(ctx context.Context, barcode string) openfoodfacts.ProductInfo {
	info, err := u.lookup.Lookup(ctx, barcode)
	if err != nil {
		log.Printf("[Item] Product lookup for %s failed: %v", barcode, err)
		return openfoodfacts.DefaultProduct()
	}
	return info
}

func (u *itemUsecase) CreateItem(ctx context.Context, req CreateItemRequest) (*CreateItemResult, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}

	expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
	if err != nil {
		return nil, ErrInvalidExpiryDate
	}

	item := &domain.FoodItem{
		Name:       strings.TrimSpace(req.Name),
		ImageURL:   req.ImageURL,
		Barcode:    req.Barcode,
		Category:   domain.ParseCategory(req.Category),
		ExpiryDate: expiry,
		// Snapshot at write time; readers recompute for display.
		DaysLeft: domain.DaysLeft(expiry, time.Now()),
	}

	if _, err := u.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	// Reminder scheduling is best-effort; a failure here must not fail the
	// creation the user just confirmed.
	scheduled, err := u.notifier.EnsureScheduled(ctx, item)
	if err != nil {
		log.Printf("[Item] Error scheduling reminder for new item %s: %v", item.ID, err)
	}

	return &CreateItemResult{Item: item, NotificationScheduled: scheduled}, nil
}

func (u *itemUsecase) ListItems(ctx context.Context) ([]ItemView, error) {
	items, err := u.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, newItemView(item))
	}
	return views, nil
}

func (u *itemUsecase) GetItemDetails(ctx context.Context, id string) (*ItemDetails, error) {
	item, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product := u.LookupProduct(ctx, item.Barcode)
	if product.Name == "" {
		product.Name = item.Name
	}
	if product.ImageURL == "" {
		product.ImageURL = item.ImageURL
	}

	return &ItemDetails{
		ItemView: newItemView(item),
		Product:  product,
	}, nil
}

func newItemView(item *domain.FoodItem) ItemView {
	view := ItemView{Item: item}
	if item.ExpiryDate.IsZero() {
		return view
	}
	view.ValidDate = true
	view.DaysLeft = domain.DaysLeft(item.ExpiryDate, time.Now())
	return view
}
