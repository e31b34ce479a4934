package domain

import (
	"math"
	"strings"
	"time"
)

// Category classifies a food item into one of a fixed set of values.
type Category string

const (
	CategoryDairy      Category = "dairy"
	CategoryMeat       Category = "meat"
	CategoryVegetables Category = "vegetables"
	CategoryFruits     Category = "fruits"
	CategorySnacks     Category = "snacks"
	CategoryOther      Category = "other"
)

// categoryRule maps substrings found in external category tags to a Category.
// Rules are evaluated in order; the first match wins.
type categoryRule struct {
	category Category
	keywords []string
}

var categoryRules = []categoryRule{
	{CategoryDairy, []string{"dairy"}},
	{CategoryMeat, []string{"meat"}},
	{CategoryVegetables, []string{"vegetables"}},
	{CategoryFruits, []string{"fruits"}},
	{CategorySnacks, []string{"snack", "bar"}},
}

// ParseCategory returns the Category for s, or CategoryOther when s is not a
// known value.
func ParseCategory(s string) Category {
	switch c := Category(strings.ToLower(s)); c {
	case CategoryDairy, CategoryMeat, CategoryVegetables, CategoryFruits, CategorySnacks:
		return c
	}
	return CategoryOther
}

// CategoryFromTags maps external category tags (e.g. "en:dairy-products") and
// the product name to a Category. No matching rule means CategoryOther.
// A product name containing "bar" also counts as a snack.
func CategoryFromTags(tags []string, productName string) Category {
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			for _, tag := range tags {
				if strings.Contains(strings.ToLower(tag), kw) {
					return rule.category
				}
			}
		}
	}
	if strings.Contains(strings.ToLower(productName), "bar") {
		return CategorySnacks
	}
	return CategoryOther
}

// FoodItem is a document in the foodItems collection. The store assigns ID and
// CreatedAt; the notifier is the only writer of NotificationID after creation.
type FoodItem struct {
	ID             string    `firestore:"-" json:"id"`
	Name           string    `firestore:"name" json:"name"`
	ImageURL       string    `firestore:"imageUrl" json:"image_url,omitempty"`
	Barcode        string    `firestore:"barcode" json:"barcode"`
	Category       Category  `firestore:"category" json:"category"`
	ExpiryDate     time.Time `firestore:"expiryDate" json:"expiry_date"`
	DaysLeft       int       `firestore:"daysLeft" json:"days_left"`
	NotificationID string    `firestore:"notificationId,omitempty" json:"notification_id,omitempty"`
	CreatedAt      time.Time `firestore:"createdAt,serverTimestamp" json:"created_at"`
}

// HasReminder reports whether a reminder has been scheduled for the item.
func (i *FoodItem) HasReminder() bool {
	return i.NotificationID != ""
}

// Midnight normalizes t to 00:00 of its calendar day, keeping the location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysLeft returns the signed number of calendar days between today and the
// expiry date. Both dates are normalized to midnight before the difference is
// taken, so neither the time of day nor the time zone the dates carry can
// influence the count. Zero means the item expires today, negative means it is
// already expired.
func DaysLeft(expiry, today time.Time) int {
	e := time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 0, 0, 0, 0, time.UTC)
	d := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Ceil(e.Sub(d).Hours() / 24))
}

// FormatDate renders t as a short month-day-year string for display.
// A zero time renders as "Unknown" instead of a bogus date.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.Format("Jan 2, 2006")
}
