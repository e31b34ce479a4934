package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysLeft(t *testing.T) {
	today := date(2025, time.March, 10)

	tests := []struct {
		name   string
		expiry time.Time
		want   int
	}{
		{"same day", today, 0},
		{"tomorrow", today.AddDate(0, 0, 1), 1},
		{"yesterday", today.AddDate(0, 0, -1), -1},
		{"next week", today.AddDate(0, 0, 7), 7},
		{"long expired", today.AddDate(0, 0, -30), -30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysLeft(tt.expiry, today))
		})
	}
}

func TestDaysLeftIgnoresTimeOfDay(t *testing.T) {
	// 23:59 today vs 00:01 tomorrow is still one calendar day apart.
	today := time.Date(2025, time.March, 10, 23, 59, 0, 0, time.UTC)
	expiry := time.Date(2025, time.March, 11, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysLeft(expiry, today))

	// An expiry late in the same day is still zero days away.
	assert.Equal(t, 0, DaysLeft(today, time.Date(2025, time.March, 10, 0, 1, 0, 0, time.UTC)))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Mar 5, 2025", FormatDate(date(2025, time.March, 5)))
	assert.Equal(t, "Unknown", FormatDate(time.Time{}))
}

func TestParseCategory(t *testing.T) {
	assert.Equal(t, CategoryDairy, ParseCategory("dairy"))
	assert.Equal(t, CategoryMeat, ParseCategory("Meat"))
	assert.Equal(t, CategoryOther, ParseCategory("frozen"))
	assert.Equal(t, CategoryOther, ParseCategory(""))
}

func TestCategoryFromTags(t *testing.T) {
	tests := []struct {
		name        string
		tags        []string
		productName string
		want        Category
	}{
		{"dairy tag", []string{"en:dairy-products"}, "Milk", CategoryDairy},
		{"meat tag", []string{"en:fresh-meat"}, "Steak", CategoryMeat},
		{"vegetables tag", []string{"en:canned-vegetables"}, "Peas", CategoryVegetables},
		{"fruits tag", []string{"en:fruits"}, "Apple", CategoryFruits},
		{"snack bar tag", []string{"en:snack-bars"}, "Granola", CategorySnacks},
		{"bar in name only", []string{"en:cereals"}, "Chocolate Bar", CategorySnacks},
		{"dairy wins over snack", []string{"en:snack-bars", "en:dairy-products"}, "Yogurt bar", CategoryDairy},
		{"no match", []string{"en:beverages"}, "Cola", CategoryOther},
		{"no tags", nil, "Cola", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CategoryFromTags(tt.tags, tt.productName))
		})
	}
}
