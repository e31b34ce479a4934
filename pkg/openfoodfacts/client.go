package openfoodfacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"freshkeep-backend/internal/item/domain"
)

const DefaultBaseURL = "https://world.openfoodfacts.org"

// NotAvailable is the sentinel used for nutrition fields missing from the
// external payload, so the detail view always has a stable shape to render.
const NotAvailable = "N/A"

// ErrProductNotFound means the database has no record for the barcode.
var ErrProductNotFound = errors.New("product not found")

// Nutrition holds per-product nutrition facts as display strings.
type Nutrition struct {
	Calories string `json:"calories"`
	Fat      string `json:"fat"`
	Carbs    string `json:"carbs"`
	Protein  string `json:"protein"`
	Fiber    string `json:"fiber"`
}

// ProductInfo is the normalized shape of an external product record.
type ProductInfo struct {
	Name      string          `json:"name"`
	ImageURL  string          `json:"image_url"`
	Category  domain.Category `json:"category"`
	Nutrition Nutrition       `json:"nutrition"`
}

// DefaultProduct returns the empty product shell handed to callers when a
// lookup fails or finds nothing, so the flow can proceed to manual entry.
func DefaultProduct() ProductInfo {
	return ProductInfo{
		Category: domain.CategoryOther,
		Nutrition: Nutrition{
			Calories: NotAvailable,
			Fat:      NotAvailable,
			Carbs:    NotAvailable,
			Protein:  NotAvailable,
			Fiber:    NotAvailable,
		},
	}
}

// Client queries the Open Food Facts product database by barcode.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// offResponse mirrors the subset of the v3 product payload we read.
type offResponse struct {
	Product *offProduct `json:"product"`
}

type offProduct struct {
	Brands         string        `json:"brands"`
	ProductName    string        `json:"product_name"`
	ImageURL       string        `json:"image_url"`
	CategoriesTags []string      `json:"categories_tags"`
	Nutriments     offNutriments `json:"nutriments"`
}

type offNutriments struct {
	EnergyValue        *float64 `json:"energy_value"`
	FatValue           *float64 `json:"fat_value"`
	CarbohydratesValue *float64 `json:"carbohydrates_value"`
	ProteinsValue      *float64 `json:"proteins_value"`
	FiberValue         *float64 `json:"fiber_value"`
}

// Lookup fetches and normalizes the product record for a barcode.
// It returns ErrProductNotFound when the database has no record; callers are
// expected to collapse that and transport errors into DefaultProduct.
func (c *Client) Lookup(ctx context.Context, barcode string) (ProductInfo, error) {
	url := fmt.Sprintf("%s/api/v3/product/%s.json", c.baseURL, barcode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ProductInfo{}, err
	}
	req.Header.Set("Accept-Language", "en")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ProductInfo{}, fmt.Errorf("product lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ProductInfo{}, ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return ProductInfo{}, fmt.Errorf("product lookup failed: %s", resp.Status)
	}

	var payload offResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ProductInfo{}, fmt.Errorf("malformed product payload: %w", err)
	}
	if payload.Product == nil {
		return ProductInfo{}, ErrProductNotFound
	}

	p := payload.Product
	name := deriveName(p.Brands, p.ProductName)

	return ProductInfo{
		Name:     name,
		ImageURL: p.ImageURL,
		Category: domain.CategoryFromTags(p.CategoriesTags, name),
		Nutrition: Nutrition{
			Calories: nutrimentValue(p.Nutriments.EnergyValue),
			Fat:      nutrimentValue(p.Nutriments.FatValue),
			Carbs:    nutrimentValue(p.Nutriments.CarbohydratesValue),
			Protein:  nutrimentValue(p.Nutriments.ProteinsValue),
			Fiber:    nutrimentValue(p.Nutriments.FiberValue),
		},
	}, nil
}

// deriveName builds the short display name: the first word of the first
// comma-separated brand token, followed by the product name. The catalog
// presents compound brand/product names and this keeps them scannable.
// Absent brand data falls back to the raw product name.
func deriveName(brands, productName string) string {
	brandToken := strings.TrimSpace(strings.Split(brands, ",")[0])
	brandWord := strings.SplitN(brandToken, " ", 2)[0]
	return strings.TrimSpace(brandWord + " " + productName)
}

func nutrimentValue(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
