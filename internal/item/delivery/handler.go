package delivery

import (
	"errors"
	"net/http"

	"freshkeep-backend/internal/item/repository"
	"freshkeep-backend/internal/item/usecase"

	"github.com/gin-gonic/gin"
)

// ItemHandler handles food item HTTP requests
type ItemHandler struct {
	itemUsecase usecase.ItemUsecase
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(itemUsecase usecase.ItemUsecase) *ItemHandler {
	return &ItemHandler{itemUsecase: itemUsecase}
}

// LookupProduct looks a barcode up in the external product database.
// Lookup never fails from the client's point of view: unknown barcodes and
// upstream outages both return the empty product shell for manual entry.
// GET /api/products/:barcode
func (h *ItemHandler) LookupProduct(c *gin.Context) {
	barcode := c.Param("barcode")
	if barcode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "barcode is required"})
		return
	}

	info := h.itemUsecase.LookupProduct(c.Request.Context(), barcode)
	c.JSON(http.StatusOK, info)
}

// CreateItem saves a confirmed item and schedules its expiry reminder
// POST /api/items
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req usecase.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.itemUsecase.CreateItem(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, usecase.ErrNameRequired) || errors.Is(err, usecase.ErrInvalidExpiryDate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ListItems returns all items with days-left recomputed for display
// GET /api/items
func (h *ItemHandler) ListItems(c *gin.Context) {
	views, err := h.itemUsecase.ListItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": views,
		"total": len(views),
	})
}

// GetItemDetails returns a stored item enriched with live product data
// GET /api/items/:id
func (h *ItemHandler) GetItemDetails(c *gin.Context) {
	details, err := h.itemUsecase.GetItemDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, details)
}
