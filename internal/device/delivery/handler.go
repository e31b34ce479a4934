package delivery

import (
	"net/http"

	"freshkeep-backend/internal/device/repository"

	"github.com/gin-gonic/gin"
)

// DeviceHandler handles device token registration requests
type DeviceHandler struct {
	deviceRepo repository.DeviceRepository
}

// NewDeviceHandler creates a new DeviceHandler
func NewDeviceHandler(deviceRepo repository.DeviceRepository) *DeviceHandler {
	return &DeviceHandler{deviceRepo: deviceRepo}
}

// RegisterTokenRequest represents the request body for registering a device token
type RegisterTokenRequest struct {
	Token      string `json:"token" binding:"required"`
	DeviceInfo string `json:"device_info"`
}

// RegisterToken registers or refreshes a push token for this household
// POST /api/devices
func (h *DeviceHandler) RegisterToken(c *gin.Context) {
	var req RegisterTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.deviceRepo.SaveToken(req.Token, req.DeviceInfo); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Device token registered successfully"})
}

// UnregisterToken removes a push token, e.g. on sign-out
// DELETE /api/devices/:token
func (h *DeviceHandler) UnregisterToken(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	if err := h.deviceRepo.DeleteToken(token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Device token removed successfully"})
}
