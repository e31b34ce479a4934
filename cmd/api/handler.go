package api

import (
	authUsecase "freshkeep-backend/internal/auth/usecase"
	deviceDelivery "freshkeep-backend/internal/device/delivery"
	deviceRepo "freshkeep-backend/internal/device/repository"
	itemDelivery "freshkeep-backend/internal/item/delivery"
	itemUsecasePkg "freshkeep-backend/internal/item/usecase"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase   authUsecase.AuthUsecase
	itemHandler   *itemDelivery.ItemHandler
	deviceHandler *deviceDelivery.DeviceHandler
}

func NewHandler(authUc authUsecase.AuthUsecase, itemUc itemUsecasePkg.ItemUsecase, deviceRepository deviceRepo.DeviceRepository) *Handler {
	return &Handler{
		authUsecase:   authUc,
		itemHandler:   itemDelivery.NewItemHandler(itemUc),
		deviceHandler: deviceDelivery.NewDeviceHandler(deviceRepository),
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Setup routes
	SetupRoutes(r, h.authUsecase, h.itemHandler, h.deviceHandler)

	return r.Run(addr)
}
