package api

import (
	authDelivery "freshkeep-backend/internal/auth/delivery"
	authUsecase "freshkeep-backend/internal/auth/usecase"
	deviceDelivery "freshkeep-backend/internal/device/delivery"
	itemDelivery "freshkeep-backend/internal/item/delivery"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUsecase authUsecase.AuthUsecase, itemHandler *itemDelivery.ItemHandler, deviceHandler *deviceDelivery.DeviceHandler) {
	authHandler := authDelivery.NewAuthHandler(authUsecase)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
		}

		// Product lookup routes (protected)
		products := api.Group("/products")
		products.Use(authDelivery.AuthMiddleware(authUsecase))
		{
			products.GET("/:barcode", itemHandler.LookupProduct)
		}

		// Food item routes (protected)
		items := api.Group("/items")
		items.Use(authDelivery.AuthMiddleware(authUsecase))
		{
			items.GET("", itemHandler.ListItems)
			items.POST("", itemHandler.CreateItem)
			items.GET("/:id", itemHandler.GetItemDetails)
		}

		// Device token routes (protected)
		devices := api.Group("/devices")
		devices.Use(authDelivery.AuthMiddleware(authUsecase))
		{
			devices.POST("", deviceHandler.RegisterToken)
			devices.DELETE("/:token", deviceHandler.UnregisterToken)
		}
	}
}
