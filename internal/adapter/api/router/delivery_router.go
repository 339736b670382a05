package router

import (
	"ecobid/internal/adapter/api/handler"
	"ecobid/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupDeliveryRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	deliveryHandler := handler.GetDeliveryHandler()

	deliveries := e.Group("/v1/deliveries")
	deliveries.Use(authMiddleware.Authenticate)
	deliveries.GET("/:id", deliveryHandler.GetDelivery)
	deliveries.POST("/:id/advance", deliveryHandler.AdvanceStatus)

	myDeliveries := e.Group("/v1/my-deliveries")
	myDeliveries.Use(authMiddleware.Authenticate)
	myDeliveries.GET("", deliveryHandler.ListMyDeliveries)

	assigned := e.Group("/v1/assigned-deliveries")
	assigned.Use(authMiddleware.Authenticate)
	assigned.GET("", deliveryHandler.ListAssignedDeliveries)
}
