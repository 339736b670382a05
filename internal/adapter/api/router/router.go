package router

import (
	"ecobid/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	SetupListingRouter(e, authMiddleware)
	SetupBidRouter(e, authMiddleware)
	SetupPaymentRouter(e, authMiddleware)
	SetupDeliveryRouter(e, authMiddleware)
}
