package router

import (
	"ecobid/internal/adapter/api/handler"
	"ecobid/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupBidRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	bidHandler := handler.GetBidHandler()

	// Anyone can inspect the live book for a listing
	bids := e.Group("/v1/listings/:id/bids")
	bids.GET("", bidHandler.ListBids)
	bids.GET("/highest", bidHandler.GetHighestBid)

	authed := e.Group("/v1/listings/:id/bids")
	authed.Use(authMiddleware.Authenticate)
	authed.POST("", bidHandler.PlaceBid)
	authed.DELETE("", bidHandler.WithdrawBid)

	myBids := e.Group("/v1/my-bids")
	myBids.Use(authMiddleware.Authenticate)
	myBids.GET("", bidHandler.ListMyBids)
}
