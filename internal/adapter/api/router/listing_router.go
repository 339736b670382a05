package router

import (
	"ecobid/internal/adapter/api/handler"
	"ecobid/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupListingRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	listingHandler := handler.GetListingHandler()
	auctionHandler := handler.GetAuctionHandler()

	// Public browsing
	listings := e.Group("/v1/listings")
	listings.GET("", listingHandler.ListListings)
	listings.GET("/:id", listingHandler.GetListing)

	// Seller operations
	authed := e.Group("/v1/listings")
	authed.Use(authMiddleware.Authenticate)
	authed.POST("", listingHandler.CreateListing)
	authed.PUT("/:id", listingHandler.UpdateListing)
	authed.DELETE("/:id", listingHandler.DeleteListing)
	authed.POST("/:id/select-winner", auctionHandler.SelectWinner)
	authed.POST("/:id/close", auctionHandler.CloseListing)

	myListings := e.Group("/v1/my-listings")
	myListings.Use(authMiddleware.Authenticate)
	myListings.GET("", listingHandler.ListMyListings)
}
