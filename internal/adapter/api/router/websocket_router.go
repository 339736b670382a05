package router

import (
	"ecobid/internal/adapter/api/handler"

	"github.com/labstack/echo/v4"
)

// SetupWebSocketRouter exposes the per-listing bid feed. The feed is
// read-only public data, so no auth middleware here.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/v1/ws/listings/:id", wsHandler.WatchListing)
}
