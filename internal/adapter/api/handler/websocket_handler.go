package handler

import (
	"net/http"

	gorilla "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"ecobid/internal/infrastructure/websocket"
	"ecobid/pkg/logger"
)

type WebSocketHandler struct {
	manager  *websocket.Manager
	upgrader gorilla.Upgrader
}

func NewWebSocketHandler(manager *websocket.Manager) *WebSocketHandler {
	return &WebSocketHandler{
		manager: manager,
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// WatchListing upgrades the connection and streams bid events for one
// listing until the client goes away.
func (h *WebSocketHandler) WatchListing(c echo.Context) error {
	listingID := c.Param("id")
	if listingID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "listing id is required")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warn("Websocket upgrade failed: %v", err)
		return err
	}

	client := websocket.NewClient(h.manager, conn, listingID)
	h.manager.Register <- client

	go client.WritePump()
	go client.ReadPump()

	return nil
}
