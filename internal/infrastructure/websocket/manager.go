package websocket

import (
	"context"
	"sync"

	"ecobid/pkg/logger"
)

// Manager tracks websocket clients watching listings and fans bid events
// out to everyone subscribed to the affected listing.
type Manager struct {
	clients    map[string]map[*Client]bool // listingID -> clients
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start runs the manager's main loop in a goroutine
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				if m.clients[client.ListingID] == nil {
					m.clients[client.ListingID] = make(map[*Client]bool)
				}
				m.clients[client.ListingID][client] = true
				m.mutex.Unlock()
				logger.Debug("Client subscribed to listing %s", client.ListingID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				if subscribers, ok := m.clients[client.ListingID]; ok {
					if _, ok := subscribers[client]; ok {
						delete(subscribers, client)
						close(client.Send)
						if len(subscribers) == 0 {
							delete(m.clients, client.ListingID)
						}
					}
				}
				m.mutex.Unlock()
				logger.Debug("Client unsubscribed from listing %s", client.ListingID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// BroadcastToListing pushes a message to every client watching the listing.
// Slow clients are dropped rather than blocking the loop.
func (m *Manager) BroadcastToListing(listingID string, message []byte) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for client := range m.clients[listingID] {
		select {
		case client.Send <- message:
		default:
			logger.Warn("Dropping slow websocket client on listing %s", listingID)
		}
	}
}
