package broadcast

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/redis/go-redis/v9"

	"ecobid/internal/domain/service"
	"ecobid/internal/infrastructure/websocket"
	"ecobid/pkg/logger"
)

// RedisSubscriber bridges the bid-event pub/sub channels into the websocket
// manager so every API instance serves the same live feed.
type RedisSubscriber struct {
	client  *redis.Client
	manager *websocket.Manager
}

func NewRedisSubscriber(client *redis.Client, manager *websocket.Manager) *RedisSubscriber {
	return &RedisSubscriber{
		client:  client,
		manager: manager,
	}
}

func (s *RedisSubscriber) Start(ctx context.Context) {
	pubsub := s.client.PSubscribe(ctx, channelPrefix+"*")

	go func() {
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}

				listingID := strings.TrimPrefix(msg.Channel, channelPrefix)

				// Validate before forwarding so clients never see junk.
				var event service.BidEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					logger.Warn("Discarding malformed bid event on %s: %v", msg.Channel, err)
					continue
				}

				s.manager.BroadcastToListing(listingID, []byte(msg.Payload))

			case <-ctx.Done():
				return
			}
		}
	}()

	logger.Info("Bid event subscriber started")
}
