package broadcast

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"ecobid/internal/domain/service"
)

const channelPrefix = "bids."

// RedisPublisher pushes bid events onto a per-listing pub/sub channel.
// The websocket subscriber on the other side fans them out to clients.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{
		client: client,
	}
}

func (p *RedisPublisher) Publish(ctx context.Context, event service.BidEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal bid event: %w", err)
	}

	return p.client.Publish(ctx, channelPrefix+event.ListingID, payload).Err()
}
