package service

import (
	"context"
	"time"
)

const (
	BidEventPlaced    = "bid_placed"
	BidEventWithdrawn = "bid_withdrawn"
)

// BidEvent is what the live feed pushes to clients watching a listing.
type BidEvent struct {
	Type       string    `json:"type"`
	ListingID  string    `json:"listing_id"`
	BidderID   string    `json:"bidder_id"`
	Amount     float64   `json:"amount,omitempty"`
	HighestBid float64   `json:"highest_bid"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BidEventPublisher fans bid events out to the broadcast pipeline. Like the
// Notifier, publish failures are logged and swallowed by callers.
type BidEventPublisher interface {
	Publish(ctx context.Context, event BidEvent) error
}

type noopBidEventPublisher struct{}

func NewNoopBidEventPublisher() BidEventPublisher {
	return &noopBidEventPublisher{}
}

func (p *noopBidEventPublisher) Publish(ctx context.Context, event BidEvent) error {
	return nil
}
