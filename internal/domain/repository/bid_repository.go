package repository

import (
	"context"

	"ecobid/internal/domain/entity"
)

type BidRepository interface {
	// Place stores a bid, overwriting a withdrawn prior bid from the same
	// bidder. The storage layer enforces the one-live-bid-per-bidder rule
	// and re-checks that the listing is still open; racing writers get a
	// Conflict or InvalidState error.
	Place(ctx context.Context, bid *entity.Bid) error

	// Withdraw marks the bidder's live bid as withdrawn and returns it.
	Withdraw(ctx context.Context, listingID, bidderID string) (*entity.Bid, error)

	GetLive(ctx context.Context, listingID, bidderID string) (*entity.Bid, error)

	// ListLiveByListing returns live bids sorted by amount descending,
	// ties broken by earliest placedAt.
	ListLiveByListing(ctx context.Context, listingID string) ([]*entity.Bid, error)

	// ListByBidder returns the bidder's bid history, newest first,
	// withdrawn bids included.
	ListByBidder(ctx context.Context, bidderID string, limit, offset int) ([]*entity.Bid, int64, error)
}
