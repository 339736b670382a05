package repository

import (
	"context"
	"time"

	"ecobid/internal/domain/entity"
)

type ListingFilter struct {
	Category       string
	PriceType      string
	DeliveryOption string
}

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	Update(ctx context.Context, listing *entity.Listing) error
	SoftDelete(ctx context.Context, id string) error
	ListOpen(ctx context.Context, filter ListingFilter, limit, offset int) ([]*entity.Listing, int64, error)
	ListBySeller(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Listing, int64, error)

	// SelectWinner atomically re-checks that the listing is still open and
	// the bid still live, marks the bid as winning and moves the listing to
	// pending_payment. Returns the updated listing.
	SelectWinner(ctx context.Context, listingID, bidderID string) (*entity.Listing, error)

	// Close atomically moves an open listing to closed.
	Close(ctx context.Context, listingID string) (*entity.Listing, error)

	// Reopen rolls a stale pending_payment listing back to open and clears
	// the winner selection. Used by the payment-window sweep.
	Reopen(ctx context.Context, listingID string) error

	ListStalePendingPayment(ctx context.Context, olderThan time.Time) ([]*entity.Listing, error)
}
