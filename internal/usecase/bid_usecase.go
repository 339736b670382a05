package usecase

import (
	"context"
	"fmt"
	"time"

	"ecobid/internal/domain/entity"
	"ecobid/internal/domain/repository"
	"ecobid/internal/domain/service"
	"ecobid/pkg/errors"
	"ecobid/pkg/logger"
	"ecobid/pkg/utils"
)

type BidUseCase struct {
	bidRepo     repository.BidRepository
	listingRepo repository.ListingRepository
	publisher   service.BidEventPublisher
}

func NewBidUseCase(
	bidRepo repository.BidRepository,
	listingRepo repository.ListingRepository,
	publisher service.BidEventPublisher,
) *BidUseCase {
	return &BidUseCase{
		bidRepo:     bidRepo,
		listingRepo: listingRepo,
		publisher:   publisher,
	}
}

func (uc *BidUseCase) PlaceBid(ctx context.Context, listingID, bidderID string, amount float64) (*entity.Bid, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if listing.Status != entity.ListingStatusOpen {
		return nil, errors.InvalidState("Listing is not open for bidding", nil)
	}

	if listing.SellerID == bidderID {
		return nil, errors.Forbidden("You cannot bid on your own listing", nil)
	}

	if amount <= 0 {
		return nil, errors.BadRequest("Bid amount must be positive", nil)
	}

	minimum := listing.MinimumBid()
	if amount < minimum {
		return nil, errors.BadRequest(fmt.Sprintf("Bid must be at least %.2f", minimum), nil)
	}

	bid := &entity.Bid{
		ListingID: listingID,
		BidderID:  bidderID,
		Amount:    amount,
	}

	// The repository re-checks listing status and the one-live-bid rule
	// atomically; racing bidders surface here as Conflict/InvalidState.
	if err := uc.bidRepo.Place(ctx, bid); err != nil {
		return nil, err
	}

	uc.publishEvent(ctx, service.BidEventPlaced, bid)

	return bid, nil
}

func (uc *BidUseCase) WithdrawBid(ctx context.Context, listingID, bidderID string) (*entity.Bid, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if listing.Status != entity.ListingStatusOpen {
		return nil, errors.InvalidState("Bids can only be withdrawn while the listing is open", nil)
	}

	bid, err := uc.bidRepo.Withdraw(ctx, listingID, bidderID)
	if err != nil {
		return nil, err
	}

	uc.publishEvent(ctx, service.BidEventWithdrawn, bid)

	return bid, nil
}

func (uc *BidUseCase) GetBidsForListing(ctx context.Context, listingID string) ([]*entity.Bid, error) {
	if _, err := uc.listingRepo.GetByID(ctx, listingID); err != nil {
		return nil, err
	}

	return uc.bidRepo.ListLiveByListing(ctx, listingID)
}

// GetHighestBid returns nil without error when the listing has no live bids.
func (uc *BidUseCase) GetHighestBid(ctx context.Context, listingID string) (*entity.Bid, error) {
	bids, err := uc.GetBidsForListing(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if len(bids) == 0 {
		return nil, nil
	}

	return bids[0], nil
}

func (uc *BidUseCase) GetBidHistory(ctx context.Context, bidderID string, page, limit int) ([]*entity.Bid, int64, error) {
	pagination := utils.NewPaginationParams(page, limit)
	return uc.bidRepo.ListByBidder(ctx, bidderID, pagination.PageSize, pagination.Offset)
}

func (uc *BidUseCase) publishEvent(ctx context.Context, eventType string, bid *entity.Bid) {
	event := service.BidEvent{
		Type:       eventType,
		ListingID:  bid.ListingID,
		BidderID:   bid.BidderID,
		Amount:     bid.Amount,
		OccurredAt: time.Now(),
	}

	if highest, err := uc.bidRepo.ListLiveByListing(ctx, bid.ListingID); err == nil && len(highest) > 0 {
		event.HighestBid = highest[0].Amount
	}

	if err := uc.publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish bid event for listing %s: %v", bid.ListingID, err)
	}
}
