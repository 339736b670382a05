package usecase

import (
	"context"
	"time"

	"ecobid/internal/domain/entity"
	"ecobid/internal/domain/repository"
	"ecobid/internal/domain/service"
	"ecobid/pkg/errors"
	"ecobid/pkg/logger"
)

// AuctionUseCase drives the listing status machine: winner selection,
// closing without a sale, and the payment-window sweep that reopens
// listings whose winner never paid.
type AuctionUseCase struct {
	listingRepo repository.ListingRepository
	bidRepo     repository.BidRepository
	userRepo    repository.UserRepository
	notifier    service.Notifier

	paymentWindow time.Duration
	sweepInterval time.Duration
}

func NewAuctionUseCase(
	listingRepo repository.ListingRepository,
	bidRepo repository.BidRepository,
	userRepo repository.UserRepository,
	notifier service.Notifier,
	paymentWindow time.Duration,
	sweepInterval time.Duration,
) *AuctionUseCase {
	return &AuctionUseCase{
		listingRepo:   listingRepo,
		bidRepo:       bidRepo,
		userRepo:      userRepo,
		notifier:      notifier,
		paymentWindow: paymentWindow,
		sweepInterval: sweepInterval,
	}
}

func (uc *AuctionUseCase) SelectWinner(ctx context.Context, listingID, sellerID, bidderID string) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if listing.SellerID != sellerID {
		return nil, errors.Forbidden("Only the seller can select a winner", nil)
	}

	if listing.Status != entity.ListingStatusOpen {
		return nil, errors.InvalidState("Listing is not open", nil)
	}

	if _, err := uc.bidRepo.GetLive(ctx, listingID, bidderID); err != nil {
		return nil, err
	}

	// The repository re-checks listing and bid state inside a transaction,
	// so a race with a late withdrawal loses cleanly.
	updated, err := uc.listingRepo.SelectWinner(ctx, listingID, bidderID)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"listing_id": updated.ID,
		"title":      updated.Title,
		"amount":     updated.SelectedAmount,
	}
	if winner, err := uc.userRepo.GetByID(ctx, bidderID); err == nil {
		payload["email"] = winner.Email
	}

	if err := uc.notifier.Notify(ctx, bidderID, service.EventWinnerSelected, payload); err != nil {
		logger.Warn("Failed to notify winner %s for listing %s: %v", bidderID, listingID, err)
	}

	return updated, nil
}

func (uc *AuctionUseCase) CloseListing(ctx context.Context, listingID, sellerID string) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if listing.SellerID != sellerID {
		return nil, errors.Forbidden("Only the seller can close a listing", nil)
	}

	return uc.listingRepo.Close(ctx, listingID)
}

// StartPaymentWindowSweep runs the periodic job that rolls stale
// pending_payment listings back to open.
func (uc *AuctionUseCase) StartPaymentWindowSweep(ctx context.Context) {
	ticker := time.NewTicker(uc.sweepInterval)

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := uc.SweepStalePayments(ctx); err != nil {
					logger.Error("Payment window sweep error: %v", err)
				}
			case <-ctx.Done():
				ticker.Stop()
				return
			}
		}
	}()

	logger.Info("Payment window sweep started (window %s, every %s)", uc.paymentWindow, uc.sweepInterval)
}

func (uc *AuctionUseCase) SweepStalePayments(ctx context.Context) error {
	cutoff := time.Now().Add(-uc.paymentWindow)

	stale, err := uc.listingRepo.ListStalePendingPayment(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, listing := range stale {
		bidderID := listing.SelectedBidderID

		if err := uc.listingRepo.Reopen(ctx, listing.ID); err != nil {
			// A concurrent verification may have finalized the sale; skip.
			logger.Warn("Failed to reopen listing %s: %v", listing.ID, err)
			continue
		}

		logger.Info("Reopened listing %s after payment window expired", listing.ID)

		payload := map[string]interface{}{
			"listing_id": listing.ID,
			"title":      listing.Title,
		}
		if err := uc.notifier.Notify(ctx, listing.SellerID, service.EventListingReopened, payload); err != nil {
			logger.Warn("Failed to notify seller %s: %v", listing.SellerID, err)
		}
		if bidderID != "" {
			if err := uc.notifier.Notify(ctx, bidderID, service.EventListingReopened, payload); err != nil {
				logger.Warn("Failed to notify bidder %s: %v", bidderID, err)
			}
		}
	}

	return nil
}
