package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ecobid/internal/domain/entity"
	"ecobid/internal/domain/repository"
	"ecobid/pkg/errors"
)

type firestoreBidRepository struct {
	client *firestore.Client
}

func NewFirestoreBidRepository(client *firestore.Client) repository.BidRepository {
	return &firestoreBidRepository{
		client: client,
	}
}

// bidDocID keys bid documents by (listing, bidder), which is what makes the
// one-live-bid-per-bidder rule a storage-level guarantee.
func bidDocID(listingID, bidderID string) string {
	return listingID + "_" + bidderID
}

func (r *firestoreBidRepository) Place(ctx context.Context, bid *entity.Bid) error {
	if bid.ID == "" {
		bid.ID = uuid.New().String()
	}
	bid.PlacedAt = time.Now()
	bid.Withdrawn = false
	bid.WithdrawnAt = nil
	bid.Winning = false

	listingRef := r.client.Collection("listings").Doc(bid.ListingID)
	bidRef := r.client.Collection("bids").Doc(bidDocID(bid.ListingID, bid.BidderID))

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		listingDoc, err := tx.Get(listingRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Listing", err)
			}
			return err
		}

		var listing entity.Listing
		if err := listingDoc.DataTo(&listing); err != nil {
			return err
		}

		if listing.Status != entity.ListingStatusOpen {
			return errors.InvalidState("Listing is not open for bidding", nil)
		}

		existingDoc, err := tx.Get(bidRef)
		if err == nil {
			var existing entity.Bid
			if err := existingDoc.DataTo(&existing); err != nil {
				return err
			}
			if existing.Live() {
				return errors.Conflict("You already have an active bid on this listing", nil)
			}
		} else if status.Code(err) != codes.NotFound {
			return err
		}

		return tx.Set(bidRef, bid)
	})

	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			return err
		}
		return errors.Internal("Failed to place bid", err)
	}

	return nil
}

func (r *firestoreBidRepository) Withdraw(ctx context.Context, listingID, bidderID string) (*entity.Bid, error) {
	listingRef := r.client.Collection("listings").Doc(listingID)
	bidRef := r.client.Collection("bids").Doc(bidDocID(listingID, bidderID))

	var withdrawn entity.Bid

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		listingDoc, err := tx.Get(listingRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Listing", err)
			}
			return err
		}

		var listing entity.Listing
		if err := listingDoc.DataTo(&listing); err != nil {
			return err
		}

		if listing.Status != entity.ListingStatusOpen {
			return errors.InvalidState("Listing is not open", nil)
		}

		bidDoc, err := tx.Get(bidRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Active bid", err)
			}
			return err
		}

		var bid entity.Bid
		if err := bidDoc.DataTo(&bid); err != nil {
			return err
		}

		if !bid.Live() {
			return errors.NotFound("Active bid", nil)
		}

		now := time.Now()
		bid.Withdrawn = true
		bid.WithdrawnAt = &now

		if err := tx.Set(bidRef, &bid); err != nil {
			return err
		}

		withdrawn = bid
		return nil
	})

	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			return nil, err
		}
		return nil, errors.Internal("Failed to withdraw bid", err)
	}

	return &withdrawn, nil
}

func (r *firestoreBidRepository) GetLive(ctx context.Context, listingID, bidderID string) (*entity.Bid, error) {
	doc, err := r.client.Collection("bids").Doc(bidDocID(listingID, bidderID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Bid", err)
		}
		return nil, errors.Internal("Failed to get bid", err)
	}

	var bid entity.Bid
	if err := doc.DataTo(&bid); err != nil {
		return nil, errors.Internal("Failed to parse bid data", err)
	}

	if !bid.Live() {
		return nil, errors.NotFound("Bid", nil)
	}

	return &bid, nil
}

func (r *firestoreBidRepository) ListLiveByListing(ctx context.Context, listingID string) ([]*entity.Bid, error) {
	query := r.client.Collection("bids").
		Where("listingId", "==", listingID).
		Where("withdrawn", "==", false)

	iter := query.Documents(ctx)
	var bids []*entity.Bid

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate bids", err)
		}

		var bid entity.Bid
		if err := doc.DataTo(&bid); err != nil {
			return nil, errors.Internal("Failed to parse bid data", err)
		}
		bids = append(bids, &bid)
	}

	// Highest first; equal amounts go to the earliest bidder.
	sort.SliceStable(bids, func(i, j int) bool {
		if bids[i].Amount != bids[j].Amount {
			return bids[i].Amount > bids[j].Amount
		}
		return bids[i].PlacedAt.Before(bids[j].PlacedAt)
	})

	return bids, nil
}

func (r *firestoreBidRepository) ListByBidder(ctx context.Context, bidderID string, limit, offset int) ([]*entity.Bid, int64, error) {
	query := r.client.Collection("bids").
		Where("bidderId", "==", bidderID).
		OrderBy("placedAt", firestore.Desc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count bids", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var bids []*entity.Bid

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate bids", err)
		}

		var bid entity.Bid
		if err := doc.DataTo(&bid); err != nil {
			return nil, 0, errors.Internal("Failed to parse bid data", err)
		}
		bids = append(bids, &bid)
	}

	return bids, total, nil
}
