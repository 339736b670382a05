package repository

import (
	"context"
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

type firestoreListingRepository struct {
	client *firestore.Client
}

func NewFirestoreListingRepository(client *firestore.Client) repository.ListingRepository {
	return &firestoreListingRepository{
		client: client,
	}
}

func (r *firestoreListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}

	now := time.Now()
	listing.CreatedAt = now
	listing.UpdatedAt = now

	_, err := r.client.Collection("listings").Doc(listing.ID).Set(ctx, listing)
	if err != nil {
		return errors.Internal("Failed to create listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	doc, err := r.client.Collection("listings").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Listing", err)
		}
		return nil, errors.Internal("Failed to get listing", err)
	}

	var listing entity.Listing
	if err := doc.DataTo(&listing); err != nil {
		return nil, errors.Internal("Failed to parse listing data", err)
	}

	if listing.DeletedAt != nil {
		return nil, errors.NotFound("Listing", nil)
	}

	return &listing, nil
}

func (r *firestoreListingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	listing.UpdatedAt = time.Now()

	_, err := r.client.Collection("listings").Doc(listing.ID).Set(ctx, listing)
	if err != nil {
		return errors.Internal("Failed to update listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) SoftDelete(ctx context.Context, id string) error {
	docRef := r.client.Collection("listings").Doc(id)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Listing", err)
			}
			return err
		}

		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			return err
		}

		if !listing.CanTransitionTo(entity.ListingStatusClosed) {
			return errors.InvalidState("Only open listings can be deleted", nil)
		}

		now := time.Now()
		listing.Status = entity.ListingStatusClosed
		listing.DeletedAt = &now
		listing.UpdatedAt = now

		return tx.Set(docRef, &listing)
	})

	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			return err
		}
		return errors.Internal("Failed to delete listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) ListOpen(ctx context.Context, filter repository.ListingFilter, limit, offset int) ([]*entity.Listing, int64, error) {
	query := r.client.Collection("listings").
		Where("status", "==", entity.ListingStatusOpen)

	if filter.Category != "" {
		query = query.Where("category", "==", filter.Category)
	}
	if filter.PriceType != "" {
		query = query.Where("priceType", "==", filter.PriceType)
	}
	if filter.DeliveryOption != "" {
		query = query.Where("deliveryOptions", "array-contains", filter.DeliveryOption)
	}

	query = query.OrderBy("createdAt", firestore.Desc)

	return r.runListingQuery(ctx, query, limit, offset)
}

func (r *firestoreListingRepository) ListBySeller(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Listing, int64, error) {
	query := r.client.Collection("listings").
		Where("sellerId", "==", sellerID).
		OrderBy("createdAt", firestore.Desc)

	return r.runListingQuery(ctx, query, limit, offset)
}

func (r *firestoreListingRepository) runListingQuery(ctx context.Context, query firestore.Query, limit, offset int) ([]*entity.Listing, int64, error) {
	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count listings", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var listings []*entity.Listing

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate listings", err)
		}

		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			return nil, 0, errors.Internal("Failed to parse listing data", err)
		}
		listings = append(listings, &listing)
	}

	return listings, total, nil
}

func (r *firestoreListingRepository) SelectWinner(ctx context.Context, listingID, bidderID string) (*entity.Listing, error) {
	listingRef := r.client.Collection("listings").Doc(listingID)
	bidRef := r.client.Collection("bids").Doc(bidDocID(listingID, bidderID))

	var updated entity.Listing

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

		if !listing.CanTransitionTo(entity.ListingStatusPendingPayment) {
			return errors.InvalidState("Listing is not open", nil)
		}

		bidDoc, err := tx.Get(bidRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Bid", err)
			}
			return err
		}

		var bid entity.Bid
		if err := bidDoc.DataTo(&bid); err != nil {
			return err
		}

		if !bid.Live() {
			return errors.InvalidState("Bid has been withdrawn", nil)
		}

		now := time.Now()
		bid.Winning = true

		listing.Status = entity.ListingStatusPendingPayment
		listing.SelectedBidderID = bid.BidderID
		listing.SelectedAmount = bid.Amount
		listing.PendingSince = &now
		listing.UpdatedAt = now

		if err := tx.Set(bidRef, &bid); err != nil {
			return err
		}
		if err := tx.Set(listingRef, &listing); err != nil {
			return err
		}

		updated = listing
		return nil
	})

	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			return nil, err
		}
		return nil, errors.Internal("Failed to select winner", err)
	}

	return &updated, nil
}

func (r *firestoreListingRepository) Close(ctx context.Context, listingID string) (*entity.Listing, error) {
	listingRef := r.client.Collection("listings").Doc(listingID)

	var updated entity.Listing

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(listingRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Listing", err)
			}
			return err
		}

		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			return err
		}

		if !listing.CanTransitionTo(entity.ListingStatusClosed) {
			return errors.InvalidState("Listing is not open", nil)
		}

		listing.Status = entity.ListingStatusClosed
		listing.UpdatedAt = time.Now()

		if err := tx.Set(listingRef, &listing); err != nil {
			return err
		}

		updated = listing
		return nil
	})

	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			return nil, err
		}
		return nil, errors.Internal("Failed to close listing", err)
	}

	return &updated, nil
}

func (r *firestoreListingRepository) Reopen(ctx context.Context, listingID string) error {
	listingRef := r.client.Collection("listings").Doc(listingID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(listingRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Listing", err)
			}
			return err
		}

		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			return err
		}

		if !listing.CanTransitionTo(entity.ListingStatusOpen) {
			return errors.InvalidState("Listing is not awaiting payment", nil)
		}

		var bid entity.Bid
		bidRef := r.client.Collection("bids").Doc(bidDocID(listingID, listing.SelectedBidderID))
		bidDoc, err := tx.Get(bidRef)
		if err == nil {
			if err := bidDoc.DataTo(&bid); err != nil {
				return err
			}
		} else if status.Code(err) != codes.NotFound {
			return err
		}

		listing.Status = entity.ListingStatusOpen
		listing.SelectedBidderID = ""
		listing.SelectedAmount = 0
		listing.PendingSince = nil
		listing.UpdatedAt = time.Now()

		if bid.ID != "" {
			bid.Winning = false
			if err := tx.Set(bidRef, &bid); err != nil {
				return err
			}
		}

		return tx.Set(listingRef, &listing)
	})

	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			return err
		}
		return errors.Internal("Failed to reopen listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) ListStalePendingPayment(ctx context.Context, olderThan time.Time) ([]*entity.Listing, error) {
	query := r.client.Collection("listings").
		Where("status", "==", entity.ListingStatusPendingPayment).
		Where("pendingSince", "<", olderThan)

	iter := query.Documents(ctx)
	var listings []*entity.Listing

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate stale listings", err)
		}

		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			return nil, errors.Internal("Failed to parse listing data", err)
		}
		listings = append(listings, &listing)
	}

	return listings, nil
}
