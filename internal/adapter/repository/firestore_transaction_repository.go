package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ecobid/internal/domain/entity"
	"ecobid/internal/domain/repository"
	"ecobid/pkg/errors"
)

// Transaction documents are keyed by listing ID. That makes "at most one
// transaction per listing" a document-ID uniqueness guarantee instead of an
// application-level check.
type firestoreTransactionRepository struct {
	client *firestore.Client
}

func NewFirestoreTransactionRepository(client *firestore.Client) repository.TransactionRepository {
	return &firestoreTransactionRepository{
		client: client,
	}
}

func (r *firestoreTransactionRepository) GetByListingID(ctx context.Context, listingID string) (*entity.Transaction, error) {
	doc, err := r.client.Collection("transactions").Doc(listingID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Transaction", err)
		}
		return nil, errors.Internal("Failed to get transaction", err)
	}

	var transaction entity.Transaction
	if err := doc.DataTo(&transaction); err != nil {
		return nil, errors.Internal("Failed to parse transaction data", err)
	}

	return &transaction, nil
}

func (r *firestoreTransactionRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	query := r.client.Collection("transactions").
		Where("id", "==", id).
		Limit(1)

	iter := query.Documents(ctx)
	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("Transaction", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to get transaction", err)
	}

	var transaction entity.Transaction
	if err := doc.DataTo(&transaction); err != nil {
		return nil, errors.Internal("Failed to parse transaction data", err)
	}

	return &transaction, nil
}

func (r *firestoreTransactionRepository) ListByUser(ctx context.Context, userID, role string, limit, offset int) ([]*entity.Transaction, int64, error) {
	var field string
	if role == "buyer" {
		field = "buyerId"
	} else if role == "seller" {
		field = "sellerId"
	} else {
		return nil, 0, errors.BadRequest("Invalid role", nil)
	}

	query := r.client.Collection("transactions").
		Where(field, "==", userID).
		OrderBy("createdAt", firestore.Desc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count transactions", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var transactions []*entity.Transaction

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate transactions", err)
		}

		var transaction entity.Transaction
		if err := doc.DataTo(&transaction); err != nil {
			return nil, 0, errors.Internal("Failed to parse transaction data", err)
		}
		transactions = append(transactions, &transaction)
	}

	return transactions, total, nil
}

func (r *firestoreTransactionRepository) Finalize(ctx context.Context, transaction *entity.Transaction, delivery *entity.Delivery) error {
	now := time.Now()
	transaction.CreatedAt = now
	transaction.UpdatedAt = now
	delivery.CreatedAt = now
	delivery.UpdatedAt = now

	txnRef := r.client.Collection("transactions").Doc(transaction.ListingID)
	listingRef := r.client.Collection("listings").Doc(transaction.ListingID)
	deliveryRef := r.client.Collection("deliveries").Doc(delivery.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		_, err := tx.Get(txnRef)
		if err == nil {
			return errors.Conflict("Transaction already exists for this listing", nil)
		}
		if status.Code(err) != codes.NotFound {
			return err
		}

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

		if !listing.CanTransitionTo(entity.ListingStatusSold) {
			return errors.InvalidState("Listing is not awaiting payment", nil)
		}

		listing.Status = entity.ListingStatusSold
		listing.UpdatedAt = now

		// Create rather than Set: the second of two racing verifiers must
		// fail here so only one transaction document can ever exist.
		if err := tx.Create(txnRef, transaction); err != nil {
			if status.Code(err) == codes.AlreadyExists {
				return errors.Conflict("Transaction already exists for this listing", err)
			}
			return err
		}
		if err := tx.Set(listingRef, &listing); err != nil {
			return err
		}
		return tx.Set(deliveryRef, delivery)
	})

	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			return err
		}
		if status.Code(err) == codes.AlreadyExists {
			return errors.Conflict("Transaction already exists for this listing", err)
		}
		return errors.Internal("Failed to finalize transaction", err)
	}

	return nil
}
