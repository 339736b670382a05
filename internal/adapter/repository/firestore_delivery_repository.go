package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ecobid/internal/domain/entity"
	"ecobid/internal/domain/repository"
	"ecobid/pkg/errors"
)

type firestoreDeliveryRepository struct {
	client *firestore.Client
}

func NewFirestoreDeliveryRepository(client *firestore.Client) repository.DeliveryRepository {
	return &firestoreDeliveryRepository{
		client: client,
	}
}

func (r *firestoreDeliveryRepository) GetByID(ctx context.Context, id string) (*entity.Delivery, error) {
	doc, err := r.client.Collection("deliveries").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Delivery", err)
		}
		return nil, errors.Internal("Failed to get delivery", err)
	}

	var delivery entity.Delivery
	if err := doc.DataTo(&delivery); err != nil {
		return nil, errors.Internal("Failed to parse delivery data", err)
	}

	return &delivery, nil
}

func (r *firestoreDeliveryRepository) Advance(ctx context.Context, deliveryID, expectedStatus string, event entity.DeliveryStatusEvent) (*entity.Delivery, error) {
	docRef := r.client.Collection("deliveries").Doc(deliveryID)

	var updated entity.Delivery

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Delivery", err)
			}
			return err
		}

		var delivery entity.Delivery
		if err := doc.DataTo(&delivery); err != nil {
			return err
		}

		if delivery.Status != expectedStatus {
			return errors.InvalidState("Delivery status changed concurrently", nil)
		}

		delivery.Status = event.Status
		delivery.StatusHistory = append(delivery.StatusHistory, event)
		delivery.UpdatedAt = time.Now()

		if err := tx.Set(docRef, &delivery); err != nil {
			return err
		}

		updated = delivery
		return nil
	})

	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			return nil, err
		}
		return nil, errors.Internal("Failed to advance delivery", err)
	}

	return &updated, nil
}

func (r *firestoreDeliveryRepository) ListByActor(ctx context.Context, actorID string, limit, offset int) ([]*entity.Delivery, int64, error) {
	query := r.client.Collection("deliveries").
		Where("assignedTo", "==", actorID).
		OrderBy("createdAt", firestore.Desc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count deliveries", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	deliveries, err := r.collect(query.Documents(ctx))
	if err != nil {
		return nil, 0, err
	}

	return deliveries, total, nil
}

// ListByUser returns deliveries where the user is the buyer or the seller.
// Firestore has no OR queries, so the two sides are fetched separately and
// merged newest first.
func (r *firestoreDeliveryRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Delivery, int64, error) {
	asBuyer, err := r.collect(r.client.Collection("deliveries").
		Where("buyerId", "==", userID).Documents(ctx))
	if err != nil {
		return nil, 0, err
	}

	asSeller, err := r.collect(r.client.Collection("deliveries").
		Where("sellerId", "==", userID).Documents(ctx))
	if err != nil {
		return nil, 0, err
	}

	merged := append(asBuyer, asSeller...)
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	total := int64(len(merged))

	if offset >= len(merged) {
		return nil, total, nil
	}
	merged = merged[offset:]
	if limit > 0 && limit < len(merged) {
		merged = merged[:limit]
	}

	return merged, total, nil
}

func (r *firestoreDeliveryRepository) collect(iter *firestore.DocumentIterator) ([]*entity.Delivery, error) {
	var deliveries []*entity.Delivery

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate deliveries", err)
		}

		var delivery entity.Delivery
		if err := doc.DataTo(&delivery); err != nil {
			return nil, errors.Internal("Failed to parse delivery data", err)
		}
		deliveries = append(deliveries, &delivery)
	}

	return deliveries, nil
}
