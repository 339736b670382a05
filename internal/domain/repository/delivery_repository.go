package repository

import (
	"context"

	"ecobid/internal/domain/entity"
)

type DeliveryRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Delivery, error)

	// Advance atomically moves the delivery from expectedStatus to the
	// event's status and appends the event to the history. A racing writer
	// that finds a different current status gets an InvalidState error.
	Advance(ctx context.Context, deliveryID, expectedStatus string, event entity.DeliveryStatusEvent) (*entity.Delivery, error)

	ListByActor(ctx context.Context, actorID string, limit, offset int) ([]*entity.Delivery, int64, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Delivery, int64, error)
}
