package repository

import (
	"context"

	"ecobid/internal/domain/entity"
)

type TransactionRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	GetByListingID(ctx context.Context, listingID string) (*entity.Transaction, error)
	ListByUser(ctx context.Context, userID, role string, limit, offset int) ([]*entity.Transaction, int64, error)

	// Finalize performs the sale completion as one atomic unit: creates the
	// transaction (at most one per listing), flips the listing to sold and
	// creates the delivery record. A concurrent writer that loses the race
	// gets a Conflict error and must treat the sale as already finalized.
	Finalize(ctx context.Context, transaction *entity.Transaction, delivery *entity.Delivery) error
}
