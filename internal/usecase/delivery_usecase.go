package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ecobid/internal/domain/entity"
	"ecobid/internal/domain/repository"
	"ecobid/internal/domain/service"
	"ecobid/pkg/errors"
	"ecobid/pkg/logger"
	"ecobid/pkg/utils"
)

type DeliveryUseCase struct {
	deliveryRepo repository.DeliveryRepository
	notifier     service.Notifier
	leadDays     int
}

func NewDeliveryUseCase(
	deliveryRepo repository.DeliveryRepository,
	notifier service.Notifier,
	leadDays int,
) *DeliveryUseCase {
	return &DeliveryUseCase{
		deliveryRepo: deliveryRepo,
		notifier:     notifier,
		leadDays:     leadDays,
	}
}

// NewDeliveryForTransaction builds the delivery record that is persisted
// together with the transaction when a sale is finalized. The seller is the
// assigned delivery actor until handoff to a courier happens out of band.
func (uc *DeliveryUseCase) NewDeliveryForTransaction(transaction *entity.Transaction) *entity.Delivery {
	now := time.Now()

	return &entity.Delivery{
		ID:             uuid.New().String(),
		OrderID:        transaction.ListingID,
		TransactionID:  transaction.ID,
		SellerID:       transaction.SellerID,
		BuyerID:        transaction.BuyerID,
		AssignedTo:     transaction.SellerID,
		TrackingNumber: generateTrackingNumber(),
		Status:         entity.DeliveryStatusPending,
		StatusHistory: []entity.DeliveryStatusEvent{
			{
				Status:    entity.DeliveryStatusPending,
				Notes:     "Delivery created",
				ActorID:   transaction.SellerID,
				CreatedAt: now,
			},
		},
		DeliveryDate: now.AddDate(0, 0, uc.leadDays),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (uc *DeliveryUseCase) AdvanceStatus(ctx context.Context, deliveryID, actorID, newStatus, notes string) (*entity.Delivery, error) {
	delivery, err := uc.deliveryRepo.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	if delivery.AssignedTo != actorID {
		return nil, errors.Forbidden("Only the assigned delivery partner can update this delivery", nil)
	}

	next, ok := entity.NextDeliveryStatus(delivery.Status)
	if !ok {
		return nil, errors.InvalidState("Delivery is already delivered", nil)
	}
	if newStatus != next {
		return nil, errors.InvalidState(fmt.Sprintf("Cannot move delivery from %s to %s", delivery.Status, newStatus), nil)
	}

	event := entity.DeliveryStatusEvent{
		Status:    newStatus,
		Notes:     notes,
		ActorID:   actorID,
		CreatedAt: time.Now(),
	}

	updated, err := uc.deliveryRepo.Advance(ctx, deliveryID, delivery.Status, event)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"delivery_id":     updated.ID,
		"tracking_number": updated.TrackingNumber,
		"status":          updated.Status,
	}
	if err := uc.notifier.Notify(ctx, updated.BuyerID, service.EventDeliveryAdvanced, payload); err != nil {
		logger.Warn("Failed to notify buyer %s for delivery %s: %v", updated.BuyerID, updated.ID, err)
	}

	return updated, nil
}

func (uc *DeliveryUseCase) GetDelivery(ctx context.Context, userID, deliveryID string) (*entity.Delivery, error) {
	delivery, err := uc.deliveryRepo.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	if delivery.BuyerID != userID && delivery.SellerID != userID && delivery.AssignedTo != userID {
		return nil, errors.Forbidden("You don't have permission to view this delivery", nil)
	}

	return delivery, nil
}

func (uc *DeliveryUseCase) GetDeliveriesForActor(ctx context.Context, actorID string, page, limit int) ([]*entity.Delivery, int64, error) {
	pagination := utils.NewPaginationParams(page, limit)
	return uc.deliveryRepo.ListByActor(ctx, actorID, pagination.PageSize, pagination.Offset)
}

func (uc *DeliveryUseCase) GetDeliveriesForUser(ctx context.Context, userID string, page, limit int) ([]*entity.Delivery, int64, error) {
	pagination := utils.NewPaginationParams(page, limit)
	return uc.deliveryRepo.ListByUser(ctx, userID, pagination.PageSize, pagination.Offset)
}

func generateTrackingNumber() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "ECO-" + strings.ToUpper(raw[:12])
}
