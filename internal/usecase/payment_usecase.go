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

// PaymentUseCase reconciles checkout sessions with the payment provider and
// finalizes sales. Verification is idempotent: any number of calls after the
// first successful one observe the existing transaction and write nothing.
type PaymentUseCase struct {
	listingRepo     repository.ListingRepository
	transactionRepo repository.TransactionRepository
	gateway         service.PaymentGatewayService
	notifier        service.Notifier
	deliveryUseCase *DeliveryUseCase
}

func NewPaymentUseCase(
	listingRepo repository.ListingRepository,
	transactionRepo repository.TransactionRepository,
	gateway service.PaymentGatewayService,
	notifier service.Notifier,
	deliveryUseCase *DeliveryUseCase,
) *PaymentUseCase {
	return &PaymentUseCase{
		listingRepo:     listingRepo,
		transactionRepo: transactionRepo,
		gateway:         gateway,
		notifier:        notifier,
		deliveryUseCase: deliveryUseCase,
	}
}

func (uc *PaymentUseCase) CreateCheckout(ctx context.Context, listingID, buyerID string) (*service.CheckoutSession, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if listing.Status != entity.ListingStatusPendingPayment {
		return nil, errors.InvalidState("Listing is not awaiting payment", nil)
	}

	if listing.SelectedBidderID != buyerID {
		return nil, errors.Forbidden("Only the selected winner can pay for this listing", nil)
	}

	session, err := uc.gateway.CreateSession(ctx, service.CreateSessionRequest{
		OrderID:     listing.ID,
		Amount:      listing.SelectedAmount,
		ProductName: listing.Title,
		BuyerID:     buyerID,
	})
	if err != nil {
		return nil, errors.ExternalService("Payment provider is unavailable", err)
	}

	return session, nil
}

type VerifyPaymentResult struct {
	Transaction *entity.Transaction `json:"transaction"`
	Delivery    *entity.Delivery    `json:"delivery,omitempty"`
	AlreadyPaid bool                `json:"already_paid"`
}

func (uc *PaymentUseCase) VerifyPayment(ctx context.Context, listingID, buyerID, sessionID string) (*VerifyPaymentResult, error) {
	// First check: a completed transaction means a previous call (or a
	// concurrent one) already finalized the sale.
	existing, err := uc.transactionRepo.GetByListingID(ctx, listingID)
	if err == nil && existing.Status == entity.TransactionStatusCompleted {
		return &VerifyPaymentResult{Transaction: existing, AlreadyPaid: true}, nil
	}
	if err != nil && !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if listing.Status != entity.ListingStatusPendingPayment {
		return nil, errors.InvalidState("Listing is not awaiting payment", nil)
	}

	if listing.SelectedBidderID != buyerID {
		return nil, errors.Forbidden("Only the selected winner can verify this payment", nil)
	}

	// Provider query happens before any write, so a provider failure or an
	// incomplete session mutates nothing.
	sessionStatus, err := uc.gateway.GetSessionStatus(ctx, sessionID)
	if err != nil {
		return nil, errors.ExternalService("Failed to check payment status", err)
	}

	if !sessionStatus.Completed {
		return nil, errors.InvalidState("Payment has not been completed", nil)
	}

	// The session ID is caller-supplied, so a completed session is not
	// enough: it must reference this listing and cover the winning amount.
	if sessionStatus.OrderID != listing.ID {
		return nil, errors.BadRequest("Checkout session does not belong to this listing", nil)
	}
	if sessionStatus.PaidAmount < listing.SelectedAmount {
		return nil, errors.InvalidState("Payment does not cover the winning amount", nil)
	}

	now := time.Now()
	transaction := &entity.Transaction{
		ID:              uuid.New().String(),
		ListingID:       listing.ID,
		SellerID:        listing.SellerID,
		BuyerID:         buyerID,
		Amount:          listing.SelectedAmount,
		Status:          entity.TransactionStatusCompleted,
		ReceiptNumber:   generateReceiptNumber(),
		SessionID:       sessionID,
		TransactionDate: now,
	}

	delivery := uc.deliveryUseCase.NewDeliveryForTransaction(transaction)

	if err := uc.transactionRepo.Finalize(ctx, transaction, delivery); err != nil {
		// A concurrent verification won the race; treat it as already paid.
		if errors.Is(err, "CONFLICT") {
			winner, getErr := uc.transactionRepo.GetByListingID(ctx, listingID)
			if getErr != nil {
				return nil, getErr
			}
			return &VerifyPaymentResult{Transaction: winner, AlreadyPaid: true}, nil
		}
		return nil, err
	}

	payload := map[string]interface{}{
		"listing_id":     listing.ID,
		"receipt_number": transaction.ReceiptNumber,
		"amount":         transaction.Amount,
	}
	if err := uc.notifier.Notify(ctx, listing.SellerID, service.EventPaymentCompleted, payload); err != nil {
		logger.Warn("Failed to notify seller %s for listing %s: %v", listing.SellerID, listing.ID, err)
	}
	if err := uc.notifier.Notify(ctx, buyerID, service.EventPaymentCompleted, payload); err != nil {
		logger.Warn("Failed to notify buyer %s for listing %s: %v", buyerID, listing.ID, err)
	}

	return &VerifyPaymentResult{Transaction: transaction, Delivery: delivery}, nil
}

func (uc *PaymentUseCase) GetTransaction(ctx context.Context, userID, transactionID string) (*entity.Transaction, error) {
	transaction, err := uc.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if transaction.BuyerID != userID && transaction.SellerID != userID {
		return nil, errors.Forbidden("You don't have permission to view this transaction", nil)
	}

	return transaction, nil
}

func (uc *PaymentUseCase) ListTransactions(ctx context.Context, userID, role string, page, limit int) ([]*entity.Transaction, int64, error) {
	if role != "buyer" && role != "seller" {
		role = "buyer"
	}

	pagination := utils.NewPaginationParams(page, limit)
	return uc.transactionRepo.ListByUser(ctx, userID, role, pagination.PageSize, pagination.Offset)
}

func generateReceiptNumber() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return fmt.Sprintf("RCP-%d-%s", time.Now().Year(), strings.ToUpper(raw[:8]))
}
