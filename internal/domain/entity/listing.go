package entity

import (
	"time"
)

const (
	ListingStatusOpen           = "open"
	ListingStatusPendingPayment = "pending_payment"
	ListingStatusClosed         = "closed"
	ListingStatusSold           = "sold"
)

const (
	PriceTypeFixed      = "fixed"
	PriceTypeNegotiable = "negotiable"
)

const (
	DeliveryOptionPickup   = "pickup"
	DeliveryOptionDelivery = "delivery"
)

type Listing struct {
	ID              string   `json:"id" firestore:"id"`
	SellerID        string   `json:"seller_id" firestore:"sellerId"`
	Title           string   `json:"title" firestore:"title"`
	Description     string   `json:"description" firestore:"description"`
	Category        string   `json:"category" firestore:"category"`
	WeightKg        float64  `json:"weight_kg" firestore:"weightKg"`
	Price           float64  `json:"price" firestore:"price"`
	PriceType       string   `json:"price_type" firestore:"priceType"`
	Status          string   `json:"status" firestore:"status"`
	DeliveryOptions []string `json:"delivery_options" firestore:"deliveryOptions"`

	// Winner selection fields, set when status moves to pending_payment
	SelectedBidderID string     `json:"selected_bidder_id,omitempty" firestore:"selectedBidderId,omitempty"`
	SelectedAmount   float64    `json:"selected_amount,omitempty" firestore:"selectedAmount,omitempty"`
	PendingSince     *time.Time `json:"pending_since,omitempty" firestore:"pendingSince,omitempty"`

	CreatedAt time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time  `json:"updated_at" firestore:"updatedAt"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" firestore:"deletedAt,omitempty"`
}

// MinimumBid is the lowest amount the ledger accepts for this listing.
func (l *Listing) MinimumBid() float64 {
	return l.Price * 0.5
}

// CanTransitionTo enforces the listing status machine:
// open -> pending_payment -> sold, open -> closed, and the payment-window
// rollback pending_payment -> open. The status never regresses otherwise.
func (l *Listing) CanTransitionTo(newStatus string) bool {
	switch l.Status {
	case ListingStatusOpen:
		return newStatus == ListingStatusPendingPayment || newStatus == ListingStatusClosed
	case ListingStatusPendingPayment:
		return newStatus == ListingStatusSold || newStatus == ListingStatusOpen
	default:
		return false
	}
}

func ValidDeliveryOption(option string) bool {
	return option == DeliveryOptionPickup || option == DeliveryOptionDelivery
}
