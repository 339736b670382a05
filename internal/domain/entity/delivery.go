package entity

import (
	"time"
)

const (
	DeliveryStatusPending        = "pending"
	DeliveryStatusShipped        = "shipped"
	DeliveryStatusOutForDelivery = "out_for_delivery"
	DeliveryStatusDelivered      = "delivered"
)

type DeliveryStatusEvent struct {
	Status    string    `json:"status" firestore:"status"`
	Notes     string    `json:"notes,omitempty" firestore:"notes,omitempty"`
	ActorID   string    `json:"actor_id" firestore:"actorId"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

type Delivery struct {
	ID             string `json:"id" firestore:"id"`
	OrderID        string `json:"order_id" firestore:"orderId"`
	TransactionID  string `json:"transaction_id" firestore:"transactionId"`
	SellerID       string `json:"seller_id" firestore:"sellerId"`
	BuyerID        string `json:"buyer_id" firestore:"buyerId"`
	AssignedTo     string `json:"assigned_to" firestore:"assignedTo"`
	TrackingNumber string `json:"tracking_number" firestore:"trackingNumber"`
	Status         string `json:"status" firestore:"status"`

	StatusHistory []DeliveryStatusEvent `json:"status_history" firestore:"statusHistory"`

	DeliveryDate time.Time `json:"delivery_date" firestore:"deliveryDate"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt    time.Time `json:"updated_at" firestore:"updatedAt"`
}

// NextDeliveryStatus returns the immediate successor in the fixed sequence
// pending -> shipped -> out_for_delivery -> delivered. ok is false when the
// current status is terminal or unknown.
func NextDeliveryStatus(current string) (next string, ok bool) {
	switch current {
	case DeliveryStatusPending:
		return DeliveryStatusShipped, true
	case DeliveryStatusShipped:
		return DeliveryStatusOutForDelivery, true
	case DeliveryStatusOutForDelivery:
		return DeliveryStatusDelivered, true
	default:
		return "", false
	}
}
