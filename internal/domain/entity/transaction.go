package entity

import (
	"time"
)

const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
)

type Transaction struct {
	ID            string  `json:"id" firestore:"id"`
	ListingID     string  `json:"listing_id" firestore:"listingId"`
	SellerID      string  `json:"seller_id" firestore:"sellerId"`
	BuyerID       string  `json:"buyer_id" firestore:"buyerId"`
	Amount        float64 `json:"amount" firestore:"amount"`
	Status        string  `json:"status" firestore:"status"`
	ReceiptNumber string  `json:"receipt_number,omitempty" firestore:"receiptNumber,omitempty"`
	SessionID     string  `json:"session_id,omitempty" firestore:"sessionId,omitempty"`

	TransactionDate time.Time `json:"transaction_date" firestore:"transactionDate"`
	CreatedAt       time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt       time.Time `json:"updated_at" firestore:"updatedAt"`
}
