package entity

import (
	"time"
)

type Bid struct {
	ID        string  `json:"id" firestore:"id"`
	ListingID string  `json:"listing_id" firestore:"listingId"`
	BidderID  string  `json:"bidder_id" firestore:"bidderId"`
	Amount    float64 `json:"amount" firestore:"amount"`
	Withdrawn bool    `json:"withdrawn" firestore:"withdrawn"`
	Winning   bool    `json:"winning" firestore:"winning"`

	PlacedAt    time.Time  `json:"placed_at" firestore:"placedAt"`
	WithdrawnAt *time.Time `json:"withdrawn_at,omitempty" firestore:"withdrawnAt,omitempty"`
}

// Live reports whether the bid still counts toward the auction.
func (b *Bid) Live() bool {
	return !b.Withdrawn
}
