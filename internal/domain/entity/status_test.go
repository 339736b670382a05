package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListingCanTransitionTo(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from, to string
		want     bool
	}{
		{ListingStatusOpen, ListingStatusPendingPayment, true},
		{ListingStatusOpen, ListingStatusClosed, true},
		{ListingStatusOpen, ListingStatusSold, false},
		{ListingStatusPendingPayment, ListingStatusSold, true},
		{ListingStatusPendingPayment, ListingStatusOpen, true},
		{ListingStatusPendingPayment, ListingStatusClosed, false},
		{ListingStatusSold, ListingStatusOpen, false},
		{ListingStatusClosed, ListingStatusOpen, false},
		{ListingStatusSold, ListingStatusPendingPayment, false},
	}

	for _, tc := range cases {
		l := &Listing{Status: tc.from}
		assert.Equal(t, tc.want, l.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestBidLive(t *testing.T) {
	t.Parallel()

	b := &Bid{Amount: 80}
	assert.True(t, b.Live())

	b.Withdrawn = true
	assert.False(t, b.Live())
}

func TestMinimumBid(t *testing.T) {
	t.Parallel()

	l := &Listing{Price: 100}
	assert.Equal(t, 50.0, l.MinimumBid())
}

func TestNextDeliveryStatus(t *testing.T) {
	t.Parallel()

	next, ok := NextDeliveryStatus(DeliveryStatusPending)
	assert.True(t, ok)
	assert.Equal(t, DeliveryStatusShipped, next)

	next, ok = NextDeliveryStatus(DeliveryStatusShipped)
	assert.True(t, ok)
	assert.Equal(t, DeliveryStatusOutForDelivery, next)

	next, ok = NextDeliveryStatus(DeliveryStatusOutForDelivery)
	assert.True(t, ok)
	assert.Equal(t, DeliveryStatusDelivered, next)

	_, ok = NextDeliveryStatus(DeliveryStatusDelivered)
	assert.False(t, ok)

	_, ok = NextDeliveryStatus("lost")
	assert.False(t, ok)
}
