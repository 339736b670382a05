package usecase_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"

	"ecobid/internal/domain/service"
	"ecobid/pkg/errors"
)

func TestPlaceBid(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	listing := f.openListing("seller-1", 100)

	bid, err := f.bidUC.PlaceBid(ctx, listing.ID, "bidder-1", 80)
	require.NoError(t, err)
	require.NotEmpty(t, bid.ID)
	require.False(t, bid.Withdrawn)
	require.False(t, bid.PlacedAt.IsZero())

	events := f.publisher.published()
	require.Len(t, events, 1)
	require.Equal(t, service.BidEventPlaced, events[0].Type)
	require.Equal(t, listing.ID, events[0].ListingID)
	require.Equal(t, 80.0, events[0].HighestBid)
}

func TestPlaceBid_OwnListing(t *testing.T) {
	f := newFixture()
	listing := f.openListing("seller-1", 100)

	_, err := f.bidUC.PlaceBid(context.Background(), listing.ID, "seller-1", 80)
	require.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestPlaceBid_BelowMinimum(t *testing.T) {
	f := newFixture()
	listing := f.openListing("seller-1", 100)

	_, err := f.bidUC.PlaceBid(context.Background(), listing.ID, "bidder-1", 49.99)
	require.True(t, errors.Is(err, "BAD_REQUEST"))
	require.Contains(t, err.Error(), "Bid must be at least 50.00")

	// Exactly the minimum is accepted.
	_, err = f.bidUC.PlaceBid(context.Background(), listing.ID, "bidder-1", 50)
	require.NoError(t, err)
}

func TestPlaceBid_DuplicateLiveBid(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	listing := f.openListing("seller-1", 100)

	_, err := f.bidUC.PlaceBid(ctx, listing.ID, "bidder-1", 80)
	require.NoError(t, err)

	_, err = f.bidUC.PlaceBid(ctx, listing.ID, "bidder-1", 90)
	require.True(t, errors.Is(err, "CONFLICT"))
}

func TestPlaceBid_AfterWithdraw(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	listing := f.openListing("seller-1", 100)

	_, err := f.bidUC.PlaceBid(ctx, listing.ID, "bidder-1", 80)
	require.NoError(t, err)

	_, err = f.bidUC.WithdrawBid(ctx, listing.ID, "bidder-1")
	require.NoError(t, err)

	// Withdrawing frees the slot for a fresh bid from the same bidder.
	bid, err := f.bidUC.PlaceBid(ctx, listing.ID, "bidder-1", 95)
	require.NoError(t, err)
	require.Equal(t, 95.0, bid.Amount)

	live, err := f.bidUC.GetBidsForListing(ctx, listing.ID)
	require.NoError(t, err)
	require.Len(t, live, 1)
}

func TestPlaceBid_ListingNotOpen(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	listing := f.openListing("seller-1", 100)

	_, err := f.auctionUC.CloseListing(ctx, listing.ID, "seller-1")
	require.NoError(t, err)

	_, err = f.bidUC.PlaceBid(ctx, listing.ID, "bidder-1", 80)
	require.True(t, errors.Is(err, "INVALID_STATE"))
}

func TestWithdrawBid_NoLiveBid(t *testing.T) {
	f := newFixture()
	listing := f.openListing("seller-1", 100)

	_, err := f.bidUC.WithdrawBid(context.Background(), listing.ID, "bidder-1")
	require.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestWithdrawBid_AfterWinnerSelected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	listing := f.openListing("seller-1", 100)

	_, err := f.bidUC.PlaceBid(ctx, listing.ID, "bidder-1", 80)
	require.NoError(t, err)

	_, err = f.auctionUC.SelectWinner(ctx, listing.ID, "seller-1", "bidder-1")
	require.NoError(t, err)

	// The listing left the open state, so the bid is locked in.
	_, err = f.bidUC.WithdrawBid(ctx, listing.ID, "bidder-1")
	require.True(t, errors.Is(err, "INVALID_STATE"))
}

func TestGetHighestBid_OrderingAndTies(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	listing := f.openListing("seller-1", 100)

	_, err := f.bidUC.PlaceBid(ctx, listing.ID, "bidder-1", 120)
	require.NoError(t, err)
	_, err = f.bidUC.PlaceBid(ctx, listing.ID, "bidder-2", 150)
	require.NoError(t, err)
	_, err = f.bidUC.PlaceBid(ctx, listing.ID, "bidder-3", 150)
	require.NoError(t, err)

	bids, err := f.bidUC.GetBidsForListing(ctx, listing.ID)
	require.NoError(t, err)
	require.Len(t, bids, 3)
	require.Equal(t, []string{"bidder-2", "bidder-3", "bidder-1"}, []string{bids[0].BidderID, bids[1].BidderID, bids[2].BidderID})

	// Ties go to the earlier bid.
	highest, err := f.bidUC.GetHighestBid(ctx, listing.ID)
	require.NoError(t, err)
	require.Equal(t, "bidder-2", highest.BidderID)
}

func TestGetHighestBid_WithdrawalPromotesNextHighest(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	listing := f.openListing("seller-1", 100)

	_, err := f.bidUC.PlaceBid(ctx, listing.ID, "bidder-1", 150)
	require.NoError(t, err)
	_, err = f.bidUC.PlaceBid(ctx, listing.ID, "bidder-2", 120)
	require.NoError(t, err)

	_, err = f.bidUC.WithdrawBid(ctx, listing.ID, "bidder-1")
	require.NoError(t, err)

	highest, err := f.bidUC.GetHighestBid(ctx, listing.ID)
	require.NoError(t, err)
	require.Equal(t, "bidder-2", highest.BidderID)
	require.Equal(t, 120.0, highest.Amount)

	// The withdrawal event carries the new highest.
	events := f.publisher.published()
	last := events[len(events)-1]
	require.Equal(t, service.BidEventWithdrawn, last.Type)
	require.Equal(t, 120.0, last.HighestBid)
}

func TestGetHighestBid_NoLiveBids(t *testing.T) {
	f := newFixture()
	listing := f.openListing("seller-1", 100)

	highest, err := f.bidUC.GetHighestBid(context.Background(), listing.ID)
	require.NoError(t, err)
	require.Nil(t, highest)
}

func TestPlaceBid_PublisherFailureIsSwallowed(t *testing.T) {
	f := newFixture()
	f.publisher.err = stderrors.New("redis down")
	listing := f.openListing("seller-1", 100)

	_, err := f.bidUC.PlaceBid(context.Background(), listing.ID, "bidder-1", 80)
	require.NoError(t, err)
}

func TestGetBidHistory_IncludesWithdrawn(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	first := f.openListing("seller-1", 100)
	second := f.openListing("seller-2", 100)

	_, err := f.bidUC.PlaceBid(ctx, first.ID, "bidder-1", 80)
	require.NoError(t, err)
	_, err = f.bidUC.WithdrawBid(ctx, first.ID, "bidder-1")
	require.NoError(t, err)
	_, err = f.bidUC.PlaceBid(ctx, second.ID, "bidder-1", 60)
	require.NoError(t, err)

	history, total, err := f.bidUC.GetBidHistory(ctx, "bidder-1", 1, 20)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, history, 2)
}
