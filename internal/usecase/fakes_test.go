package usecase_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"ecobid/internal/domain/entity"
	"ecobid/internal/domain/repository"
	"ecobid/internal/domain/service"
	"ecobid/internal/usecase"
	"ecobid/pkg/errors"
)

// memStore is the shared in-memory backing for the fake repositories. The
// fakes replicate the conflict and state-check semantics of the Firestore
// repositories so the use cases can be tested against the same contract.
type memStore struct {
	mu           sync.Mutex
	listings     map[string]*entity.Listing
	bids         map[string]*entity.Bid         // keyed listingID_bidderID
	transactions map[string]*entity.Transaction // keyed listingID
	deliveries   map[string]*entity.Delivery
	users        map[string]*entity.User
}

func newMemStore() *memStore {
	return &memStore{
		listings:     make(map[string]*entity.Listing),
		bids:         make(map[string]*entity.Bid),
		transactions: make(map[string]*entity.Transaction),
		deliveries:   make(map[string]*entity.Delivery),
		users:        make(map[string]*entity.User),
	}
}

func bidKey(listingID, bidderID string) string {
	return listingID + "_" + bidderID
}

func copyListing(l *entity.Listing) *entity.Listing {
	c := *l
	return &c
}

func copyBid(b *entity.Bid) *entity.Bid {
	c := *b
	return &c
}

func copyDelivery(d *entity.Delivery) *entity.Delivery {
	c := *d
	c.StatusHistory = append([]entity.DeliveryStatusEvent(nil), d.StatusHistory...)
	return &c
}

type fakeListingRepo struct {
	store *memStore
}

func (r *fakeListingRepo) Create(ctx context.Context, listing *entity.Listing) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	r.store.listings[listing.ID] = copyListing(listing)
	return nil
}

func (r *fakeListingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	listing, ok := r.store.listings[id]
	if !ok || listing.DeletedAt != nil {
		return nil, errors.NotFound("Listing", nil)
	}
	return copyListing(listing), nil
}

func (r *fakeListingRepo) Update(ctx context.Context, listing *entity.Listing) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.listings[listing.ID]; !ok {
		return errors.NotFound("Listing", nil)
	}
	r.store.listings[listing.ID] = copyListing(listing)
	return nil
}

func (r *fakeListingRepo) SoftDelete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	listing, ok := r.store.listings[id]
	if !ok {
		return errors.NotFound("Listing", nil)
	}
	now := time.Now()
	listing.Status = entity.ListingStatusClosed
	listing.DeletedAt = &now
	return nil
}

func (r *fakeListingRepo) ListOpen(ctx context.Context, filter repository.ListingFilter, limit, offset int) ([]*entity.Listing, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var matched []*entity.Listing
	for _, listing := range r.store.listings {
		if listing.Status != entity.ListingStatusOpen || listing.DeletedAt != nil {
			continue
		}
		if filter.Category != "" && listing.Category != filter.Category {
			continue
		}
		if filter.PriceType != "" && listing.PriceType != filter.PriceType {
			continue
		}
		if filter.DeliveryOption != "" && !containsOption(listing.DeliveryOptions, filter.DeliveryOption) {
			continue
		}
		matched = append(matched, copyListing(listing))
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	return paginateListings(matched, limit, offset)
}

func (r *fakeListingRepo) ListBySeller(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Listing, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var matched []*entity.Listing
	for _, listing := range r.store.listings {
		if listing.SellerID == sellerID && listing.DeletedAt == nil {
			matched = append(matched, copyListing(listing))
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	return paginateListings(matched, limit, offset)
}

func (r *fakeListingRepo) SelectWinner(ctx context.Context, listingID, bidderID string) (*entity.Listing, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	listing, ok := r.store.listings[listingID]
	if !ok || listing.DeletedAt != nil {
		return nil, errors.NotFound("Listing", nil)
	}
	if !listing.CanTransitionTo(entity.ListingStatusPendingPayment) {
		return nil, errors.InvalidState("Listing is not open", nil)
	}

	bid, ok := r.store.bids[bidKey(listingID, bidderID)]
	if !ok || !bid.Live() {
		return nil, errors.NotFound("Active bid", nil)
	}

	now := time.Now()
	bid.Winning = true
	listing.Status = entity.ListingStatusPendingPayment
	listing.SelectedBidderID = bidderID
	listing.SelectedAmount = bid.Amount
	listing.PendingSince = &now
	listing.UpdatedAt = now

	return copyListing(listing), nil
}

func (r *fakeListingRepo) Close(ctx context.Context, listingID string) (*entity.Listing, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	listing, ok := r.store.listings[listingID]
	if !ok || listing.DeletedAt != nil {
		return nil, errors.NotFound("Listing", nil)
	}
	if !listing.CanTransitionTo(entity.ListingStatusClosed) {
		return nil, errors.InvalidState("Listing is not open", nil)
	}

	listing.Status = entity.ListingStatusClosed
	listing.UpdatedAt = time.Now()

	return copyListing(listing), nil
}

func (r *fakeListingRepo) Reopen(ctx context.Context, listingID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	listing, ok := r.store.listings[listingID]
	if !ok || listing.DeletedAt != nil {
		return errors.NotFound("Listing", nil)
	}
	if !listing.CanTransitionTo(entity.ListingStatusOpen) {
		return errors.InvalidState("Listing is not awaiting payment", nil)
	}

	if bid, ok := r.store.bids[bidKey(listingID, listing.SelectedBidderID)]; ok {
		bid.Winning = false
	}

	listing.Status = entity.ListingStatusOpen
	listing.SelectedBidderID = ""
	listing.SelectedAmount = 0
	listing.PendingSince = nil
	listing.UpdatedAt = time.Now()

	return nil
}

func (r *fakeListingRepo) ListStalePendingPayment(ctx context.Context, olderThan time.Time) ([]*entity.Listing, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var stale []*entity.Listing
	for _, listing := range r.store.listings {
		if listing.Status != entity.ListingStatusPendingPayment || listing.PendingSince == nil {
			continue
		}
		if listing.PendingSince.Before(olderThan) {
			stale = append(stale, copyListing(listing))
		}
	}
	return stale, nil
}

func containsOption(options []string, option string) bool {
	for _, o := range options {
		if o == option {
			return true
		}
	}
	return false
}

func paginateListings(listings []*entity.Listing, limit, offset int) ([]*entity.Listing, int64, error) {
	total := int64(len(listings))
	if offset >= len(listings) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(listings) {
		end = len(listings)
	}
	return listings[offset:end], total, nil
}

type fakeBidRepo struct {
	store *memStore
}

func (r *fakeBidRepo) Place(ctx context.Context, bid *entity.Bid) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	listing, ok := r.store.listings[bid.ListingID]
	if !ok || listing.DeletedAt != nil {
		return errors.NotFound("Listing", nil)
	}
	if listing.Status != entity.ListingStatusOpen {
		return errors.InvalidState("Listing is not open for bidding", nil)
	}

	key := bidKey(bid.ListingID, bid.BidderID)
	if existing, ok := r.store.bids[key]; ok && existing.Live() {
		return errors.Conflict("You already have an active bid on this listing", nil)
	}

	if bid.ID == "" {
		bid.ID = uuid.New().String()
	}
	bid.PlacedAt = time.Now()
	bid.Withdrawn = false
	bid.WithdrawnAt = nil
	bid.Winning = false

	r.store.bids[key] = copyBid(bid)
	return nil
}

func (r *fakeBidRepo) Withdraw(ctx context.Context, listingID, bidderID string) (*entity.Bid, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	listing, ok := r.store.listings[listingID]
	if !ok || listing.DeletedAt != nil {
		return nil, errors.NotFound("Listing", nil)
	}
	if listing.Status != entity.ListingStatusOpen {
		return nil, errors.InvalidState("Listing is not open", nil)
	}

	bid, ok := r.store.bids[bidKey(listingID, bidderID)]
	if !ok || !bid.Live() {
		return nil, errors.NotFound("Active bid", nil)
	}

	now := time.Now()
	bid.Withdrawn = true
	bid.WithdrawnAt = &now

	return copyBid(bid), nil
}

func (r *fakeBidRepo) GetLive(ctx context.Context, listingID, bidderID string) (*entity.Bid, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	bid, ok := r.store.bids[bidKey(listingID, bidderID)]
	if !ok || !bid.Live() {
		return nil, errors.NotFound("Active bid", nil)
	}
	return copyBid(bid), nil
}

func (r *fakeBidRepo) ListLiveByListing(ctx context.Context, listingID string) ([]*entity.Bid, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var live []*entity.Bid
	for _, bid := range r.store.bids {
		if bid.ListingID == listingID && bid.Live() {
			live = append(live, copyBid(bid))
		}
	}

	sort.Slice(live, func(i, j int) bool {
		if live[i].Amount != live[j].Amount {
			return live[i].Amount > live[j].Amount
		}
		return live[i].PlacedAt.Before(live[j].PlacedAt)
	})

	return live, nil
}

func (r *fakeBidRepo) ListByBidder(ctx context.Context, bidderID string, limit, offset int) ([]*entity.Bid, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var history []*entity.Bid
	for _, bid := range r.store.bids {
		if bid.BidderID == bidderID {
			history = append(history, copyBid(bid))
		}
	}

	sort.Slice(history, func(i, j int) bool {
		return history[i].PlacedAt.After(history[j].PlacedAt)
	})

	total := int64(len(history))
	if offset >= len(history) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(history) {
		end = len(history)
	}
	return history[offset:end], total, nil
}

type fakeTransactionRepo struct {
	store *memStore

	// beforeFinalize runs inside Finalize before the conflict check, which
	// lets tests simulate a concurrent verification winning the race.
	beforeFinalize func()
}

func (r *fakeTransactionRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, txn := range r.store.transactions {
		if txn.ID == id {
			c := *txn
			return &c, nil
		}
	}
	return nil, errors.NotFound("Transaction", nil)
}

func (r *fakeTransactionRepo) GetByListingID(ctx context.Context, listingID string) (*entity.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	txn, ok := r.store.transactions[listingID]
	if !ok {
		return nil, errors.NotFound("Transaction", nil)
	}
	c := *txn
	return &c, nil
}

func (r *fakeTransactionRepo) ListByUser(ctx context.Context, userID, role string, limit, offset int) ([]*entity.Transaction, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var matched []*entity.Transaction
	for _, txn := range r.store.transactions {
		if (role == "buyer" && txn.BuyerID == userID) || (role == "seller" && txn.SellerID == userID) {
			c := *txn
			matched = append(matched, &c)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].TransactionDate.After(matched[j].TransactionDate)
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *fakeTransactionRepo) Finalize(ctx context.Context, transaction *entity.Transaction, delivery *entity.Delivery) error {
	if r.beforeFinalize != nil {
		r.beforeFinalize()
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.transactions[transaction.ListingID]; ok {
		return errors.Conflict("Transaction already exists for this listing", nil)
	}

	listing, ok := r.store.listings[transaction.ListingID]
	if !ok || listing.DeletedAt != nil {
		return errors.NotFound("Listing", nil)
	}
	if !listing.CanTransitionTo(entity.ListingStatusSold) {
		return errors.InvalidState("Listing is not awaiting payment", nil)
	}

	now := time.Now()
	transaction.CreatedAt = now
	transaction.UpdatedAt = now

	txnCopy := *transaction
	r.store.transactions[transaction.ListingID] = &txnCopy

	listing.Status = entity.ListingStatusSold
	listing.UpdatedAt = now

	r.store.deliveries[delivery.ID] = copyDelivery(delivery)
	return nil
}

type fakeDeliveryRepo struct {
	store *memStore
}

func (r *fakeDeliveryRepo) GetByID(ctx context.Context, id string) (*entity.Delivery, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delivery, ok := r.store.deliveries[id]
	if !ok {
		return nil, errors.NotFound("Delivery", nil)
	}
	return copyDelivery(delivery), nil
}

func (r *fakeDeliveryRepo) Advance(ctx context.Context, deliveryID, expectedStatus string, event entity.DeliveryStatusEvent) (*entity.Delivery, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delivery, ok := r.store.deliveries[deliveryID]
	if !ok {
		return nil, errors.NotFound("Delivery", nil)
	}
	if delivery.Status != expectedStatus {
		return nil, errors.InvalidState("Delivery status changed concurrently", nil)
	}

	delivery.Status = event.Status
	delivery.StatusHistory = append(delivery.StatusHistory, event)
	delivery.UpdatedAt = event.CreatedAt

	return copyDelivery(delivery), nil
}

func (r *fakeDeliveryRepo) ListByActor(ctx context.Context, actorID string, limit, offset int) ([]*entity.Delivery, int64, error) {
	return r.list(func(d *entity.Delivery) bool { return d.AssignedTo == actorID }, limit, offset)
}

func (r *fakeDeliveryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Delivery, int64, error) {
	return r.list(func(d *entity.Delivery) bool { return d.BuyerID == userID || d.SellerID == userID }, limit, offset)
}

func (r *fakeDeliveryRepo) list(match func(*entity.Delivery) bool, limit, offset int) ([]*entity.Delivery, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var matched []*entity.Delivery
	for _, delivery := range r.store.deliveries {
		if match(delivery) {
			matched = append(matched, copyDelivery(delivery))
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

type fakeUserRepo struct {
	store *memStore
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	c := *user
	return &c, nil
}

type stubGateway struct {
	session    *service.CheckoutSession
	createErr  error
	status     *service.SessionStatus
	statusErr  error
	lastCreate service.CreateSessionRequest
}

func (g *stubGateway) CreateSession(ctx context.Context, req service.CreateSessionRequest) (*service.CheckoutSession, error) {
	g.lastCreate = req
	if g.createErr != nil {
		return nil, g.createErr
	}
	return g.session, nil
}

func (g *stubGateway) GetSessionStatus(ctx context.Context, sessionID string) (*service.SessionStatus, error) {
	if g.statusErr != nil {
		return nil, g.statusErr
	}
	return g.status, nil
}

type notifyCall struct {
	UserID  string
	Event   string
	Payload map[string]interface{}
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
	err   error
}

func (n *recordingNotifier) Notify(ctx context.Context, userID, event string, payload map[string]interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifyCall{UserID: userID, Event: event, Payload: payload})
	return n.err
}

func (n *recordingNotifier) callsFor(userID string) []notifyCall {
	n.mu.Lock()
	defer n.mu.Unlock()
	var matched []notifyCall
	for _, call := range n.calls {
		if call.UserID == userID {
			matched = append(matched, call)
		}
	}
	return matched
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []service.BidEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event service.BidEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) published() []service.BidEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]service.BidEvent(nil), p.events...)
}

// fixture wires all use cases over one shared memStore.
type fixture struct {
	store     *memStore
	listings  *fakeListingRepo
	bids      *fakeBidRepo
	txns      *fakeTransactionRepo
	delivs    *fakeDeliveryRepo
	users     *fakeUserRepo
	notifier  *recordingNotifier
	publisher *recordingPublisher
	gateway   *stubGateway

	listingUC  *usecase.ListingUseCase
	bidUC      *usecase.BidUseCase
	auctionUC  *usecase.AuctionUseCase
	deliveryUC *usecase.DeliveryUseCase
	paymentUC  *usecase.PaymentUseCase
}

const (
	testPaymentWindow = 24 * time.Hour
	testSweepInterval = 10 * time.Minute
	testLeadDays      = 7
)

func newFixture() *fixture {
	store := newMemStore()

	f := &fixture{
		store:     store,
		listings:  &fakeListingRepo{store: store},
		bids:      &fakeBidRepo{store: store},
		txns:      &fakeTransactionRepo{store: store},
		delivs:    &fakeDeliveryRepo{store: store},
		users:     &fakeUserRepo{store: store},
		notifier:  &recordingNotifier{},
		publisher: &recordingPublisher{},
		gateway: &stubGateway{
			session: &service.CheckoutSession{SessionID: "cs_test_123", RedirectURL: "https://checkout.example/cs_test_123"},
			status:  &service.SessionStatus{Completed: true, PaidAmount: 100},
		},
	}

	f.listingUC = usecase.NewListingUseCase(f.listings, f.bids)
	f.bidUC = usecase.NewBidUseCase(f.bids, f.listings, f.publisher)
	f.auctionUC = usecase.NewAuctionUseCase(f.listings, f.bids, f.users, f.notifier, testPaymentWindow, testSweepInterval)
	f.deliveryUC = usecase.NewDeliveryUseCase(f.delivs, f.notifier, testLeadDays)
	f.paymentUC = usecase.NewPaymentUseCase(f.listings, f.txns, f.gateway, f.notifier, f.deliveryUC)

	return f
}

func (f *fixture) seedUser(id, email string) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.users[id] = &entity.User{ID: id, Email: email, Role: entity.RoleSeller}
}

func (f *fixture) openListing(sellerID string, price float64) *entity.Listing {
	listing, err := f.listingUC.CreateListing(context.Background(), sellerID, usecase.CreateListingInput{
		Title:           "Dell Latitude lot",
		Description:     "Pallet of retired laptops",
		Category:        "laptops",
		WeightKg:        40,
		Price:           price,
		PriceType:       entity.PriceTypeNegotiable,
		DeliveryOptions: []string{entity.DeliveryOptionPickup, entity.DeliveryOptionDelivery},
	})
	if err != nil {
		panic(err)
	}
	return listing
}
