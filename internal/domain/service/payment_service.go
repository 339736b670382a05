package service

import (
	"context"
)

// CreateSessionRequest carries everything the gateway needs to open a
// hosted checkout page for a finalized winner.
type CreateSessionRequest struct {
	OrderID     string
	Amount      float64
	ProductName string
	BuyerID     string
	Metadata    map[string]string
}

// CheckoutSession is the opaque reference the client is redirected to.
type CheckoutSession struct {
	SessionID   string
	RedirectURL string
}

// SessionStatus is the provider's view of a checkout session. OrderID is
// the reference the session was created with; verifiers compare it against
// the listing being finalized so a session cannot pay for a different sale.
type SessionStatus struct {
	Completed  bool
	PaidAmount float64
	OrderID    string
}

// PaymentGatewayService abstracts the external payment provider.
type PaymentGatewayService interface {
	CreateSession(ctx context.Context, req CreateSessionRequest) (*CheckoutSession, error)
	GetSessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error)
}
