package service

import (
	"context"

	"ecobid/pkg/logger"
)

// Notifier delivers user-facing events (winner selected, payment completed,
// delivery advanced). Callers treat it as fire-and-forget: a notification
// failure never rolls back the state change that triggered it.
type Notifier interface {
	Notify(ctx context.Context, userID, event string, payload map[string]interface{}) error
}

const (
	EventWinnerSelected   = "winner_selected"
	EventPaymentCompleted = "payment_completed"
	EventListingReopened  = "listing_reopened"
	EventDeliveryAdvanced = "delivery_advanced"
)

type logNotifier struct{}

// NewLogNotifier returns a Notifier that only logs, used when no broker is
// configured.
func NewLogNotifier() Notifier {
	return &logNotifier{}
}

func (n *logNotifier) Notify(ctx context.Context, userID, event string, payload map[string]interface{}) error {
	logger.Info("notify user=%s event=%s payload=%v", userID, event, payload)
	return nil
}
