package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"ecobid/internal/domain/service"
)

const subjectPrefix = "notifications."

type natsMessage struct {
	UserID  string                 `json:"user_id"`
	Event   string                 `json:"event"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	SentAt  time.Time              `json:"sent_at"`
}

// NatsNotifier publishes user notifications to a per-user NATS subject.
// Downstream consumers (mailer, push service) subscribe independently.
type NatsNotifier struct {
	conn *nats.Conn
}

func NewNatsNotifier(conn *nats.Conn) service.Notifier {
	return &NatsNotifier{
		conn: conn,
	}
}

func (n *NatsNotifier) Notify(ctx context.Context, userID, event string, payload map[string]interface{}) error {
	msg := natsMessage{
		UserID:  userID,
		Event:   event,
		Payload: payload,
		SentAt:  time.Now().UTC(),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	return n.conn.Publish(subjectPrefix+userID, data)
}
