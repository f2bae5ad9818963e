package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainnotification "gearshare/internal/domain/notification"
	"gearshare/internal/notify"
)

// Relay turns delivered domain events into durable notification rows and
// live bus pushes. It sits behind the outbox worker in local mode and
// behind the Kafka consumer when a broker is configured, so delivery is
// always asynchronous relative to the mutation that produced the event.
type Relay struct {
	Notifications domainnotification.Repository
	Bus           *notify.Bus
	Logger        *slog.Logger
}

type envelope struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Time time.Time       `json:"time"`
	Data json.RawMessage `json:"data"`
}

// Publish implements the outbox worker's producer contract.
func (r *Relay) Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error {
	return r.Deliver(ctx, payload, headers["target-user"])
}

// Deliver decodes one event envelope and fans it out. Unknown event types
// are skipped, not failed; at-least-once delivery upstream makes duplicates
// possible and harmless.
func (r *Relay) Deliver(ctx context.Context, payload []byte, targetUser string) error {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return err
	}
	n, ok := r.translate(env, targetUser)
	if !ok {
		return nil
	}
	if r.Notifications != nil {
		if err := r.Notifications.Append(ctx, n); err != nil {
			return err
		}
	}
	if r.Bus != nil {
		r.Bus.Publish(notify.Event{
			ID:        string(n.ID),
			UserID:    n.UserID,
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			Payload:   n.Payload,
			CreatedAt: n.CreatedAt,
		})
	}
	if r.Logger != nil {
		r.Logger.Debug("notification delivered", "type", n.Type, "user_id", n.UserID)
	}
	return nil
}

func (r *Relay) translate(env envelope, targetUser string) (*domainnotification.Notification, bool) {
	var (
		ntype   domainnotification.Type
		title   string
		message string
	)
	switch env.Type {
	case "booking.created.v1":
		ntype = domainnotification.TypeBookingCreated
		title = "New booking request"
		message = "You have a new booking request for your listing."
	case "booking.status_changed.v1":
		ntype = domainnotification.TypeBookingStatusChanged
		title = "Booking updated"
		message = statusMessage(env.Data)
	case "review.received.v1":
		ntype = domainnotification.TypeReviewReceived
		title = "New review"
		message = "You received a new review."
	case "message.received.v1":
		ntype = domainnotification.TypeMessageReceived
		title = "New message"
		message = "You have a new message."
	default:
		return nil, false
	}
	if targetUser == "" {
		return nil, false
	}
	created := env.Time
	if created.IsZero() {
		created = time.Now().UTC()
	}
	return &domainnotification.Notification{
		ID:        domainnotification.NotificationID(uuid.NewString()),
		UserID:    targetUser,
		Type:      ntype,
		Title:     title,
		Message:   message,
		Payload:   env.Data,
		CreatedAt: created,
	}, true
}

func statusMessage(data json.RawMessage) string {
	var body struct {
		NewStatus string `json:"new_status"`
	}
	if err := json.Unmarshal(data, &body); err != nil || body.NewStatus == "" {
		return "A booking you are part of changed status."
	}
	return fmt.Sprintf("A booking you are part of is now %s.", body.NewStatus)
}
