package notification

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrNotFound = errors.New("notification: not found")

type NotificationID string

type Type string

const (
	TypeBookingCreated       Type = "booking_created"
	TypeBookingStatusChanged Type = "booking_status_changed"
	TypeMessageReceived      Type = "message_received"
	TypeReviewReceived       Type = "review_received"
)

// Notification is the durable record behind live delivery. Subscribers that
// miss a push recover by polling unread rows; the only mutation ever applied
// is flipping IsRead.
type Notification struct {
	ID        NotificationID
	UserID    string
	Type      Type
	Title     string
	Message   string
	Payload   json.RawMessage
	IsRead    bool
	CreatedAt time.Time
}

type Repository interface {
	Append(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*Notification, error)
	// MarkRead flips IsRead; marking an already-read row is a no-op.
	MarkRead(ctx context.Context, id NotificationID, userID string) error
}
