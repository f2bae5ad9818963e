package policies

import (
	"context"
	"errors"
	"strings"

	bookingapp "gearshare/internal/app/handlers/booking"
	notificationapp "gearshare/internal/app/handlers/notifications"
	domainbooking "gearshare/internal/domain/booking"
)

var ErrSubjectRequired = errors.New("policies: request subject required")

// Access enforces bus-level rules before any handler runs: user-scoped
// reads must carry a subject, and the COMPLETED status stays reserved for
// the completion sweep's own command.
type Access struct{}

func (Access) Authorize(ctx context.Context, message any) error {
	switch m := message.(type) {
	case bookingapp.UpdateBookingStatusCommand:
		if strings.EqualFold(strings.TrimSpace(m.NewStatus), string(domainbooking.StatusCompleted)) {
			return domainbooking.ErrActorNotAllowed
		}
	case bookingapp.ListRenterBookingsQuery:
		if strings.TrimSpace(m.RenterID) == "" {
			return ErrSubjectRequired
		}
	case bookingapp.ListOwnerBookingsQuery:
		if strings.TrimSpace(m.OwnerID) == "" {
			return ErrSubjectRequired
		}
	case notificationapp.ListNotificationsQuery:
		if strings.TrimSpace(m.UserID) == "" {
			return ErrSubjectRequired
		}
	}
	return nil
}
