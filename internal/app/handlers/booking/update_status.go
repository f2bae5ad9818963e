package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gearshare/internal/app/commands"
	"gearshare/internal/app/outbox"
	"gearshare/internal/app/uow"
	domainbooking "gearshare/internal/domain/booking"
)

const updateStatusKey = "booking.update_status"

// UpdateBookingStatusCommand advances a booking through the lifecycle table.
// COMPLETED is not reachable here; only the scheduled sweep completes
// bookings.
type UpdateBookingStatusCommand struct {
	BookingID string `validate:"required"`
	ActorID   string `validate:"required"`
	NewStatus string `validate:"required"`
}

func (c UpdateBookingStatusCommand) Key() string { return updateStatusKey }

type UpdateBookingStatusResult struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

type UpdateBookingStatusHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *UpdateBookingStatusHandler) Handle(ctx context.Context, cmd UpdateBookingStatusCommand) (*UpdateBookingStatusResult, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, ErrUnitOfWorkRequired
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	switch domainbooking.Status(cmd.NewStatus) {
	case domainbooking.StatusConfirmed:
		err = b.Confirm(cmd.ActorID, now)
	case domainbooking.StatusRejected:
		err = b.Reject(cmd.ActorID, now)
	case domainbooking.StatusCancelled:
		err = b.Cancel(cmd.ActorID, now)
	case domainbooking.StatusCompleted:
		// system-only transition, no user-facing path
		err = domainbooking.ErrActorNotAllowed
	default:
		err = domainbooking.ErrInvalidTransition
	}
	if err != nil {
		return nil, err
	}

	if err := unit.Bookings().Save(ctx, b); err != nil {
		// a lost concurrent race means the expected current status is gone
		if errors.Is(err, domainbooking.ErrConcurrentUpdate) {
			return nil, domainbooking.ErrInvalidTransition
		}
		return nil, err
	}

	pending := b.PendingEvents()
	b.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), pending); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	if h.Logger != nil {
		h.Logger.Info("booking status changed", "booking_id", b.ID, "actor_id", cmd.ActorID, "status", b.Status)
	}

	return &UpdateBookingStatusResult{BookingID: string(b.ID), Status: string(b.Status)}, nil
}

func (h *UpdateBookingStatusHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[UpdateBookingStatusCommand, *UpdateBookingStatusResult] = (*UpdateBookingStatusHandler)(nil)
