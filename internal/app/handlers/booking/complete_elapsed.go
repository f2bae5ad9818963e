package booking

import (
	"context"
	"log/slog"
	"time"

	"gearshare/internal/app/commands"
	"gearshare/internal/app/outbox"
	"gearshare/internal/app/uow"
)

const completeElapsedKey = "booking.complete_elapsed"

// CompleteElapsedCommand is dispatched by the scheduler, not by users.
// Confirmed bookings whose window ended before Cutoff move to COMPLETED.
type CompleteElapsedCommand struct {
	Cutoff time.Time
}

func (c CompleteElapsedCommand) Key() string { return completeElapsedKey }

type CompleteElapsedResult struct {
	Completed int `json:"completed"`
}

type CompleteElapsedHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *CompleteElapsedHandler) Handle(ctx context.Context, cmd CompleteElapsedCommand) (*CompleteElapsedResult, error) {
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

	cutoff := cmd.Cutoff
	if cutoff.IsZero() {
		cutoff = time.Now().UTC()
	}

	elapsed, err := unit.Bookings().ConfirmedEndedBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	completed := 0
	for _, b := range elapsed {
		if err := b.Complete(cutoff); err != nil {
			continue
		}
		if err := unit.Bookings().Save(ctx, b); err != nil {
			// another sweep instance got there first
			continue
		}
		pending := b.PendingEvents()
		b.ClearEvents()
		if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), pending); err != nil {
			return nil, err
		}
		completed++
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	if h.Logger != nil && completed > 0 {
		h.Logger.Info("elapsed bookings completed", "count", completed, "cutoff", cutoff)
	}

	return &CompleteElapsedResult{Completed: completed}, nil
}

func (h *CompleteElapsedHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[CompleteElapsedCommand, *CompleteElapsedResult] = (*CompleteElapsedHandler)(nil)
