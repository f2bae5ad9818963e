package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gearshare/internal/app/commands"
	"gearshare/internal/app/middleware"
	"gearshare/internal/app/outbox"
	"gearshare/internal/app/uow"
	domainavailability "gearshare/internal/domain/availability"
	domainbooking "gearshare/internal/domain/booking"
	domainlisting "gearshare/internal/domain/listing"
	domainpricing "gearshare/internal/domain/pricing"
	domainrange "gearshare/internal/domain/shared/daterange"
	"gearshare/internal/domain/timeslot"
)

const requestBookingKey = "booking.request"

var ErrUnitOfWorkRequired = errors.New("booking: unit of work required")

// RequestBookingCommand asks to book a listing for a window. The renter is
// always an explicit parameter, never read from ambient state.
type RequestBookingCommand struct {
	CommandID       string
	ListingID       string `validate:"required"`
	RenterID        string `validate:"required"`
	Start           time.Time
	End             time.Time
	TimeSlot        string
	IdempotencyKeyV string
}

func (c RequestBookingCommand) Key() string { return requestBookingKey }

func (c RequestBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c RequestBookingCommand) ResultPrototype() any { return &RequestBookingResult{} }

type RequestBookingResult struct {
	BookingID string                  `json:"booking_id"`
	Status    string                  `json:"status"`
	Price     domainpricing.Breakdown `json:"price"`
}

type RequestBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

// Handle creates a PENDING booking: validate the window, quote the price,
// run the optimistic availability check, then insert with the authoritative
// recheck inside the repository's atomic operation. First writer wins.
func (h *RequestBookingHandler) Handle(ctx context.Context, cmd RequestBookingCommand) (*RequestBookingResult, error) {
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

	listing, err := unit.Listings().ByID(ctx, domainlisting.ListingID(cmd.ListingID))
	if err != nil {
		return nil, err
	}
	if !listing.IsAvailable {
		return nil, domainlisting.ErrNotFound
	}

	window, slot, err := resolveWindow(listing, cmd)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	existing, err := unit.Bookings().ListByListing(ctx, listing.ID)
	if err != nil {
		return nil, err
	}
	// optimistic check; the repository repeats it atomically on insert
	if !domainavailability.CanBook(listing, window, existing) {
		return nil, domainbooking.ErrDateConflict
	}

	price, err := domainpricing.Quote(listing, domainpricing.Window{Range: window, Slot: slot})
	if err != nil {
		return nil, err
	}

	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:        domainbooking.BookingID(cmd.CommandID),
		Listing:   listing,
		RenterID:  cmd.RenterID,
		Range:     window,
		Slot:      slot,
		Price:     price,
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Bookings().CreateExclusive(ctx, b); err != nil {
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
		h.Logger.Info("booking requested", "booking_id", b.ID, "listing_id", b.ListingID, "renter_id", b.RenterID, "total", b.Price.Total)
	}

	return &RequestBookingResult{BookingID: string(b.ID), Status: string(b.Status), Price: b.Price}, nil
}

// resolveWindow normalizes the raw command fields per the listing's price
// unit: hourly listings need a slot from the closed vocabulary, single-date
// service bookings may omit the end date.
func resolveWindow(l *domainlisting.Listing, cmd RequestBookingCommand) (domainrange.DateRange, timeslot.Slot, error) {
	var slot timeslot.Slot
	if l.Unit == domainlisting.UnitHour {
		if cmd.TimeSlot == "" {
			return domainrange.DateRange{}, timeslot.Slot{}, domainbooking.ErrWindowIncomplete
		}
		parsed, err := timeslot.Parse(cmd.TimeSlot)
		if err != nil {
			return domainrange.DateRange{}, timeslot.Slot{}, err
		}
		slot = parsed
	}
	if cmd.Start.IsZero() {
		return domainrange.DateRange{}, timeslot.Slot{}, domainbooking.ErrWindowIncomplete
	}
	end := cmd.End
	if end.IsZero() {
		if !l.IsService && l.Unit != domainlisting.UnitHour {
			return domainrange.DateRange{}, timeslot.Slot{}, domainbooking.ErrWindowIncomplete
		}
		return domainrange.Single(cmd.Start), slot, nil
	}
	window, err := domainrange.New(cmd.Start, end)
	if err != nil {
		return domainrange.DateRange{}, timeslot.Slot{}, err
	}
	return window, slot, nil
}

func (h *RequestBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[RequestBookingCommand, *RequestBookingResult] = (*RequestBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*RequestBookingCommand)(nil)
