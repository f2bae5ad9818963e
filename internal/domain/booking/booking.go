package booking

import (
	"context"
	"errors"
	"time"

	"gearshare/internal/domain/listing"
	"gearshare/internal/domain/pricing"
	"gearshare/internal/domain/shared/daterange"
	"gearshare/internal/domain/shared/events"
	"gearshare/internal/domain/timeslot"
)

var (
	ErrNotFound          = errors.New("booking: not found")
	ErrOwnBooking        = errors.New("booking: owners cannot book their own listing")
	ErrWindowIncomplete  = errors.New("booking: window missing required fields")
	ErrDateConflict      = errors.New("booking: dates conflict with an existing booking")
	ErrInvalidTransition = errors.New("booking: status transition not allowed")
	ErrActorNotAllowed   = errors.New("booking: actor not permitted for this transition")
	ErrConcurrentUpdate  = errors.New("booking: concurrent update detected")
)

type BookingID string

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

// Terminal reports whether no further transition may leave the status.
func (s Status) Terminal() bool {
	switch s {
	case StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Active statuses hold the listing's dates against other renters.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

type Booking struct {
	ID        BookingID
	ListingID listing.ListingID
	RenterID  string
	OwnerID   string
	Range     daterange.DateRange
	Slot      timeslot.Slot
	Price     pricing.Breakdown
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	ListByListing(ctx context.Context, id listing.ListingID) ([]*Booking, error)
	ListByRenter(ctx context.Context, renterID string) ([]*Booking, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Booking, error)
	// ConfirmedEndedBefore returns confirmed bookings whose window ended
	// before the cutoff; used by the completion sweep.
	ConfirmedEndedBefore(ctx context.Context, cutoff time.Time) ([]*Booking, error)
	// CreateExclusive inserts the booking and re-checks date overlap against
	// active bookings of the same listing as one atomic operation. Returns
	// ErrDateConflict when another active booking holds an overlapping range.
	CreateExclusive(ctx context.Context, b *Booking) error
	// Save persists a status change conditionally on Version; a lost race
	// returns ErrConcurrentUpdate.
	Save(ctx context.Context, b *Booking) error
}

type CreateParams struct {
	ID        BookingID
	Listing   *listing.Listing
	RenterID  string
	Range     daterange.DateRange
	Slot      timeslot.Slot
	Price     pricing.Breakdown
	CreatedAt time.Time
}

// NewBooking builds a PENDING booking with the price snapshot frozen in.
// The price is never recomputed, even if the listing rate later changes.
func NewBooking(params CreateParams) (*Booking, error) {
	l := params.Listing
	if l == nil {
		return nil, listing.ErrNotFound
	}
	if params.RenterID == "" {
		return nil, errors.New("booking: renter id required")
	}
	if params.RenterID == string(l.Owner) {
		return nil, ErrOwnBooking
	}
	if err := ValidateWindow(l, params.Range, params.Slot); err != nil {
		return nil, err
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:        params.ID,
		ListingID: l.ID,
		RenterID:  params.RenterID,
		OwnerID:   string(l.Owner),
		Range:     params.Range,
		Slot:      params.Slot,
		Price:     params.Price,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.Record(BookingCreated{
		BookingID: b.ID,
		ListingID: b.ListingID,
		RenterID:  b.RenterID,
		OwnerID:   b.OwnerID,
		Range:     b.Range,
		Total:     b.Price.Total,
		At:        now,
	})
	return b, nil
}

// ValidateWindow ensures the window carries every field the listing's price
// unit requires: hourly listings need a slot, everything else needs dates.
func ValidateWindow(l *listing.Listing, r daterange.DateRange, slot timeslot.Slot) error {
	if l.Unit == listing.UnitHour && slot.IsZero() {
		return ErrWindowIncomplete
	}
	if r.IsZero() {
		return ErrWindowIncomplete
	}
	return r.Validate()
}

// Confirm moves PENDING to CONFIRMED. Owner only.
func (b *Booking) Confirm(actorID string, now time.Time) error {
	if actorID != b.OwnerID {
		return ErrActorNotAllowed
	}
	if b.Status != StatusPending {
		return ErrInvalidTransition
	}
	b.transition(StatusConfirmed, b.RenterID, now)
	return nil
}

// Reject moves PENDING to REJECTED. Owner only.
func (b *Booking) Reject(actorID string, now time.Time) error {
	if actorID != b.OwnerID {
		return ErrActorNotAllowed
	}
	if b.Status != StatusPending {
		return ErrInvalidTransition
	}
	b.transition(StatusRejected, b.RenterID, now)
	return nil
}

// Cancel moves PENDING or CONFIRMED to CANCELLED. Either party may cancel.
// Cancellation is a status, never a deletion.
func (b *Booking) Cancel(actorID string, now time.Time) error {
	if actorID != b.OwnerID && actorID != b.RenterID {
		return ErrActorNotAllowed
	}
	if b.Status != StatusPending && b.Status != StatusConfirmed {
		return ErrInvalidTransition
	}
	b.transition(StatusCancelled, b.OtherParty(actorID), now)
	return nil
}

// Complete moves CONFIRMED to COMPLETED. System-only: the scheduled sweep
// calls this after the window has elapsed, no user-facing path exists.
func (b *Booking) Complete(now time.Time) error {
	if b.Status != StatusConfirmed {
		return ErrInvalidTransition
	}
	b.transition(StatusCompleted, b.RenterID, now)
	return nil
}

// OtherParty returns the counterpart of the given participant, the one a
// status-change notification is addressed to.
func (b *Booking) OtherParty(actorID string) string {
	if actorID == b.OwnerID {
		return b.RenterID
	}
	return b.OwnerID
}

func (b *Booking) transition(to Status, notify string, now time.Time) {
	b.Status = to
	b.UpdatedAt = now.UTC()
	b.Record(BookingStatusChanged{
		BookingID:  b.ID,
		ListingID:  b.ListingID,
		OtherParty: notify,
		NewStatus:  to,
		At:         b.UpdatedAt,
	})
}
