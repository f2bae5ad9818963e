package booking

import (
	"errors"
	"testing"
	"time"

	"gearshare/internal/domain/listing"
	"gearshare/internal/domain/pricing"
	"gearshare/internal/domain/shared/daterange"
	"gearshare/internal/domain/shared/money"
	"gearshare/internal/domain/timeslot"
)

const (
	ownerID  = "owner-1"
	renterID = "renter-1"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testListing() *listing.Listing {
	return &listing.Listing{
		ID:          "lst-1",
		Owner:       ownerID,
		Title:       "Pressure washer",
		Price:       money.Must(5000, "USD"),
		Unit:        listing.UnitDay,
		IsAvailable: true,
		Deposit:     money.Must(10000, "USD"),
	}
}

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	b, err := NewBooking(CreateParams{
		ID:        "bkg-1",
		Listing:   testListing(),
		RenterID:  renterID,
		Range:     daterange.DateRange{Start: date(2026, 1, 1), End: date(2026, 1, 3)},
		Price:     pricing.Breakdown{Total: money.Must(20500, "USD")},
		CreatedAt: date(2026, 1, 1),
	})
	if err != nil {
		t.Fatalf("NewBooking: %v", err)
	}
	b.ClearEvents()
	return b
}

func TestNewBookingStartsPending(t *testing.T) {
	b := newTestBooking(t)
	if b.Status != StatusPending {
		t.Fatalf("Status = %s, want PENDING", b.Status)
	}
	if b.OwnerID != ownerID {
		t.Fatalf("OwnerID = %s", b.OwnerID)
	}
}

func TestNewBookingRecordsCreatedEvent(t *testing.T) {
	b, err := NewBooking(CreateParams{
		ID:        "bkg-2",
		Listing:   testListing(),
		RenterID:  renterID,
		Range:     daterange.DateRange{Start: date(2026, 1, 1), End: date(2026, 1, 3)},
		CreatedAt: date(2026, 1, 1),
	})
	if err != nil {
		t.Fatalf("NewBooking: %v", err)
	}
	events := b.PendingEvents()
	if len(events) != 1 {
		t.Fatalf("pending events = %d, want 1", len(events))
	}
	created, ok := events[0].(BookingCreated)
	if !ok {
		t.Fatalf("event type %T", events[0])
	}
	if created.TargetUserID() != ownerID {
		t.Fatalf("created event targets %s, want owner", created.TargetUserID())
	}
}

func TestNewBookingRejectsOwnListing(t *testing.T) {
	_, err := NewBooking(CreateParams{
		ID:       "bkg-3",
		Listing:  testListing(),
		RenterID: ownerID,
		Range:    daterange.DateRange{Start: date(2026, 1, 1), End: date(2026, 1, 3)},
	})
	if !errors.Is(err, ErrOwnBooking) {
		t.Fatalf("expected ErrOwnBooking, got %v", err)
	}
}

func TestNewBookingHourlyNeedsSlot(t *testing.T) {
	l := testListing()
	l.Unit = listing.UnitHour
	_, err := NewBooking(CreateParams{
		ID:       "bkg-4",
		Listing:  l,
		RenterID: renterID,
		Range:    daterange.Single(date(2026, 1, 1)),
	})
	if !errors.Is(err, ErrWindowIncomplete) {
		t.Fatalf("expected ErrWindowIncomplete, got %v", err)
	}

	slot, _ := timeslot.Parse("2 hours")
	if _, err := NewBooking(CreateParams{
		ID:       "bkg-5",
		Listing:  l,
		RenterID: renterID,
		Range:    daterange.Single(date(2026, 1, 1)),
		Slot:     slot,
	}); err != nil {
		t.Fatalf("NewBooking with slot: %v", err)
	}
}

func TestConfirmIsOwnerOnly(t *testing.T) {
	b := newTestBooking(t)
	if err := b.Confirm(renterID, date(2026, 1, 2)); !errors.Is(err, ErrActorNotAllowed) {
		t.Fatalf("renter confirm = %v, want ErrActorNotAllowed", err)
	}
	if err := b.Confirm(ownerID, date(2026, 1, 2)); err != nil {
		t.Fatalf("owner confirm: %v", err)
	}
	if b.Status != StatusConfirmed {
		t.Fatalf("Status = %s, want CONFIRMED", b.Status)
	}
}

func TestRejectIsOwnerOnlyAndTerminal(t *testing.T) {
	b := newTestBooking(t)
	if err := b.Reject(renterID, date(2026, 1, 2)); !errors.Is(err, ErrActorNotAllowed) {
		t.Fatalf("renter reject = %v, want ErrActorNotAllowed", err)
	}
	if err := b.Reject(ownerID, date(2026, 1, 2)); err != nil {
		t.Fatalf("owner reject: %v", err)
	}
	if err := b.Confirm(ownerID, date(2026, 1, 2)); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("confirm after reject = %v, want ErrInvalidTransition", err)
	}
}

func TestCancelByEitherParty(t *testing.T) {
	for _, actor := range []string{ownerID, renterID} {
		b := newTestBooking(t)
		if err := b.Cancel(actor, date(2026, 1, 2)); err != nil {
			t.Fatalf("cancel by %s: %v", actor, err)
		}
		if b.Status != StatusCancelled {
			t.Fatalf("Status = %s, want CANCELLED", b.Status)
		}
	}

	b := newTestBooking(t)
	if err := b.Cancel("stranger", date(2026, 1, 2)); !errors.Is(err, ErrActorNotAllowed) {
		t.Fatalf("stranger cancel = %v, want ErrActorNotAllowed", err)
	}
}

func TestCancelConfirmedBooking(t *testing.T) {
	b := newTestBooking(t)
	if err := b.Confirm(ownerID, date(2026, 1, 2)); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if err := b.Cancel(renterID, date(2026, 1, 2)); err != nil {
		t.Fatalf("cancel confirmed: %v", err)
	}
}

func TestCompleteRequiresConfirmed(t *testing.T) {
	b := newTestBooking(t)
	if err := b.Complete(date(2026, 1, 4)); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("complete pending = %v, want ErrInvalidTransition", err)
	}
	if err := b.Confirm(ownerID, date(2026, 1, 2)); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if err := b.Complete(date(2026, 1, 4)); err != nil {
		t.Fatalf("complete confirmed: %v", err)
	}
	if b.Status != StatusCompleted {
		t.Fatalf("Status = %s, want COMPLETED", b.Status)
	}
}

func TestTerminalStatesStayTerminal(t *testing.T) {
	terminal := []func(*testing.T) *Booking{
		func(t *testing.T) *Booking {
			b := newTestBooking(t)
			_ = b.Reject(ownerID, date(2026, 1, 2))
			return b
		},
		func(t *testing.T) *Booking {
			b := newTestBooking(t)
			_ = b.Cancel(renterID, date(2026, 1, 2))
			return b
		},
		func(t *testing.T) *Booking {
			b := newTestBooking(t)
			_ = b.Confirm(ownerID, date(2026, 1, 2))
			_ = b.Complete(date(2026, 1, 4))
			return b
		},
	}
	for _, build := range terminal {
		b := build(t)
		if !b.Status.Terminal() {
			t.Fatalf("%s should be terminal", b.Status)
		}
		if err := b.Confirm(ownerID, date(2026, 1, 5)); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("confirm from %s = %v", b.Status, err)
		}
		if err := b.Cancel(renterID, date(2026, 1, 5)); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("cancel from %s = %v", b.Status, err)
		}
		if err := b.Complete(date(2026, 1, 5)); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("complete from %s = %v", b.Status, err)
		}
	}
}

func TestStatusChangeTargetsOtherParty(t *testing.T) {
	b := newTestBooking(t)
	if err := b.Confirm(ownerID, date(2026, 1, 2)); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	events := b.PendingEvents()
	if len(events) != 1 {
		t.Fatalf("pending events = %d, want 1", len(events))
	}
	changed := events[0].(BookingStatusChanged)
	if changed.TargetUserID() != renterID {
		t.Fatalf("confirm targets %s, want renter", changed.TargetUserID())
	}

	b2 := newTestBooking(t)
	if err := b2.Cancel(renterID, date(2026, 1, 2)); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	changed = b2.PendingEvents()[0].(BookingStatusChanged)
	if changed.TargetUserID() != ownerID {
		t.Fatalf("renter cancel targets %s, want owner", changed.TargetUserID())
	}
}
