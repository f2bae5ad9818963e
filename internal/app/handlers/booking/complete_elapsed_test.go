package booking

import (
	"context"
	"testing"
)

func TestCompleteElapsedMovesConfirmedBookings(t *testing.T) {
	f, update, bookingID := newStatusFixture(t)
	ctx := context.Background()

	if _, err := update.Handle(ctx, UpdateBookingStatusCommand{
		BookingID: bookingID,
		ActorID:   "owner-1",
		NewStatus: "CONFIRMED",
	}); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	complete := &CompleteElapsedHandler{
		UoWFactory: f.handler.UoWFactory,
		Outbox:     f.outbox,
	}

	// cutoff before the window's end leaves the booking alone
	res, err := complete.Handle(ctx, CompleteElapsedCommand{Cutoff: date(2026, 1, 11)})
	if err != nil {
		t.Fatalf("early sweep: %v", err)
	}
	if res.Completed != 0 {
		t.Fatalf("early sweep completed %d, want 0", res.Completed)
	}

	res, err = complete.Handle(ctx, CompleteElapsedCommand{Cutoff: date(2026, 2, 1)})
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Completed != 1 {
		t.Fatalf("sweep completed %d, want 1", res.Completed)
	}

	// repeat runs find nothing to do
	res, err = complete.Handle(ctx, CompleteElapsedCommand{Cutoff: date(2026, 2, 1)})
	if err != nil {
		t.Fatalf("repeat sweep: %v", err)
	}
	if res.Completed != 0 {
		t.Fatalf("repeat sweep completed %d, want 0", res.Completed)
	}
}

func TestCompleteElapsedSkipsPending(t *testing.T) {
	f, _, _ := newStatusFixture(t)

	complete := &CompleteElapsedHandler{
		UoWFactory: f.handler.UoWFactory,
		Outbox:     f.outbox,
	}
	res, err := complete.Handle(context.Background(), CompleteElapsedCommand{Cutoff: date(2026, 2, 1)})
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Completed != 0 {
		t.Fatalf("pending booking completed, want 0 (got %d)", res.Completed)
	}
}
