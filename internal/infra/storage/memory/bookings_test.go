package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domainbooking "gearshare/internal/domain/booking"
	"gearshare/internal/domain/shared/daterange"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func window(startDay, endDay int) daterange.DateRange {
	return daterange.DateRange{Start: date(2026, 1, startDay), End: date(2026, 1, endDay)}
}

func pendingBooking(id string, r daterange.DateRange) *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:        domainbooking.BookingID(id),
		ListingID: "lst-1",
		RenterID:  "renter-" + id,
		OwnerID:   "owner-1",
		Range:     r,
		Status:    domainbooking.StatusPending,
		CreatedAt: date(2026, 1, 1),
	}
}

func TestCreateExclusiveRejectsOverlap(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	if err := repo.CreateExclusive(ctx, pendingBooking("bkg-1", window(10, 12))); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := repo.CreateExclusive(ctx, pendingBooking("bkg-2", window(11, 13)))
	if !errors.Is(err, domainbooking.ErrDateConflict) {
		t.Fatalf("overlapping create = %v, want ErrDateConflict", err)
	}
	if err := repo.CreateExclusive(ctx, pendingBooking("bkg-3", window(12, 14))); err != nil {
		t.Fatalf("back-to-back create: %v", err)
	}
}

func TestCreateExclusiveConcurrentRace(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b := pendingBooking(string(rune('a'+i)), window(10, 12))
			errs[i] = repo.CreateExclusive(ctx, b)
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, domainbooking.ErrDateConflict):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if won != 1 {
		t.Fatalf("winners = %d, want exactly 1", won)
	}
}

func TestCreateExclusiveIgnoresTerminalBookings(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	cancelled := pendingBooking("bkg-1", window(10, 12))
	cancelled.Status = domainbooking.StatusCancelled
	if err := repo.CreateExclusive(ctx, cancelled); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := repo.CreateExclusive(ctx, pendingBooking("bkg-2", window(10, 12))); err != nil {
		t.Fatalf("cancelled bookings must release their dates: %v", err)
	}
}

func TestSaveVersionConditional(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	b := pendingBooking("bkg-1", window(10, 12))
	if err := repo.CreateExclusive(ctx, b); err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.Version != 1 {
		t.Fatalf("Version after create = %d, want 1", b.Version)
	}

	first, err := repo.ByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	second, err := repo.ByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}

	first.Status = domainbooking.StatusConfirmed
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if first.Version != 2 {
		t.Fatalf("Version after save = %d, want 2", first.Version)
	}

	second.Status = domainbooking.StatusRejected
	if err := repo.Save(ctx, second); !errors.Is(err, domainbooking.ErrConcurrentUpdate) {
		t.Fatalf("stale save = %v, want ErrConcurrentUpdate", err)
	}
}

func TestConfirmedEndedBefore(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	past := pendingBooking("bkg-1", window(1, 3))
	past.Status = domainbooking.StatusConfirmed
	future := pendingBooking("bkg-2", window(20, 22))
	future.Status = domainbooking.StatusConfirmed
	pending := pendingBooking("bkg-3", window(4, 6))

	for _, b := range []*domainbooking.Booking{past, future, pending} {
		if err := repo.CreateExclusive(ctx, b); err != nil {
			t.Fatalf("seed %s: %v", b.ID, err)
		}
	}

	elapsed, err := repo.ConfirmedEndedBefore(ctx, date(2026, 1, 10))
	if err != nil {
		t.Fatalf("ConfirmedEndedBefore: %v", err)
	}
	if len(elapsed) != 1 || elapsed[0].ID != "bkg-1" {
		t.Fatalf("elapsed = %v, want only bkg-1", elapsed)
	}
}
