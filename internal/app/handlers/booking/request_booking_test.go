package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	domainbooking "gearshare/internal/domain/booking"
	domainlisting "gearshare/internal/domain/listing"
	"gearshare/internal/domain/shared/money"
	"gearshare/internal/domain/timeslot"
	"gearshare/internal/infra/storage/memory"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	catalog *memory.ListingCatalog
	outbox  *memory.OutboxStore
	handler *RequestBookingHandler
}

func newFixture() fixture {
	catalog := memory.NewListingCatalog()
	outboxStore := memory.NewOutboxStore()
	factory := memory.Factory{
		Catalog:          catalog,
		BookingRepo:      memory.NewBookingRepository(),
		ReviewRepo:       memory.NewReviewRepository(),
		NotificationRepo: memory.NewNotificationRepository(),
	}
	return fixture{
		catalog: catalog,
		outbox:  outboxStore,
		handler: &RequestBookingHandler{UoWFactory: factory, Outbox: outboxStore},
	}
}

func (f fixture) addDailyListing(id, owner string) {
	f.catalog.Put(domainlisting.Listing{
		ID:          domainlisting.ListingID(id),
		Owner:       domainlisting.OwnerID(owner),
		Title:       "Table saw",
		Price:       money.Must(5000, "USD"),
		Unit:        domainlisting.UnitDay,
		IsAvailable: true,
		Deposit:     money.Must(10000, "USD"),
	})
}

func (f fixture) addHourlyService(id, owner string) {
	f.catalog.Put(domainlisting.Listing{
		ID:          domainlisting.ListingID(id),
		Owner:       domainlisting.OwnerID(owner),
		Title:       "Photography session",
		Price:       money.Must(2000, "USD"),
		Unit:        domainlisting.UnitHour,
		IsService:   true,
		IsAvailable: true,
	})
}

func TestRequestBookingCreatesPending(t *testing.T) {
	f := newFixture()
	f.addDailyListing("lst-1", "owner-1")

	res, err := f.handler.Handle(context.Background(), RequestBookingCommand{
		CommandID: "bkg-1",
		ListingID: "lst-1",
		RenterID:  "renter-1",
		Start:     date(2026, 1, 1),
		End:       date(2026, 1, 3),
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if res.Status != string(domainbooking.StatusPending) {
		t.Fatalf("Status = %s, want PENDING", res.Status)
	}
	if res.Price.Total.Amount != 20500 {
		t.Fatalf("Total = %d, want 20500", res.Price.Total.Amount)
	}

	doc, err := f.outbox.Claim(context.Background(), "test-worker")
	if err != nil || doc == nil {
		t.Fatalf("expected outbox record, got %v, %v", doc, err)
	}
	if doc.Name != "booking.created" {
		t.Fatalf("event name = %s", doc.Name)
	}
	if doc.TargetUser != "owner-1" {
		t.Fatalf("event targets %s, want owner", doc.TargetUser)
	}
}

func TestRequestBookingOverlapConflict(t *testing.T) {
	f := newFixture()
	f.addDailyListing("lst-1", "owner-1")
	ctx := context.Background()

	if _, err := f.handler.Handle(ctx, RequestBookingCommand{
		CommandID: "bkg-1",
		ListingID: "lst-1",
		RenterID:  "renter-1",
		Start:     date(2026, 1, 10),
		End:       date(2026, 1, 12),
	}); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	_, err := f.handler.Handle(ctx, RequestBookingCommand{
		CommandID: "bkg-2",
		ListingID: "lst-1",
		RenterID:  "renter-2",
		Start:     date(2026, 1, 11),
		End:       date(2026, 1, 13),
	})
	if !errors.Is(err, domainbooking.ErrDateConflict) {
		t.Fatalf("overlapping booking = %v, want ErrDateConflict", err)
	}

	// back-to-back is fine under half-open windows
	if _, err := f.handler.Handle(ctx, RequestBookingCommand{
		CommandID: "bkg-3",
		ListingID: "lst-1",
		RenterID:  "renter-2",
		Start:     date(2026, 1, 12),
		End:       date(2026, 1, 14),
	}); err != nil {
		t.Fatalf("back-to-back booking: %v", err)
	}
}

func TestRequestBookingOwnListing(t *testing.T) {
	f := newFixture()
	f.addDailyListing("lst-1", "owner-1")

	_, err := f.handler.Handle(context.Background(), RequestBookingCommand{
		CommandID: "bkg-1",
		ListingID: "lst-1",
		RenterID:  "owner-1",
		Start:     date(2026, 1, 1),
		End:       date(2026, 1, 3),
	})
	if !errors.Is(err, domainbooking.ErrOwnBooking) {
		t.Fatalf("own booking = %v, want ErrOwnBooking", err)
	}
}

func TestRequestBookingUnknownListing(t *testing.T) {
	f := newFixture()
	_, err := f.handler.Handle(context.Background(), RequestBookingCommand{
		CommandID: "bkg-1",
		ListingID: "lst-missing",
		RenterID:  "renter-1",
		Start:     date(2026, 1, 1),
		End:       date(2026, 1, 3),
	})
	if !errors.Is(err, domainlisting.ErrNotFound) {
		t.Fatalf("unknown listing = %v, want listing.ErrNotFound", err)
	}
}

func TestRequestBookingHourlyService(t *testing.T) {
	f := newFixture()
	f.addHourlyService("lst-2", "owner-2")

	res, err := f.handler.Handle(context.Background(), RequestBookingCommand{
		CommandID: "bkg-1",
		ListingID: "lst-2",
		RenterID:  "renter-1",
		Start:     date(2026, 1, 5),
		TimeSlot:  "3 hours",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if res.Price.Hours != 3 {
		t.Fatalf("Hours = %d, want 3", res.Price.Hours)
	}
	if res.Price.Total.Amount != 6300 {
		t.Fatalf("Total = %d, want 6300", res.Price.Total.Amount)
	}
	if !res.Price.Deposit.IsZero() {
		t.Fatal("services must not charge a deposit")
	}
}

func TestRequestBookingHourlyRejectsFreeText(t *testing.T) {
	f := newFixture()
	f.addHourlyService("lst-2", "owner-2")

	_, err := f.handler.Handle(context.Background(), RequestBookingCommand{
		CommandID: "bkg-1",
		ListingID: "lst-2",
		RenterID:  "renter-1",
		Start:     date(2026, 1, 5),
		TimeSlot:  "90 minutes",
	})
	if !errors.Is(err, timeslot.ErrUnknownSlot) {
		t.Fatalf("free-text slot = %v, want ErrUnknownSlot", err)
	}
}

func TestRequestBookingHourlyRequiresSlot(t *testing.T) {
	f := newFixture()
	f.addHourlyService("lst-2", "owner-2")

	_, err := f.handler.Handle(context.Background(), RequestBookingCommand{
		CommandID: "bkg-1",
		ListingID: "lst-2",
		RenterID:  "renter-1",
		Start:     date(2026, 1, 5),
	})
	if !errors.Is(err, domainbooking.ErrWindowIncomplete) {
		t.Fatalf("missing slot = %v, want ErrWindowIncomplete", err)
	}
}

func TestRequestBookingMissingEndDateForRental(t *testing.T) {
	f := newFixture()
	f.addDailyListing("lst-1", "owner-1")

	_, err := f.handler.Handle(context.Background(), RequestBookingCommand{
		CommandID: "bkg-1",
		ListingID: "lst-1",
		RenterID:  "renter-1",
		Start:     date(2026, 1, 1),
	})
	if !errors.Is(err, domainbooking.ErrWindowIncomplete) {
		t.Fatalf("missing end date = %v, want ErrWindowIncomplete", err)
	}
}
