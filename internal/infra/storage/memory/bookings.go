package memory

import (
	"context"
	"sync"
	"time"

	domainavailability "gearshare/internal/domain/availability"
	domainbooking "gearshare/internal/domain/booking"
	domainlisting "gearshare/internal/domain/listing"
)

// BookingRepository keeps bookings under a single mutex so the availability
// recheck and the insert form one atomic unit, the serializable-transaction
// equivalent the engine requires for the contended (listing, date-range)
// space.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	return clone(b), nil
}

func (r *BookingRepository) ListByListing(ctx context.Context, id domainlisting.ListingID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if b.ListingID == id {
			out = append(out, clone(b))
		}
	}
	return out, nil
}

func (r *BookingRepository) ListByRenter(ctx context.Context, renterID string) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if b.RenterID == renterID {
			out = append(out, clone(b))
		}
	}
	return out, nil
}

func (r *BookingRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if b.OwnerID == ownerID {
			out = append(out, clone(b))
		}
	}
	return out, nil
}

func (r *BookingRepository) ConfirmedEndedBefore(ctx context.Context, cutoff time.Time) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if b.Status == domainbooking.StatusConfirmed && b.Range.End.Before(cutoff) {
			out = append(out, clone(b))
		}
	}
	return out, nil
}

// CreateExclusive inserts the booking after re-running the overlap check
// under the write lock. Two concurrent creates on overlapping windows
// serialize here; the second returns ErrDateConflict.
func (r *BookingRepository) CreateExclusive(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	active := make([]*domainbooking.Booking, 0, len(r.items))
	for _, existing := range r.items {
		active = append(active, existing)
	}
	if domainavailability.Conflicts(b.ListingID, b.Range, active) {
		return domainbooking.ErrDateConflict
	}
	stored := clone(b)
	stored.Version = 1
	r.items[b.ID] = stored
	b.Version = stored.Version
	return nil
}

// Save applies a status change conditionally on the version the caller read.
func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.items[b.ID]
	if !ok {
		return domainbooking.ErrNotFound
	}
	if current.Version != b.Version {
		return domainbooking.ErrConcurrentUpdate
	}
	stored := clone(b)
	stored.Version = b.Version + 1
	r.items[b.ID] = stored
	b.Version = stored.Version
	return nil
}

func clone(b *domainbooking.Booking) *domainbooking.Booking {
	copied := *b
	copied.ClearEvents()
	return &copied
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
