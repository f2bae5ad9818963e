package memory

import (
	"context"
	"sort"
	"sync"

	domainbooking "gearshare/internal/domain/booking"
	domainlisting "gearshare/internal/domain/listing"
	domainreview "gearshare/internal/domain/review"
)

type reviewKey struct {
	bookingID  domainbooking.BookingID
	reviewerID string
}

// ReviewRepository enforces the one-review-per-(booking, reviewer)
// constraint the way a unique index would.
type ReviewRepository struct {
	mu     sync.RWMutex
	byKey  map[reviewKey]*domainreview.Review
	byItem map[domainlisting.ListingID][]*domainreview.Review
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{
		byKey:  make(map[reviewKey]*domainreview.Review),
		byItem: make(map[domainlisting.ListingID][]*domainreview.Review),
	}
}

func (r *ReviewRepository) ByBookingAndReviewer(ctx context.Context, bookingID domainbooking.BookingID, reviewerID string) (*domainreview.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rev, ok := r.byKey[reviewKey{bookingID: bookingID, reviewerID: reviewerID}]
	if !ok {
		return nil, domainreview.ErrNotFound
	}
	return cloneReview(rev), nil
}

func (r *ReviewRepository) ListByListing(ctx context.Context, listingID domainlisting.ListingID, limit, offset int) ([]*domainreview.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.byItem[listingID]
	sorted := make([]*domainreview.Review, len(all))
	copy(sorted, all)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if offset > len(sorted) {
		offset = len(sorted)
	}
	end := offset + limit
	if limit <= 0 || end > len(sorted) {
		end = len(sorted)
	}
	out := make([]*domainreview.Review, 0, end-offset)
	for _, rev := range sorted[offset:end] {
		out = append(out, cloneReview(rev))
	}
	return out, nil
}

// Save inserts the review; a second review for the same (booking, reviewer)
// pair fails with ErrDuplicate.
func (r *ReviewRepository) Save(ctx context.Context, rev *domainreview.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := reviewKey{bookingID: rev.BookingID, reviewerID: rev.ReviewerID}
	if _, exists := r.byKey[key]; exists {
		return domainreview.ErrDuplicate
	}
	stored := cloneReview(rev)
	r.byKey[key] = stored
	r.byItem[rev.ListingID] = append(r.byItem[rev.ListingID], stored)
	return nil
}

func cloneReview(rev *domainreview.Review) *domainreview.Review {
	copied := *rev
	copied.ClearEvents()
	return &copied
}

var _ domainreview.Repository = (*ReviewRepository)(nil)
