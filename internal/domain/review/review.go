package review

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"gearshare/internal/domain/booking"
	"gearshare/internal/domain/listing"
	"gearshare/internal/domain/shared/events"
)

var (
	ErrInvalidRating  = errors.New("review: rating must be between 1 and 5")
	ErrCommentTooLong = errors.New("review: comment exceeds 1000 characters")
	ErrDuplicate      = errors.New("review: review already exists for this booking and reviewer")
	ErrNotFound       = errors.New("review: not found")
	ErrNotEligible    = errors.New("review: booking not eligible for review")
)

const maxCommentLength = 1000

type ReviewID string

// Review is immutable once created; there is no update path.
type Review struct {
	ID         ReviewID
	BookingID  booking.BookingID
	ListingID  listing.ListingID
	ReviewerID string
	RevieweeID string
	Rating     int
	Comment    string
	CreatedAt  time.Time
	events.EventRecorder
}

type Repository interface {
	ByBookingAndReviewer(ctx context.Context, bookingID booking.BookingID, reviewerID string) (*Review, error)
	ListByListing(ctx context.Context, listingID listing.ListingID, limit, offset int) ([]*Review, error)
	// Save enforces the (booking, reviewer) uniqueness constraint and maps
	// a violation to ErrDuplicate.
	Save(ctx context.Context, r *Review) error
}

// CanReview gates review submission: only the renter of a COMPLETED booking
// who has not reviewed it yet.
func CanReview(userID string, b *booking.Booking, alreadyReviewed bool) bool {
	if b == nil || b.Status != booking.StatusCompleted {
		return false
	}
	if userID != b.RenterID {
		return false
	}
	return !alreadyReviewed
}

type SubmitParams struct {
	ID        ReviewID
	Booking   *booking.Booking
	Reviewer  string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// Submit validates the rating and comment and builds the review addressed
// to the booking's other party.
func Submit(params SubmitParams) (*Review, error) {
	if params.Rating < 1 || params.Rating > 5 {
		return nil, ErrInvalidRating
	}
	comment := strings.TrimSpace(params.Comment)
	// the cap counts characters, not bytes
	if utf8.RuneCountInString(comment) > maxCommentLength {
		return nil, ErrCommentTooLong
	}
	b := params.Booking
	r := &Review{
		ID:         params.ID,
		BookingID:  b.ID,
		ListingID:  b.ListingID,
		ReviewerID: params.Reviewer,
		RevieweeID: b.OtherParty(params.Reviewer),
		Rating:     params.Rating,
		Comment:    comment,
		CreatedAt:  params.CreatedAt.UTC(),
	}
	r.Record(ReviewReceived{
		ReviewID:   r.ID,
		BookingID:  r.BookingID,
		ListingID:  r.ListingID,
		RevieweeID: r.RevieweeID,
		Rating:     r.Rating,
		At:         r.CreatedAt,
	})
	return r, nil
}
