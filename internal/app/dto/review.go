package dto

import (
	"time"

	domainreview "gearshare/internal/domain/review"
)

type Review struct {
	ID         string    `json:"id"`
	BookingID  string    `json:"booking_id"`
	ListingID  string    `json:"item_id"`
	ReviewerID string    `json:"reviewer_id"`
	RevieweeID string    `json:"reviewee_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func MapReview(r *domainreview.Review) Review {
	return Review{
		ID:         string(r.ID),
		BookingID:  string(r.BookingID),
		ListingID:  string(r.ListingID),
		ReviewerID: r.ReviewerID,
		RevieweeID: r.RevieweeID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

type ReviewCollection struct {
	Items []Review `json:"items"`
}
