package review

import (
	"time"

	"gearshare/internal/domain/booking"
	"gearshare/internal/domain/listing"
)

type ReviewReceived struct {
	ReviewID   ReviewID          `json:"review_id"`
	BookingID  booking.BookingID `json:"booking_id"`
	ListingID  listing.ListingID `json:"listing_id"`
	RevieweeID string            `json:"reviewee_id"`
	Rating     int               `json:"rating"`
	At         time.Time         `json:"at"`
}

func (e ReviewReceived) EventName() string     { return "review.received" }
func (e ReviewReceived) AggregateID() string   { return string(e.ReviewID) }
func (e ReviewReceived) OccurredAt() time.Time { return e.At }
func (e ReviewReceived) TargetUserID() string  { return e.RevieweeID }
