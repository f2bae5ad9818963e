package booking

import (
	"time"

	"gearshare/internal/domain/listing"
	"gearshare/internal/domain/shared/daterange"
	"gearshare/internal/domain/shared/money"
)

type BookingCreated struct {
	BookingID BookingID           `json:"booking_id"`
	ListingID listing.ListingID   `json:"listing_id"`
	RenterID  string              `json:"renter_id"`
	OwnerID   string              `json:"owner_id"`
	Range     daterange.DateRange `json:"range"`
	Total     money.Money         `json:"total"`
	At        time.Time           `json:"at"`
}

func (e BookingCreated) EventName() string     { return "booking.created" }
func (e BookingCreated) AggregateID() string   { return string(e.BookingID) }
func (e BookingCreated) OccurredAt() time.Time { return e.At }
func (e BookingCreated) TargetUserID() string  { return e.OwnerID }

type BookingStatusChanged struct {
	BookingID  BookingID         `json:"booking_id"`
	ListingID  listing.ListingID `json:"listing_id"`
	OtherParty string            `json:"other_party_id"`
	NewStatus  Status            `json:"new_status"`
	At         time.Time         `json:"at"`
}

func (e BookingStatusChanged) EventName() string     { return "booking.status_changed" }
func (e BookingStatusChanged) AggregateID() string   { return string(e.BookingID) }
func (e BookingStatusChanged) OccurredAt() time.Time { return e.At }
func (e BookingStatusChanged) TargetUserID() string  { return e.OtherParty }
