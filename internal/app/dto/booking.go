package dto

import (
	"time"

	domainbooking "gearshare/internal/domain/booking"
	domainpricing "gearshare/internal/domain/pricing"
)

type Booking struct {
	ID        string                  `json:"id"`
	ListingID string                  `json:"item_id"`
	RenterID  string                  `json:"renter_id"`
	OwnerID   string                  `json:"owner_id"`
	StartDate time.Time               `json:"start_date"`
	EndDate   time.Time               `json:"end_date"`
	TimeSlot  string                  `json:"time_slot,omitempty"`
	Status    string                  `json:"status"`
	Price     domainpricing.Breakdown `json:"price"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

func MapBooking(b *domainbooking.Booking) Booking {
	return Booking{
		ID:        string(b.ID),
		ListingID: string(b.ListingID),
		RenterID:  b.RenterID,
		OwnerID:   b.OwnerID,
		StartDate: b.Range.Start,
		EndDate:   b.Range.End,
		TimeSlot:  b.Slot.Label,
		Status:    string(b.Status),
		Price:     b.Price,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

type BookingCollection struct {
	Items []Booking `json:"items"`
}
