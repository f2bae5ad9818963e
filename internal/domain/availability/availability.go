package availability

import (
	"gearshare/internal/domain/booking"
	"gearshare/internal/domain/listing"
	"gearshare/internal/domain/shared/daterange"
)

// CanBook checks a requested window against a snapshot of the listing and
// its booking history. False when the listing is switched off, the owner
// blocked a covered date, or an active booking overlaps the window
// (half-open interval test).
//
// This check is informational at form-render time; the binding recheck runs
// inside the repository's exclusive insert. First writer wins.
func CanBook(l *listing.Listing, window daterange.DateRange, existing []*booking.Booking) bool {
	if l == nil || !l.IsAvailable {
		return false
	}
	if l.Blocked(window) {
		return false
	}
	return !Conflicts(l.ID, window, existing)
}

// Conflicts reports whether any PENDING or CONFIRMED booking of the listing
// overlaps the window. Terminal bookings release their dates.
func Conflicts(id listing.ListingID, window daterange.DateRange, existing []*booking.Booking) bool {
	for _, b := range existing {
		if b.ListingID != id {
			continue
		}
		if !b.Status.Active() {
			continue
		}
		if b.Range.Overlaps(window) {
			return true
		}
	}
	return false
}
