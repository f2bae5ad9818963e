package pricing

import (
	"errors"

	"gearshare/internal/domain/listing"
	"gearshare/internal/domain/shared/daterange"
	"gearshare/internal/domain/shared/money"
	"gearshare/internal/domain/timeslot"
)

var (
	ErrTimeSlotRequired = errors.New("pricing: time slot required for hourly listings")
	ErrUnknownPriceUnit = errors.New("pricing: unknown price unit")
)

const serviceFeePercent = 5

// Window is the requested booking interval. Slot is set only for hourly
// listings; Range may be zero when the caller has not picked dates yet.
type Window struct {
	Range daterange.DateRange
	Slot  timeslot.Slot
}

// Breakdown is the price quote frozen onto a booking at creation time.
type Breakdown struct {
	Days       int         `json:"days" bson:"days"`
	Hours      int         `json:"hours" bson:"hours"`
	Subtotal   money.Money `json:"subtotal" bson:"subtotal"`
	ServiceFee money.Money `json:"service_fee" bson:"service_fee"`
	Deposit    money.Money `json:"deposit" bson:"deposit"`
	Total      money.Money `json:"total" bson:"total"`
}

// Quote computes the deterministic price for a listing and window. A zero
// window yields a zero breakdown: the not-yet-priced state the UI renders
// before dates are chosen, not an error.
//
// Duration for non-hourly physical items is ceil((end-start)/24h); a
// Jan 1 - Jan 3 window counts as two days.
func Quote(l *listing.Listing, w Window) (Breakdown, error) {
	if w.Range.IsZero() && w.Slot.IsZero() {
		return Breakdown{}, nil
	}
	if !l.Unit.Valid() {
		return Breakdown{}, ErrUnknownPriceUnit
	}

	var b Breakdown
	switch {
	case l.Unit == listing.UnitHour:
		if w.Slot.IsZero() {
			return Breakdown{}, ErrTimeSlotRequired
		}
		b.Hours = w.Slot.Hours
		b.Subtotal = l.Price.Multiply(int64(w.Slot.Hours))
	case l.IsService:
		// one session regardless of the selected date
		b.Days = 1
		b.Subtotal = l.Price
	default:
		days := w.Range.Days()
		if days < 1 {
			days = 1
		}
		b.Days = days
		b.Subtotal = l.Price.Multiply(int64(days))
	}

	b.ServiceFee = b.Subtotal.Percent(serviceFeePercent)
	b.Deposit = l.DepositDue()

	total, err := b.Subtotal.Add(b.ServiceFee)
	if err != nil {
		return Breakdown{}, err
	}
	if !b.Deposit.IsZero() {
		total, err = total.Add(b.Deposit)
		if err != nil {
			return Breakdown{}, err
		}
	}
	b.Total = total
	return b, nil
}
