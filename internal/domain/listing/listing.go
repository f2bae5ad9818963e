package listing

import (
	"context"
	"errors"
	"time"

	"gearshare/internal/domain/shared/daterange"
	"gearshare/internal/domain/shared/money"
)

var (
	ErrNotFound    = errors.New("listing: not found")
	ErrUnavailable = errors.New("listing: not available for booking")
)

type ListingID string
type OwnerID string

// PriceUnit selects the pricing rule applied to a booking window.
type PriceUnit string

const (
	UnitHour    PriceUnit = "hour"
	UnitDay     PriceUnit = "day"
	UnitWeek    PriceUnit = "week"
	UnitMonth   PriceUnit = "month"
	UnitEvent   PriceUnit = "event"
	UnitSession PriceUnit = "session"
)

func (u PriceUnit) Valid() bool {
	switch u {
	case UnitHour, UnitDay, UnitWeek, UnitMonth, UnitEvent, UnitSession:
		return true
	}
	return false
}

// Listing is the engine's read-only snapshot of an item or service offer.
// It is owned and mutated elsewhere; the engine reads one immutable copy
// per request.
type Listing struct {
	ID           ListingID
	Owner        OwnerID
	Title        string
	Price        money.Money
	Unit         PriceUnit
	IsService    bool
	IsAvailable  bool
	Deposit      money.Money
	BlockedDates []daterange.DateRange
	CreatedAt    time.Time
}

// DepositDue returns the security deposit charged at booking time.
// Services never carry a deposit.
func (l *Listing) DepositDue() money.Money {
	if l.IsService {
		return money.Zero(l.Price.Currency)
	}
	return l.Deposit
}

// Blocked reports whether any owner-blocked date intersects the window.
func (l *Listing) Blocked(window daterange.DateRange) bool {
	for _, blocked := range l.BlockedDates {
		if blocked.Overlaps(window) {
			return true
		}
	}
	return false
}

// Reader is the catalog port the engine consumes. The backing store is an
// external collaborator.
type Reader interface {
	ByID(ctx context.Context, id ListingID) (*Listing, error)
}
