package memory

import (
	"context"
	"errors"

	"gearshare/internal/app/uow"
	domainbooking "gearshare/internal/domain/booking"
	domainlisting "gearshare/internal/domain/listing"
	domainnotification "gearshare/internal/domain/notification"
	domainreview "gearshare/internal/domain/review"
)

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	Catalog          domainlisting.Reader
	BookingRepo      domainbooking.Repository
	ReviewRepo       domainreview.Repository
	NotificationRepo domainnotification.Repository
}

// Begin starts a lightweight transaction boundary. Isolation comes from the
// repositories' own locking; the abstraction matches the application ports.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.Catalog == nil || f.BookingRepo == nil || f.ReviewRepo == nil || f.NotificationRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		catalog:       f.Catalog,
		bookings:      f.BookingRepo,
		reviews:       f.ReviewRepo,
		notifications: f.NotificationRepo,
	}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	catalog       domainlisting.Reader
	bookings      domainbooking.Repository
	reviews       domainreview.Repository
	notifications domainnotification.Repository
}

func (u *Unit) Listings() domainlisting.Reader {
	return u.catalog
}

func (u *Unit) Bookings() domainbooking.Repository {
	return u.bookings
}

func (u *Unit) Reviews() domainreview.Repository {
	return u.reviews
}

func (u *Unit) Notifications() domainnotification.Repository {
	return u.notifications
}

func (u *Unit) Commit(ctx context.Context) error {
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	return nil
}

var _ uow.UoWFactory = Factory{}
