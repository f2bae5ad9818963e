package uow

import (
	"context"

	domainbooking "gearshare/internal/domain/booking"
	domainlisting "gearshare/internal/domain/listing"
	domainnotification "gearshare/internal/domain/notification"
	domainreview "gearshare/internal/domain/review"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Listings() domainlisting.Reader
	Bookings() domainbooking.Repository
	Reviews() domainreview.Repository
	Notifications() domainnotification.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
