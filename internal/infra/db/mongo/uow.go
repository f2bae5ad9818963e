package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gearshare/internal/app/uow"
	domainbooking "gearshare/internal/domain/booking"
	domainlisting "gearshare/internal/domain/listing"
	domainnotification "gearshare/internal/domain/notification"
	domainreview "gearshare/internal/domain/review"
)

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

	Catalog          domainlisting.Reader
	BookingRepo      domainbooking.Repository
	ReviewRepo       domainreview.Repository
	NotificationRepo domainnotification.Repository
}

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		session:       session,
		catalog:       f.Catalog,
		bookings:      f.BookingRepo,
		reviews:       f.ReviewRepo,
		notifications: f.NotificationRepo,
	}, nil
}

type Unit struct {
	session mongo.Session

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
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// BindContext makes the Mongo session visible to repositories downstream,
// so CreateExclusive's recheck and insert share one transaction.
func (u *Unit) BindContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}
