package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "gearshare/internal/domain/booking"
	domainlisting "gearshare/internal/domain/listing"
	domainpricing "gearshare/internal/domain/pricing"
	domainrange "gearshare/internal/domain/shared/daterange"
	"gearshare/internal/domain/timeslot"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	col := db.Collection("agg_booking")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "status", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &BookingRepository{col: col}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BookingRepository) ListByListing(ctx context.Context, id domainlisting.ListingID) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"listing_id": string(id)})
}

func (r *BookingRepository) ListByRenter(ctx context.Context, renterID string) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"renter_id": renterID})
}

func (r *BookingRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"owner_id": ownerID})
}

func (r *BookingRepository) ConfirmedEndedBefore(ctx context.Context, cutoff time.Time) ([]*domainbooking.Booking, error) {
	filter := bson.M{
		"status":    string(domainbooking.StatusConfirmed),
		"range.end": bson.M{"$lt": cutoff.UnixMilli()},
	}
	return r.find(ctx, filter)
}

// CreateExclusive re-checks the overlap against active bookings and inserts
// inside the surrounding session transaction, so two racing renters cannot
// both pass the check.
func (r *BookingRepository) CreateExclusive(ctx context.Context, b *domainbooking.Booking) error {
	conflict := bson.M{
		"listing_id":  string(b.ListingID),
		"status":      bson.M{"$in": []string{string(domainbooking.StatusPending), string(domainbooking.StatusConfirmed)}},
		"range.start": bson.M{"$lt": b.Range.End.UnixMilli()},
		"range.end":   bson.M{"$gt": b.Range.Start.UnixMilli()},
	}
	n, err := r.col.CountDocuments(ctx, conflict)
	if err != nil {
		return err
	}
	if n > 0 {
		return domainbooking.ErrDateConflict
	}
	doc := newBookingDocument(b)
	doc.Version = 1
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainbooking.ErrDateConflict
		}
		return err
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domainbooking.ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) find(ctx context.Context, filter bson.M) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainbooking.Booking
	for cur.Next(ctx) {
		var doc bookingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

type bookingDocument struct {
	ID        string                  `bson:"_id"`
	ListingID string                  `bson:"listing_id"`
	RenterID  string                  `bson:"renter_id"`
	OwnerID   string                  `bson:"owner_id"`
	Range     rangeDocument           `bson:"range"`
	SlotHours int                     `bson:"slot_hours"`
	SlotLabel string                  `bson:"slot_label"`
	Price     domainpricing.Breakdown `bson:"price"`
	Status    string                  `bson:"status"`
	CreatedAt int64                   `bson:"created_at"`
	UpdatedAt int64                   `bson:"updated_at"`
	Version   int64                   `bson:"version"`
}

type rangeDocument struct {
	Start int64 `bson:"start"`
	End   int64 `bson:"end"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:        string(b.ID),
		ListingID: string(b.ListingID),
		RenterID:  b.RenterID,
		OwnerID:   b.OwnerID,
		Range:     rangeDocument{Start: b.Range.Start.UnixMilli(), End: b.Range.End.UnixMilli()},
		SlotHours: b.Slot.Hours,
		SlotLabel: b.Slot.Label,
		Price:     b.Price,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt.UnixMilli(),
		UpdatedAt: b.UpdatedAt.UnixMilli(),
		Version:   b.Version,
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:        domainbooking.BookingID(d.ID),
		ListingID: domainlisting.ListingID(d.ListingID),
		RenterID:  d.RenterID,
		OwnerID:   d.OwnerID,
		Range:     domainrange.DateRange{Start: timestampToTime(d.Range.Start), End: timestampToTime(d.Range.End)},
		Slot:      timeslot.Slot{Hours: d.SlotHours, Label: d.SlotLabel},
		Price:     d.Price,
		Status:    domainbooking.Status(d.Status),
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
		Version:   d.Version,
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
