package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlisting "gearshare/internal/domain/listing"
	domainrange "gearshare/internal/domain/shared/daterange"
	domainmoney "gearshare/internal/domain/shared/money"
)

// ListingRepository is the read side of the catalog. Listings are owned by
// the catalog service; this process only resolves them for quoting.
type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection("agg_listing")}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlisting.ListingID) (*domainlisting.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainlisting.ErrNotFound
		}
		return nil, err
	}
	return doc.toListing(), nil
}

func (r *ListingRepository) Put(ctx context.Context, l *domainlisting.Listing) error {
	doc := newListingDocument(l)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

type listingDocument struct {
	ID           string            `bson:"_id"`
	OwnerID      string            `bson:"owner_id"`
	Title        string            `bson:"title"`
	Price        domainmoney.Money `bson:"price"`
	Unit         string            `bson:"unit"`
	IsService    bool              `bson:"is_service"`
	IsAvailable  bool              `bson:"is_available"`
	Deposit      domainmoney.Money `bson:"deposit"`
	BlockedDates []rangeDocument   `bson:"blocked_dates"`
	CreatedAt    int64             `bson:"created_at"`
}

func newListingDocument(l *domainlisting.Listing) listingDocument {
	blocked := make([]rangeDocument, 0, len(l.BlockedDates))
	for _, b := range l.BlockedDates {
		blocked = append(blocked, rangeDocument{Start: b.Start.UnixMilli(), End: b.End.UnixMilli()})
	}
	return listingDocument{
		ID:           string(l.ID),
		OwnerID:      string(l.Owner),
		Title:        l.Title,
		Price:        l.Price,
		Unit:         string(l.Unit),
		IsService:    l.IsService,
		IsAvailable:  l.IsAvailable,
		Deposit:      l.Deposit,
		BlockedDates: blocked,
		CreatedAt:    l.CreatedAt.UnixMilli(),
	}
}

func (d listingDocument) toListing() *domainlisting.Listing {
	blocked := make([]domainrange.DateRange, 0, len(d.BlockedDates))
	for _, b := range d.BlockedDates {
		blocked = append(blocked, domainrange.DateRange{Start: time.UnixMilli(b.Start).UTC(), End: time.UnixMilli(b.End).UTC()})
	}
	return &domainlisting.Listing{
		ID:           domainlisting.ListingID(d.ID),
		Owner:        domainlisting.OwnerID(d.OwnerID),
		Title:        d.Title,
		Price:        d.Price,
		Unit:         domainlisting.PriceUnit(d.Unit),
		IsService:    d.IsService,
		IsAvailable:  d.IsAvailable,
		Deposit:      d.Deposit,
		BlockedDates: blocked,
		CreatedAt:    time.UnixMilli(d.CreatedAt).UTC(),
	}
}
