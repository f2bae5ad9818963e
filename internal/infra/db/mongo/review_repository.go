package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "gearshare/internal/domain/booking"
	domainlisting "gearshare/internal/domain/listing"
	domainreview "gearshare/internal/domain/review"
)

type ReviewRepository struct {
	col *mongo.Collection
}

// NewReviewRepository relies on the unique (booking_id, reviewer_id) index
// to enforce one review per booking per reviewer under concurrency.
func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	col := db.Collection("agg_review")
	unique := mongo.IndexModel{
		Keys:    bson.D{{Key: "booking_id", Value: 1}, {Key: "reviewer_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = col.Indexes().CreateOne(context.Background(), unique)
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{Keys: bson.D{{Key: "listing_id", Value: 1}}})
	return &ReviewRepository{col: col}
}

func (r *ReviewRepository) ByBookingAndReviewer(ctx context.Context, bookingID domainbooking.BookingID, reviewerID string) (*domainreview.Review, error) {
	var doc reviewDocument
	filter := bson.M{"booking_id": string(bookingID), "reviewer_id": reviewerID}
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainreview.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ReviewRepository) ListByListing(ctx context.Context, listingID domainlisting.ListingID, limit, offset int) ([]*domainreview.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}
	if offset > 0 {
		opts = opts.SetSkip(int64(offset))
	}
	cur, err := r.col.Find(ctx, bson.M{"listing_id": string(listingID)}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainreview.Review
	for cur.Next(ctx) {
		var doc reviewDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

func (r *ReviewRepository) Save(ctx context.Context, rev *domainreview.Review) error {
	doc := reviewDocument{
		ID:         string(rev.ID),
		BookingID:  string(rev.BookingID),
		ListingID:  string(rev.ListingID),
		ReviewerID: rev.ReviewerID,
		RevieweeID: rev.RevieweeID,
		Rating:     rev.Rating,
		Comment:    rev.Comment,
		CreatedAt:  rev.CreatedAt.UnixMilli(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainreview.ErrDuplicate
		}
		return err
	}
	return nil
}

type reviewDocument struct {
	ID         string `bson:"_id"`
	BookingID  string `bson:"booking_id"`
	ListingID  string `bson:"listing_id"`
	ReviewerID string `bson:"reviewer_id"`
	RevieweeID string `bson:"reviewee_id"`
	Rating     int    `bson:"rating"`
	Comment    string `bson:"comment"`
	CreatedAt  int64  `bson:"created_at"`
}

func (d reviewDocument) toAggregate() *domainreview.Review {
	return &domainreview.Review{
		ID:         domainreview.ReviewID(d.ID),
		BookingID:  domainbooking.BookingID(d.BookingID),
		ListingID:  domainlisting.ListingID(d.ListingID),
		ReviewerID: d.ReviewerID,
		RevieweeID: d.RevieweeID,
		Rating:     d.Rating,
		Comment:    d.Comment,
		CreatedAt:  time.UnixMilli(d.CreatedAt).UTC(),
	}
}
