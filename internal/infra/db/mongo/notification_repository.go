package mongo

import (
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainnotification "gearshare/internal/domain/notification"
)

type NotificationRepository struct {
	col *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	col := db.Collection("app_notifications")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &NotificationRepository{col: col}
}

func (r *NotificationRepository) Append(ctx context.Context, n *domainnotification.Notification) error {
	doc := notificationDocument{
		ID:        string(n.ID),
		UserID:    n.UserID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Payload:   []byte(n.Payload),
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.UnixMilli(),
	}
	_, err := r.col.InsertOne(ctx, doc)
	return err
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*domainnotification.Notification, error) {
	filter := bson.M{"user_id": userID}
	if unreadOnly {
		filter["is_read"] = false
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainnotification.Notification
	for cur.Next(ctx) {
		var doc notificationDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toNotification())
	}
	return out, cur.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id domainnotification.NotificationID, userID string) error {
	filter := bson.M{"_id": string(id), "user_id": userID}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domainnotification.ErrNotFound
	}
	return nil
}

type notificationDocument struct {
	ID        string `bson:"_id"`
	UserID    string `bson:"user_id"`
	Type      string `bson:"type"`
	Title     string `bson:"title"`
	Message   string `bson:"message"`
	Payload   []byte `bson:"payload"`
	IsRead    bool   `bson:"is_read"`
	CreatedAt int64  `bson:"created_at"`
}

func (d notificationDocument) toNotification() *domainnotification.Notification {
	return &domainnotification.Notification{
		ID:        domainnotification.NotificationID(d.ID),
		UserID:    d.UserID,
		Type:      domainnotification.Type(d.Type),
		Title:     d.Title,
		Message:   d.Message,
		Payload:   json.RawMessage(d.Payload),
		IsRead:    d.IsRead,
		CreatedAt: time.UnixMilli(d.CreatedAt).UTC(),
	}
}
