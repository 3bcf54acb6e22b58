package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/learnhub/backend/internal/apperrors"
	"github.com/learnhub/backend/internal/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	CreateMany(ctx context.Context, ns []models.Notification) ([]models.Notification, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.Notification, int64, error)
	// MarkRead flips is_read for a notification owned by userID. Ownership is
	// part of the filter so one user cannot read-mark another's records.
	MarkRead(ctx context.Context, userID, notifID primitive.ObjectID, at time.Time) error
	UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type mongoNotificationRepo struct {
	col *mongo.Collection
}

func NewMongoNotificationRepo(db *mongo.Database) NotificationRepository {
	col := db.Collection("notifications")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return &mongoNotificationRepo{col: col}
}

func (r *mongoNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	n.CreatedAt = time.Now().UTC()
	res, err := r.col.InsertOne(ctx, n)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		n.ID = oid
	}
	return nil
}

func (r *mongoNotificationRepo) CreateMany(ctx context.Context, ns []models.Notification) ([]models.Notification, error) {
	if len(ns) == 0 {
		return ns, nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(ns))
	for i := range ns {
		ns[i].CreatedAt = now
		docs[i] = ns[i]
	}
	res, err := r.col.InsertMany(ctx, docs)
	if err != nil {
		return nil, err
	}
	for i, id := range res.InsertedIDs {
		if oid, ok := id.(primitive.ObjectID); ok && i < len(ns) {
			ns[i].ID = oid
		}
	}
	return ns, nil
}

func (r *mongoNotificationRepo) ListByUser(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.Notification, int64, error) {
	filter := bson.M{"user_id": userID}
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var ns []models.Notification
	if err := cursor.All(ctx, &ns); err != nil {
		return nil, 0, err
	}
	return ns, total, nil
}

func (r *mongoNotificationRepo) MarkRead(ctx context.Context, userID, notifID primitive.ObjectID, at time.Time) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": notifID, "user_id": userID},
		bson.M{"$set": bson.M{"is_read": true, "read_at": at}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *mongoNotificationRepo) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"user_id": userID, "is_read": false})
}
