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

type ReviewRepository interface {
	Create(ctx context.Context, rv *models.Review) error
	ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]models.Review, error)
	AverageRating(ctx context.Context, courseID primitive.ObjectID) (float64, int64, error)
}

type mongoReviewRepo struct {
	col *mongo.Collection
}

func NewMongoReviewRepo(db *mongo.Database) ReviewRepository {
	col := db.Collection("reviews")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "course_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &mongoReviewRepo{col: col}
}

func (r *mongoReviewRepo) Create(ctx context.Context, rv *models.Review) error {
	now := time.Now().UTC()
	rv.CreatedAt = now
	rv.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, rv)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrAlreadyReviewed
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		rv.ID = oid
	}
	return nil
}

func (r *mongoReviewRepo) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]models.Review, error) {
	cursor, err := r.col.Find(ctx, bson.M{"course_id": courseID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *mongoReviewRepo) AverageRating(ctx context.Context, courseID primitive.ObjectID) (float64, int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"course_id": courseID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"avg":   bson.M{"$avg": "$rating"},
			"count": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, err
	}
	defer cursor.Close(ctx)

	var out []struct {
		Avg   float64 `bson:"avg"`
		Count int64   `bson:"count"`
	}
	if err := cursor.All(ctx, &out); err != nil {
		return 0, 0, err
	}
	if len(out) == 0 {
		return 0, 0, nil
	}
	return out[0].Avg, out[0].Count, nil
}
