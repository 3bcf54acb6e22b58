package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/learnhub/backend/internal/apperrors"
	"github.com/learnhub/backend/internal/models"
)

type LessonRepository interface {
	Create(ctx context.Context, l *models.Lesson) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Lesson, error)
	ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]models.Lesson, error)
	CountByCourse(ctx context.Context, courseID primitive.ObjectID) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByCourse(ctx context.Context, courseID primitive.ObjectID) error
}

type mongoLessonRepo struct {
	col *mongo.Collection
}

func NewMongoLessonRepo(db *mongo.Database) LessonRepository {
	col := db.Collection("lessons")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "course_id", Value: 1}, {Key: "position", Value: 1}},
	})
	return &mongoLessonRepo{col: col}
}

func (r *mongoLessonRepo) Create(ctx context.Context, l *models.Lesson) error {
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, l)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		l.ID = oid
	}
	return nil
}

func (r *mongoLessonRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Lesson, error) {
	var l models.Lesson
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.ErrNotFound
	}
	return &l, err
}

func (r *mongoLessonRepo) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]models.Lesson, error) {
	cursor, err := r.col.Find(ctx, bson.M{"course_id": courseID},
		options.Find().SetSort(bson.D{{Key: "position", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var lessons []models.Lesson
	if err := cursor.All(ctx, &lessons); err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *mongoLessonRepo) CountByCourse(ctx context.Context, courseID primitive.ObjectID) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"course_id": courseID})
}

func (r *mongoLessonRepo) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updated_at"] = time.Now().UTC()
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *mongoLessonRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *mongoLessonRepo) DeleteByCourse(ctx context.Context, courseID primitive.ObjectID) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"course_id": courseID})
	return err
}
