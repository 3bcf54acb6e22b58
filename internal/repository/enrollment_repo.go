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

type EnrollmentRepository interface {
	Create(ctx context.Context, e *models.Enrollment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Enrollment, error)
	FindByUserAndCourse(ctx context.Context, userID, courseID primitive.ObjectID) (*models.Enrollment, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Enrollment, error)
	// AddCompletedLesson appends lessonID to the completed set atomically and
	// returns the post-update document.
	AddCompletedLesson(ctx context.Context, id, lessonID primitive.ObjectID) (*models.Enrollment, error)
	SetProgress(ctx context.Context, id primitive.ObjectID, progress int) error
	// CompleteIfActive flips active->completed. The filter on status makes the
	// transition one-way even under concurrent updates.
	CompleteIfActive(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error)
	Cancel(ctx context.Context, id primitive.ObjectID) error
}

type mongoEnrollmentRepo struct {
	col *mongo.Collection
}

func NewMongoEnrollmentRepo(db *mongo.Database) EnrollmentRepository {
	col := db.Collection("enrollments")
	// The compound unique index is the real guard against double enrollment;
	// the application-level existence check alone would race.
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "course_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "course_id", Value: 1}, {Key: "status", Value: 1}}},
	})
	return &mongoEnrollmentRepo{col: col}
}

func (r *mongoEnrollmentRepo) Create(ctx context.Context, e *models.Enrollment) error {
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.CompletedLessons == nil {
		e.CompletedLessons = []primitive.ObjectID{}
	}
	res, err := r.col.InsertOne(ctx, e)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrAlreadyEnrolled
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		e.ID = oid
	}
	return nil
}

func (r *mongoEnrollmentRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Enrollment, error) {
	var e models.Enrollment
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.ErrNotFound
	}
	return &e, err
}

func (r *mongoEnrollmentRepo) FindByUserAndCourse(ctx context.Context, userID, courseID primitive.ObjectID) (*models.Enrollment, error) {
	var e models.Enrollment
	err := r.col.FindOne(ctx, bson.M{"user_id": userID, "course_id": courseID}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.ErrNotEnrolled
	}
	return &e, err
}

func (r *mongoEnrollmentRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Enrollment, error) {
	cursor, err := r.col.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var enrollments []models.Enrollment
	if err := cursor.All(ctx, &enrollments); err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *mongoEnrollmentRepo) AddCompletedLesson(ctx context.Context, id, lessonID primitive.ObjectID) (*models.Enrollment, error) {
	update := bson.M{
		"$addToSet": bson.M{"completed_lessons": lessonID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var e models.Enrollment
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *mongoEnrollmentRepo) SetProgress(ctx context.Context, id primitive.ObjectID, progress int) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"progress":   progress,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

func (r *mongoEnrollmentRepo) CompleteIfActive(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.EnrollmentActive},
		bson.M{"$set": bson.M{
			"status":       models.EnrollmentCompleted,
			"completed_at": at,
			"updated_at":   at,
		}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *mongoEnrollmentRepo) Cancel(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.EnrollmentActive},
		bson.M{"$set": bson.M{
			"status":     models.EnrollmentCancelled,
			"updated_at": time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
