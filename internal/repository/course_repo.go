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

// CourseFilter narrows the public catalog listing.
type CourseFilter struct {
	CategoryID primitive.ObjectID
	Level      models.CourseLevel
	Search     string
	Page       int64
	Limit      int64
}

type CourseRepository interface {
	Create(ctx context.Context, c *models.Course) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error)
	ListPublished(ctx context.Context, f CourseFilter) ([]models.Course, int64, error)
	ListByInstructor(ctx context.Context, instructorID primitive.ObjectID) ([]models.Course, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	SetPublished(ctx context.Context, id primitive.ObjectID, published bool, at *time.Time) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoCourseRepo struct {
	col *mongo.Collection
}

func NewMongoCourseRepo(db *mongo.Database) CourseRepository {
	col := db.Collection("courses")
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "instructor_id", Value: 1}}},
		{Keys: bson.D{{Key: "published", Value: 1}, {Key: "category_id", Value: 1}}},
		{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}}},
	})
	return &mongoCourseRepo{col: col}
}

func (r *mongoCourseRepo) Create(ctx context.Context, c *models.Course) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, c)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid
	}
	return nil
}

func (r *mongoCourseRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	var c models.Course
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.ErrNotFound
	}
	return &c, err
}

func (r *mongoCourseRepo) ListPublished(ctx context.Context, f CourseFilter) ([]models.Course, int64, error) {
	filter := bson.M{"published": true}
	if !f.CategoryID.IsZero() {
		filter["category_id"] = f.CategoryID
	}
	if f.Level != "" {
		filter["level"] = f.Level
	}
	if f.Search != "" {
		filter["$text"] = bson.M{"$search": f.Search}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	page, limit := f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "published_at", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var courses []models.Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (r *mongoCourseRepo) ListByInstructor(ctx context.Context, instructorID primitive.ObjectID) ([]models.Course, error) {
	cursor, err := r.col.Find(ctx, bson.M{"instructor_id": instructorID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var courses []models.Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *mongoCourseRepo) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
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

func (r *mongoCourseRepo) SetPublished(ctx context.Context, id primitive.ObjectID, published bool, at *time.Time) error {
	update := bson.M{
		"published":  published,
		"updated_at": time.Now().UTC(),
	}
	if published {
		update["published_at"] = at
	}
	ops := bson.M{"$set": update}
	if !published {
		ops["$unset"] = bson.M{"published_at": ""}
	}
	res, err := r.col.UpdateByID(ctx, id, ops)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *mongoCourseRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
