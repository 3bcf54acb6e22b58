package services

import (
	"context"
	"strings"
	"time"
	"unicode"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/learnhub/backend/internal/apperrors"
	"github.com/learnhub/backend/internal/models"
	"github.com/learnhub/backend/internal/repository"
)

// minPublishLessons is the publish gate: a course is not visible to students
// until it has at least this many lessons.
const minPublishLessons = 2

type CourseService struct {
	courses repository.CourseRepository
	lessons repository.LessonRepository
	reviews repository.ReviewRepository
}

func NewCourseService(
	courses repository.CourseRepository,
	lessons repository.LessonRepository,
	reviews repository.ReviewRepository,
) *CourseService {
	return &CourseService{courses: courses, lessons: lessons, reviews: reviews}
}

type CourseInput struct {
	Title       string
	Description string
	CategoryID  primitive.ObjectID
	Price       float64
	Level       models.CourseLevel
}

func (s *CourseService) Create(ctx context.Context, instructorID primitive.ObjectID, in CourseInput) (*models.Course, error) {
	c := &models.Course{
		InstructorID: instructorID,
		CategoryID:   in.CategoryID,
		Title:        in.Title,
		Slug:         slugify(in.Title) + "-" + primitive.NewObjectID().Hex()[18:],
		Description:  in.Description,
		Price:        in.Price,
		Level:        in.Level,
	}
	if c.Level == "" {
		c.Level = models.LevelBeginner
	}
	if err := s.courses.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CourseService) Get(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	return s.courses.FindByID(ctx, id)
}

// CourseDetail augments the course document with derived fields.
type CourseDetail struct {
	models.Course
	LessonCount int64   `json:"lesson_count"`
	Rating      float64 `json:"rating"`
	RatingCount int64   `json:"rating_count"`
}

func (s *CourseService) Detail(ctx context.Context, id primitive.ObjectID) (*CourseDetail, error) {
	c, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.lessons.CountByCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	avg, n, err := s.reviews.AverageRating(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CourseDetail{Course: *c, LessonCount: count, Rating: avg, RatingCount: n}, nil
}

func (s *CourseService) ListPublished(ctx context.Context, f repository.CourseFilter) ([]models.Course, int64, error) {
	return s.courses.ListPublished(ctx, f)
}

func (s *CourseService) ListByInstructor(ctx context.Context, instructorID primitive.ObjectID) ([]models.Course, error) {
	return s.courses.ListByInstructor(ctx, instructorID)
}

// Update edits course fields. Only the owning instructor or an admin may edit.
func (s *CourseService) Update(ctx context.Context, id, actorID primitive.ObjectID, actorRole models.Role, in CourseInput) (*models.Course, error) {
	c, err := s.authorize(ctx, id, actorID, actorRole)
	if err != nil {
		return nil, err
	}
	fields := bson.M{}
	if in.Title != "" && in.Title != c.Title {
		fields["title"] = in.Title
	}
	if in.Description != "" {
		fields["description"] = in.Description
	}
	if !in.CategoryID.IsZero() {
		fields["category_id"] = in.CategoryID
	}
	if in.Price >= 0 {
		fields["price"] = in.Price
	}
	if in.Level != "" {
		fields["level"] = in.Level
	}
	if len(fields) > 0 {
		if err := s.courses.Update(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return s.courses.FindByID(ctx, id)
}

// TogglePublish flips draft<->published. Draft->published requires the
// minimum lesson count; published->draft clears published_at and nothing
// else — existing enrollments are untouched.
func (s *CourseService) TogglePublish(ctx context.Context, id, actorID primitive.ObjectID, actorRole models.Role) (*models.Course, error) {
	c, err := s.authorize(ctx, id, actorID, actorRole)
	if err != nil {
		return nil, err
	}

	if !c.Published {
		count, err := s.lessons.CountByCourse(ctx, id)
		if err != nil {
			return nil, err
		}
		if count < minPublishLessons {
			return nil, apperrors.ErrInsufficientLessons
		}
		now := time.Now().UTC()
		if err := s.courses.SetPublished(ctx, id, true, &now); err != nil {
			return nil, err
		}
	} else {
		if err := s.courses.SetPublished(ctx, id, false, nil); err != nil {
			return nil, err
		}
	}
	return s.courses.FindByID(ctx, id)
}

// Delete removes the course and its lessons.
func (s *CourseService) Delete(ctx context.Context, id, actorID primitive.ObjectID, actorRole models.Role) error {
	if _, err := s.authorize(ctx, id, actorID, actorRole); err != nil {
		return err
	}
	if err := s.lessons.DeleteByCourse(ctx, id); err != nil {
		return err
	}
	return s.courses.Delete(ctx, id)
}

func (s *CourseService) authorize(ctx context.Context, courseID, actorID primitive.ObjectID, actorRole models.Role) (*models.Course, error) {
	c, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if c.InstructorID != actorID && actorRole != models.RoleAdmin && actorRole != models.RoleSuperadmin {
		return nil, apperrors.ErrForbidden
	}
	return c, nil
}

func slugify(title string) string {
	var b strings.Builder
	prevDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		case !prevDash:
			b.WriteRune('-')
			prevDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
