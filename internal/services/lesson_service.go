package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/learnhub/backend/internal/apperrors"
	"github.com/learnhub/backend/internal/models"
	"github.com/learnhub/backend/internal/repository"
)

type LessonService struct {
	lessons     repository.LessonRepository
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
}

func NewLessonService(
	lessons repository.LessonRepository,
	courses repository.CourseRepository,
	enrollments repository.EnrollmentRepository,
) *LessonService {
	return &LessonService{lessons: lessons, courses: courses, enrollments: enrollments}
}

type LessonInput struct {
	Title     string
	Position  int
	Resources []models.Resource
}

func (s *LessonService) Create(ctx context.Context, courseID, actorID primitive.ObjectID, actorRole models.Role, in LessonInput) (*models.Lesson, error) {
	if err := s.authorizeCourse(ctx, courseID, actorID, actorRole); err != nil {
		return nil, err
	}
	l := &models.Lesson{
		CourseID:  courseID,
		Title:     in.Title,
		Position:  in.Position,
		Resources: in.Resources,
	}
	if l.Resources == nil {
		l.Resources = []models.Resource{}
	}
	if err := s.lessons.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *LessonService) Update(ctx context.Context, lessonID, actorID primitive.ObjectID, actorRole models.Role, in LessonInput) (*models.Lesson, error) {
	l, err := s.lessons.FindByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeCourse(ctx, l.CourseID, actorID, actorRole); err != nil {
		return nil, err
	}
	fields := bson.M{}
	if in.Title != "" {
		fields["title"] = in.Title
	}
	if in.Position >= 0 {
		fields["position"] = in.Position
	}
	if in.Resources != nil {
		fields["resources"] = in.Resources
	}
	if len(fields) > 0 {
		if err := s.lessons.Update(ctx, lessonID, fields); err != nil {
			return nil, err
		}
	}
	return s.lessons.FindByID(ctx, lessonID)
}

func (s *LessonService) Delete(ctx context.Context, lessonID, actorID primitive.ObjectID, actorRole models.Role) error {
	l, err := s.lessons.FindByID(ctx, lessonID)
	if err != nil {
		return err
	}
	if err := s.authorizeCourse(ctx, l.CourseID, actorID, actorRole); err != nil {
		return err
	}
	return s.lessons.Delete(ctx, lessonID)
}

// ListForViewer returns the course's lessons for an enrolled student, the
// owning instructor, or an admin. Everyone else gets ErrForbidden.
func (s *LessonService) ListForViewer(ctx context.Context, courseID, viewerID primitive.ObjectID, viewerRole models.Role) ([]models.Lesson, error) {
	c, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	allowed := c.InstructorID == viewerID ||
		viewerRole == models.RoleAdmin || viewerRole == models.RoleSuperadmin
	if !allowed {
		if _, err := s.enrollments.FindByUserAndCourse(ctx, viewerID, courseID); err != nil {
			return nil, apperrors.ErrForbidden
		}
	}
	return s.lessons.ListByCourse(ctx, courseID)
}

func (s *LessonService) authorizeCourse(ctx context.Context, courseID, actorID primitive.ObjectID, actorRole models.Role) error {
	c, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return err
	}
	if c.InstructorID != actorID && actorRole != models.RoleAdmin && actorRole != models.RoleSuperadmin {
		return apperrors.ErrForbidden
	}
	return nil
}
