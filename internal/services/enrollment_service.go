package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/learnhub/backend/internal/apperrors"
	"github.com/learnhub/backend/internal/metrics"
	"github.com/learnhub/backend/internal/models"
	"github.com/learnhub/backend/internal/repository"
)

type EnrollmentService struct {
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
	lessons     repository.LessonRepository
	notifier    *NotificationService
	logger      *zap.SugaredLogger
}

func NewEnrollmentService(
	enrollments repository.EnrollmentRepository,
	courses repository.CourseRepository,
	lessons repository.LessonRepository,
	notifier *NotificationService,
	logger *zap.SugaredLogger,
) *EnrollmentService {
	return &EnrollmentService{
		enrollments: enrollments,
		courses:     courses,
		lessons:     lessons,
		notifier:    notifier,
		logger:      logger,
	}
}

// Enroll creates the enrollment row. The unique (user, course) index turns a
// concurrent double-enroll into ErrAlreadyEnrolled instead of a second row.
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID primitive.ObjectID, pricePaid float64) (*models.Enrollment, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.Published {
		return nil, apperrors.ErrCourseNotPublished
	}

	e := &models.Enrollment{
		UserID:    userID,
		CourseID:  courseID,
		PricePaid: pricePaid,
		Status:    models.EnrollmentActive,
	}
	if err := s.enrollments.Create(ctx, e); err != nil {
		return nil, err
	}
	metrics.EnrollmentsCreated.Inc()

	if _, err := s.notifier.NotifyUser(ctx, userID, models.NotifyEnrollment,
		"Enrollment confirmed",
		fmt.Sprintf("You are enrolled in %q. Happy learning!", course.Title)); err != nil {
		s.logger.Warnw("enrollment notification failed", "user_id", userID.Hex(), "error", err)
	}
	return e, nil
}

// MarkLessonComplete adds lessonID to the completed set and recomputes
// progress. Idempotent: repeating a lesson changes nothing. The set update is
// a single $addToSet, so two concurrent calls cannot lose each other's lesson.
func (s *EnrollmentService) MarkLessonComplete(ctx context.Context, userID, courseID, lessonID primitive.ObjectID) (*models.Enrollment, error) {
	e, err := s.enrollments.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	lesson, err := s.lessons.FindByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.CourseID != courseID {
		return nil, apperrors.ErrLessonNotInCourse
	}

	updated, err := s.enrollments.AddCompletedLesson(ctx, e.ID, lessonID)
	if err != nil {
		return nil, err
	}

	total, err := s.lessons.CountByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	progress := 0
	if total > 0 {
		progress = int(math.Round(float64(len(updated.CompletedLessons)) / float64(total) * 100))
	}
	if progress != updated.Progress {
		if err := s.enrollments.SetProgress(ctx, updated.ID, progress); err != nil {
			return nil, err
		}
		updated.Progress = progress
	}

	// One-way transition: the conditional update only fires on the first
	// crossing. Un-completing a lesson later never reverts the status.
	if progress >= 100 && updated.Status == models.EnrollmentActive {
		now := time.Now().UTC()
		flipped, err := s.enrollments.CompleteIfActive(ctx, updated.ID, now)
		if err != nil {
			return nil, err
		}
		if flipped {
			updated.Status = models.EnrollmentCompleted
			updated.CompletedAt = &now
			metrics.CoursesCompleted.Inc()

			course, cerr := s.courses.FindByID(ctx, courseID)
			title := "your course"
			if cerr == nil {
				title = fmt.Sprintf("%q", course.Title)
			}
			if _, err := s.notifier.NotifyUser(ctx, userID, models.NotifyCourse,
				"Course completed",
				fmt.Sprintf("Congratulations, you finished %s. Your certificate is ready.", title)); err != nil {
				s.logger.Warnw("completion notification failed", "user_id", userID.Hex(), "error", err)
			}
		}
	}
	return updated, nil
}

// Progress returns the completed lesson ids and percent for one enrollment.
func (s *EnrollmentService) Progress(ctx context.Context, userID, courseID primitive.ObjectID) (*models.Enrollment, error) {
	return s.enrollments.FindByUserAndCourse(ctx, userID, courseID)
}

func (s *EnrollmentService) ListMine(ctx context.Context, userID primitive.ObjectID) ([]models.Enrollment, error) {
	return s.enrollments.ListByUser(ctx, userID)
}

// Cancel is the admin/refund path: active -> cancelled.
func (s *EnrollmentService) Cancel(ctx context.Context, enrollmentID primitive.ObjectID) error {
	return s.enrollments.Cancel(ctx, enrollmentID)
}
