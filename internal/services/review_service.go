package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/learnhub/backend/internal/models"
	"github.com/learnhub/backend/internal/repository"
)

type ReviewService struct {
	reviews     repository.ReviewRepository
	enrollments repository.EnrollmentRepository
}

func NewReviewService(reviews repository.ReviewRepository, enrollments repository.EnrollmentRepository) *ReviewService {
	return &ReviewService{reviews: reviews, enrollments: enrollments}
}

// Create stores one review per (user, course). Enrollment is required; the
// unique index catches the duplicate-review race.
func (s *ReviewService) Create(ctx context.Context, userID, courseID primitive.ObjectID, rating int, comment string) (*models.Review, error) {
	if _, err := s.enrollments.FindByUserAndCourse(ctx, userID, courseID); err != nil {
		return nil, err
	}
	rv := &models.Review{
		UserID:   userID,
		CourseID: courseID,
		Rating:   rating,
		Comment:  comment,
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *ReviewService) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]models.Review, error) {
	return s.reviews.ListByCourse(ctx, courseID)
}
