package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/learnhub/backend/internal/apperrors"
	"github.com/learnhub/backend/internal/brevo"
	"github.com/learnhub/backend/internal/certificate"
	"github.com/learnhub/backend/internal/metrics"
	"github.com/learnhub/backend/internal/models"
	"github.com/learnhub/backend/internal/repository"
)

type CertificateService struct {
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
	users       repository.UserRepository
	renderer    *certificate.Renderer
	email       *brevo.Client
	logger      *zap.SugaredLogger
}

func NewCertificateService(
	enrollments repository.EnrollmentRepository,
	courses repository.CourseRepository,
	users repository.UserRepository,
	renderer *certificate.Renderer,
	email *brevo.Client,
	logger *zap.SugaredLogger,
) *CertificateService {
	return &CertificateService{
		enrollments: enrollments,
		courses:     courses,
		users:       users,
		renderer:    renderer,
		email:       email,
		logger:      logger,
	}
}

// Generate renders the completion certificate for the caller's enrollment in
// courseID. The enrollment id doubles as the certificate id; there is no
// machine verification beyond checking that id against records.
func (s *CertificateService) Generate(ctx context.Context, userID, courseID primitive.ObjectID) ([]byte, string, error) {
	e, err := s.enrollments.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, "", err
	}
	if e.Status != models.EnrollmentCompleted {
		return nil, "", apperrors.ErrCourseNotCompleted
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, "", err
	}

	issuedAt := e.UpdatedAt
	if e.CompletedAt != nil {
		issuedAt = *e.CompletedAt
	}
	pdf, err := s.renderer.Render(certificate.Data{
		RecipientName: user.Username,
		CourseTitle:   course.Title,
		CertificateID: e.ID.Hex(),
		IssuedAt:      issuedAt,
	})
	if err != nil {
		return nil, "", err
	}
	metrics.CertificatesIssued.Inc()

	filename := fmt.Sprintf("certificate-%s.pdf", e.ID.Hex())
	return pdf, filename, nil
}

// EmailCertificate renders the PDF and mails it to the student's address.
func (s *CertificateService) EmailCertificate(ctx context.Context, userID, courseID primitive.ObjectID) error {
	pdf, filename, err := s.Generate(ctx, userID, courseID)
	if err != nil {
		return err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Your certificate for %s", course.Title)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Congratulations on completing <b>%s</b>! Your certificate is attached.</p>",
		user.Username, course.Title)
	if err := s.email.SendEmailWithAttachment(ctx, user.Email, subject, html, filename, pdf); err != nil {
		s.logger.Errorw("certificate email failed", "user_id", userID.Hex(), "error", err)
		return err
	}
	return nil
}
