package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/learnhub/backend/internal/apperrors"
	"github.com/learnhub/backend/internal/models"
	"github.com/learnhub/backend/internal/repository"
)

// UserService covers moderation and the instructor-request workflow.
type UserService struct {
	users    repository.UserRepository
	notifier *NotificationService
	logger   *zap.SugaredLogger
}

func NewUserService(users repository.UserRepository, notifier *NotificationService, logger *zap.SugaredLogger) *UserService {
	return &UserService{users: users, notifier: notifier, logger: logger}
}

func (s *UserService) List(ctx context.Context, page, limit int64) ([]models.User, int64, error) {
	return s.users.List(ctx, page, limit)
}

func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

// SetRole changes a user's role. Only a superadmin may mint admins.
func (s *UserService) SetRole(ctx context.Context, actorRole models.Role, userID primitive.ObjectID, role models.Role) error {
	if !role.Valid() {
		return apperrors.ErrForbidden
	}
	if (role == models.RoleAdmin || role == models.RoleSuperadmin) && actorRole != models.RoleSuperadmin {
		return apperrors.ErrForbidden
	}
	return s.users.SetRole(ctx, userID, role)
}

// SetStatus bans or reactivates an account and tells the user.
func (s *UserService) SetStatus(ctx context.Context, userID primitive.ObjectID, status models.UserStatus) error {
	if status != models.UserActive && status != models.UserBanned {
		return apperrors.ErrForbidden
	}
	if err := s.users.SetStatus(ctx, userID, status); err != nil {
		return err
	}
	if status == models.UserBanned {
		if _, err := s.notifier.NotifyUser(ctx, userID, models.NotifyAccount,
			"Account suspended", "Your account has been suspended by a moderator."); err != nil {
			s.logger.Warnw("ban notification failed", "user_id", userID.Hex(), "error", err)
		}
	}
	return nil
}

func (s *UserService) Delete(ctx context.Context, userID primitive.ObjectID) error {
	return s.users.Delete(ctx, userID)
}

// RequestInstructor flags a student account for instructor review.
func (s *UserService) RequestInstructor(ctx context.Context, userID primitive.ObjectID) error {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.Role != models.RoleStudent {
		return apperrors.ErrForbidden
	}
	if u.InstructorRequest == models.InstructorRequested {
		return nil
	}
	return s.users.SetInstructorRequest(ctx, userID, models.InstructorRequested)
}

// ApproveInstructor grants the instructor role and notifies the requester.
func (s *UserService) ApproveInstructor(ctx context.Context, userID primitive.ObjectID) error {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.InstructorRequest != models.InstructorRequested {
		return apperrors.ErrNotFound
	}
	if err := s.users.SetRole(ctx, userID, models.RoleInstructor); err != nil {
		return err
	}
	if err := s.users.SetInstructorRequest(ctx, userID, models.InstructorApproved); err != nil {
		return err
	}
	if _, err := s.notifier.NotifyUser(ctx, userID, models.NotifyAccount,
		"Instructor request approved", "You can now create and publish courses."); err != nil {
		s.logger.Warnw("approval notification failed", "user_id", userID.Hex(), "error", err)
	}
	return nil
}
