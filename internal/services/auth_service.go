package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/learnhub/backend/internal/apperrors"
	"github.com/learnhub/backend/internal/brevo"
	"github.com/learnhub/backend/internal/models"
	"github.com/learnhub/backend/internal/repository"
	"github.com/learnhub/backend/internal/utils"
)

const (
	otpPrefix          = "otp:"
	otpRateLimitPrefix = "otp_rate_limit:"
)

type AuthService struct {
	users    repository.UserRepository
	rdb      *redis.Client
	jwt      *utils.JWTManager
	email    *brevo.Client
	otpTTL   time.Duration
	otpLimit int
	hashCost int
	logger   *zap.SugaredLogger
}

func NewAuthService(
	users repository.UserRepository,
	rdb *redis.Client,
	jwt *utils.JWTManager,
	email *brevo.Client,
	otpTTLMinutes, otpRequestsPerHour, hashCost int,
	logger *zap.SugaredLogger,
) *AuthService {
	return &AuthService{
		users:    users,
		rdb:      rdb,
		jwt:      jwt,
		email:    email,
		otpTTL:   time.Duration(otpTTLMinutes) * time.Minute,
		otpLimit: otpRequestsPerHour,
		hashCost: hashCost,
		logger:   logger,
	}
}

// Register creates an unverified student account and emails a verification
// code. The OTP lives in Redis with a TTL, never on the user document.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Username:          username,
		Email:             email,
		PasswordHash:      string(hash),
		Role:              models.RoleStudent,
		Status:            models.UserActive,
		InstructorRequest: models.InstructorNone,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	if err := s.sendOTP(ctx, u); err != nil {
		// The account exists; verification can be retried.
		s.logger.Warnw("otp delivery failed", "email", email, "error", err)
	}
	return u, nil
}

// ResendOTP issues a fresh code, rate-limited per email per hour.
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u.Verified {
		return nil
	}

	key := otpRateLimitPrefix + email
	count, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		s.rdb.Expire(ctx, key, time.Hour)
	} else if count > int64(s.otpLimit) {
		return fmt.Errorf("too many verification requests: %w", apperrors.ErrForbidden)
	}
	return s.sendOTP(ctx, u)
}

func (s *AuthService) sendOTP(ctx context.Context, u *models.User) error {
	code := utils.GenerateOTP(6)
	if err := s.rdb.Set(ctx, otpPrefix+u.Email, code, s.otpTTL).Err(); err != nil {
		return err
	}
	html := fmt.Sprintf("<p>Hi %s,</p><p>Your LearnHub verification code is <b>%s</b>. It expires in %d minutes.</p>",
		u.Username, code, int(s.otpTTL.Minutes()))
	return s.email.SendEmail(ctx, u.Email, "Verify your LearnHub account", html)
}

// VerifyOTP checks the emailed code and marks the account verified.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*models.User, error) {
	stored, err := s.rdb.Get(ctx, otpPrefix+email).Result()
	if err == redis.Nil {
		return nil, apperrors.ErrInvalidOTP
	}
	if err != nil {
		return nil, err
	}
	if stored != code {
		return nil, apperrors.ErrInvalidOTP
	}
	s.rdb.Del(ctx, otpPrefix+email)

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetVerified(ctx, u.ID); err != nil {
		return nil, err
	}
	u.Verified = true
	return u, nil
}

// Login validates credentials and returns the user plus a signed access
// token. The handler is responsible for the cookie.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, time.Time, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", time.Time{}, apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, apperrors.ErrInvalidCredentials
	}
	if !u.Verified {
		return nil, "", time.Time{}, apperrors.ErrNotVerified
	}
	if u.Status == models.UserBanned {
		return nil, "", time.Time{}, apperrors.ErrBanned
	}

	token, exp, err := s.jwt.GenerateAccessToken(u.ID.Hex(), string(u.Role))
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return u, token, exp, nil
}

// Me loads the current account, re-checking status so a ban takes effect on
// the next request rather than at token expiry.
func (s *AuthService) Me(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Status == models.UserBanned {
		return nil, apperrors.ErrBanned
	}
	return u, nil
}
