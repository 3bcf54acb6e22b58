package apperrors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Domain errors. Services return these (possibly wrapped); the central fiber
// error handler maps them to transport status codes via StatusCode.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrForbidden           = errors.New("forbidden")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrAlreadyEnrolled     = errors.New("already enrolled in this course")
	ErrNotEnrolled         = errors.New("not enrolled in this course")
	ErrInsufficientLessons = errors.New("course needs at least 2 lessons to publish")
	ErrCourseNotCompleted  = errors.New("course is not completed")
	ErrCourseNotPublished  = errors.New("course is not published")
	ErrRoleNotAllowed      = errors.New("target role not allowed for sender")
	ErrAlreadyReviewed     = errors.New("course already reviewed")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrNotVerified         = errors.New("account not verified")
	ErrBanned              = errors.New("account is banned")
	ErrInvalidOTP          = errors.New("invalid or expired code")
	ErrLessonNotInCourse   = errors.New("lesson does not belong to this course")
	ErrDuplicateCategory   = errors.New("category already exists")
)

// StatusCode returns the HTTP status a domain error maps to.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidOTP):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrForbidden),
		errors.Is(err, ErrRoleNotAllowed),
		errors.Is(err, ErrBanned),
		errors.Is(err, ErrNotVerified):
		return fiber.StatusForbidden
	case errors.Is(err, ErrAlreadyEnrolled),
		errors.Is(err, ErrAlreadyReviewed),
		errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrDuplicateCategory):
		return fiber.StatusConflict
	case errors.Is(err, ErrNotEnrolled),
		errors.Is(err, ErrInsufficientLessons),
		errors.Is(err, ErrCourseNotCompleted),
		errors.Is(err, ErrCourseNotPublished),
		errors.Is(err, ErrLessonNotInCourse):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler is installed as the fiber app's ErrorHandler. It keeps the
// response envelope uniform: {"error": "..."} with the mapped status.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	code := StatusCode(err)
	msg := err.Error()
	if code == fiber.StatusInternalServerError {
		msg = "internal error"
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}
