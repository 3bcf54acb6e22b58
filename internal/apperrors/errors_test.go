package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrNotFound, fiber.StatusNotFound},
		{ErrUnauthorized, fiber.StatusUnauthorized},
		{ErrInvalidCredentials, fiber.StatusUnauthorized},
		{ErrInvalidOTP, fiber.StatusUnauthorized},
		{ErrForbidden, fiber.StatusForbidden},
		{ErrRoleNotAllowed, fiber.StatusForbidden},
		{ErrBanned, fiber.StatusForbidden},
		{ErrAlreadyEnrolled, fiber.StatusConflict},
		{ErrAlreadyReviewed, fiber.StatusConflict},
		{ErrEmailTaken, fiber.StatusConflict},
		{ErrNotEnrolled, fiber.StatusBadRequest},
		{ErrInsufficientLessons, fiber.StatusBadRequest},
		{ErrCourseNotCompleted, fiber.StatusBadRequest},
		{ErrCourseNotPublished, fiber.StatusBadRequest},
		{ErrLessonNotInCourse, fiber.StatusBadRequest},
		{errors.New("something else"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusCode(tc.err), "StatusCode(%v)", tc.err)
	}
}

func TestStatusCodeSeesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("enroll user: %w", ErrAlreadyEnrolled)
	assert.Equal(t, fiber.StatusConflict, StatusCode(wrapped))
}
