package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/learnhub/backend/internal/apperrors"
	"github.com/learnhub/backend/internal/models"
)

func newLessonFixture() (*LessonService, *fakeCourseRepo, *fakeLessonRepo, *fakeEnrollmentRepo) {
	courses := newFakeCourseRepo()
	lessons := newFakeLessonRepo()
	enrollments := newFakeEnrollmentRepo()
	return NewLessonService(lessons, courses, enrollments), courses, lessons, enrollments
}

func TestLessonCreateRequiresOwnership(t *testing.T) {
	svc, courses, _, _ := newLessonFixture()
	owner := primitive.NewObjectID()
	course := courses.add(&models.Course{InstructorID: owner, Title: "Go Basics"})

	_, err := svc.Create(context.Background(), course.ID, primitive.NewObjectID(), models.RoleInstructor, LessonInput{Title: "Intro"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	l, err := svc.Create(context.Background(), course.ID, owner, models.RoleInstructor, LessonInput{Title: "Intro"})
	require.NoError(t, err)
	assert.NotEmpty(t, l.ID)
	assert.NotNil(t, l.Resources)
}

func TestListForViewerGating(t *testing.T) {
	svc, courses, lessons, enrollments := newLessonFixture()
	owner := primitive.NewObjectID()
	course := courses.add(&models.Course{InstructorID: owner, Title: "Go Basics", Published: true})
	lessons.add(course.ID, "Intro")

	stranger := primitive.NewObjectID()
	_, err := svc.ListForViewer(context.Background(), course.ID, stranger, models.RoleStudent)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	student := primitive.NewObjectID()
	require.NoError(t, enrollments.Create(context.Background(), &models.Enrollment{
		UserID: student, CourseID: course.ID, Status: models.EnrollmentActive,
	}))
	got, err := svc.ListForViewer(context.Background(), course.ID, student, models.RoleStudent)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	// Owner and admin bypass the enrollment check.
	_, err = svc.ListForViewer(context.Background(), course.ID, owner, models.RoleInstructor)
	assert.NoError(t, err)
	_, err = svc.ListForViewer(context.Background(), course.ID, primitive.NewObjectID(), models.RoleAdmin)
	assert.NoError(t, err)
}
