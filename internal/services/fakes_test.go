package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/learnhub/backend/internal/apperrors"
	"github.com/learnhub/backend/internal/models"
	"github.com/learnhub/backend/internal/repository"
)

// In-memory repository fakes. They mirror the index semantics of the real
// collections (unique keys, set updates) so race-sensitive service logic can
// be tested without a database.

type fakeEnrollmentRepo struct {
	byID map[primitive.ObjectID]*models.Enrollment
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{byID: map[primitive.ObjectID]*models.Enrollment{}}
}

func (r *fakeEnrollmentRepo) Create(_ context.Context, e *models.Enrollment) error {
	for _, existing := range r.byID {
		if existing.UserID == e.UserID && existing.CourseID == e.CourseID {
			return apperrors.ErrAlreadyEnrolled
		}
	}
	e.ID = primitive.NewObjectID()
	e.CompletedLessons = []primitive.ObjectID{}
	e.CreatedAt = time.Now().UTC()
	e.UpdatedAt = e.CreatedAt
	cp := *e
	r.byID[e.ID] = &cp
	return nil
}

func (r *fakeEnrollmentRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Enrollment, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEnrollmentRepo) FindByUserAndCourse(_ context.Context, userID, courseID primitive.ObjectID) (*models.Enrollment, error) {
	for _, e := range r.byID {
		if e.UserID == userID && e.CourseID == courseID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotEnrolled
}

func (r *fakeEnrollmentRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for _, e := range r.byID {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEnrollmentRepo) AddCompletedLesson(_ context.Context, id, lessonID primitive.ObjectID) (*models.Enrollment, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	found := false
	for _, l := range e.CompletedLessons {
		if l == lessonID {
			found = true
			break
		}
	}
	if !found {
		e.CompletedLessons = append(e.CompletedLessons, lessonID)
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEnrollmentRepo) SetProgress(_ context.Context, id primitive.ObjectID, progress int) error {
	e, ok := r.byID[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	e.Progress = progress
	return nil
}

func (r *fakeEnrollmentRepo) CompleteIfActive(_ context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	e, ok := r.byID[id]
	if !ok {
		return false, apperrors.ErrNotFound
	}
	if e.Status != models.EnrollmentActive {
		return false, nil
	}
	e.Status = models.EnrollmentCompleted
	e.CompletedAt = &at
	return true, nil
}

func (r *fakeEnrollmentRepo) Cancel(_ context.Context, id primitive.ObjectID) error {
	e, ok := r.byID[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	e.Status = models.EnrollmentCancelled
	return nil
}

type fakeCourseRepo struct {
	byID map[primitive.ObjectID]*models.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{byID: map[primitive.ObjectID]*models.Course{}}
}

func (r *fakeCourseRepo) add(c *models.Course) *models.Course {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	r.byID[c.ID] = c
	return c
}

func (r *fakeCourseRepo) Create(_ context.Context, c *models.Course) error {
	r.add(c)
	return nil
}

func (r *fakeCourseRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Course, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCourseRepo) ListPublished(_ context.Context, _ repository.CourseFilter) ([]models.Course, int64, error) {
	var out []models.Course
	for _, c := range r.byID {
		if c.Published {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeCourseRepo) ListByInstructor(_ context.Context, instructorID primitive.ObjectID) ([]models.Course, error) {
	var out []models.Course
	for _, c := range r.byID {
		if c.InstructorID == instructorID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) Update(_ context.Context, id primitive.ObjectID, fields bson.M) error {
	c, ok := r.byID[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if title, ok := fields["title"].(string); ok {
		c.Title = title
	}
	return nil
}

func (r *fakeCourseRepo) SetPublished(_ context.Context, id primitive.ObjectID, published bool, at *time.Time) error {
	c, ok := r.byID[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	c.Published = published
	c.PublishedAt = at
	return nil
}

func (r *fakeCourseRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(r.byID, id)
	return nil
}

type fakeLessonRepo struct {
	byID map[primitive.ObjectID]*models.Lesson
}

func newFakeLessonRepo() *fakeLessonRepo {
	return &fakeLessonRepo{byID: map[primitive.ObjectID]*models.Lesson{}}
}

func (r *fakeLessonRepo) add(courseID primitive.ObjectID, title string) *models.Lesson {
	l := &models.Lesson{ID: primitive.NewObjectID(), CourseID: courseID, Title: title}
	r.byID[l.ID] = l
	return l
}

func (r *fakeLessonRepo) Create(_ context.Context, l *models.Lesson) error {
	l.ID = primitive.NewObjectID()
	r.byID[l.ID] = l
	return nil
}

func (r *fakeLessonRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Lesson, error) {
	l, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLessonRepo) ListByCourse(_ context.Context, courseID primitive.ObjectID) ([]models.Lesson, error) {
	var out []models.Lesson
	for _, l := range r.byID {
		if l.CourseID == courseID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeLessonRepo) CountByCourse(_ context.Context, courseID primitive.ObjectID) (int64, error) {
	var n int64
	for _, l := range r.byID {
		if l.CourseID == courseID {
			n++
		}
	}
	return n, nil
}

func (r *fakeLessonRepo) Update(_ context.Context, id primitive.ObjectID, fields bson.M) error {
	l, ok := r.byID[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if title, ok := fields["title"].(string); ok {
		l.Title = title
	}
	return nil
}

func (r *fakeLessonRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeLessonRepo) DeleteByCourse(_ context.Context, courseID primitive.ObjectID) error {
	for id, l := range r.byID {
		if l.CourseID == courseID {
			delete(r.byID, id)
		}
	}
	return nil
}

type fakeUserRepo struct {
	byID map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[primitive.ObjectID]*models.User{}}
}

func (r *fakeUserRepo) add(u *models.User) *models.User {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.Status == "" {
		u.Status = models.UserActive
	}
	r.byID[u.ID] = u
	return u
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return apperrors.ErrEmailTaken
		}
	}
	r.add(u)
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) FindByRoles(_ context.Context, roles []models.Role, exclude primitive.ObjectID) ([]models.User, error) {
	var out []models.User
	for _, u := range r.byID {
		if u.ID == exclude || u.Status != models.UserActive {
			continue
		}
		for _, role := range roles {
			if u.Role == role {
				out = append(out, *u)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeUserRepo) List(_ context.Context, _, _ int64) ([]models.User, int64, error) {
	var out []models.User
	for _, u := range r.byID {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) SetVerified(_ context.Context, id primitive.ObjectID) error {
	u, ok := r.byID[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.Verified = true
	return nil
}

func (r *fakeUserRepo) SetRole(_ context.Context, id primitive.ObjectID, role models.Role) error {
	u, ok := r.byID[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.Role = role
	return nil
}

func (r *fakeUserRepo) SetStatus(_ context.Context, id primitive.ObjectID, status models.UserStatus) error {
	u, ok := r.byID[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.Status = status
	return nil
}

func (r *fakeUserRepo) SetInstructorRequest(_ context.Context, id primitive.ObjectID, state models.InstructorRequest) error {
	u, ok := r.byID[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.InstructorRequest = state
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(r.byID, id)
	return nil
}

type fakeNotificationRepo struct {
	created []models.Notification
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now().UTC()
	r.created = append(r.created, *n)
	return nil
}

func (r *fakeNotificationRepo) CreateMany(_ context.Context, ns []models.Notification) ([]models.Notification, error) {
	now := time.Now().UTC()
	for i := range ns {
		ns[i].ID = primitive.NewObjectID()
		ns[i].CreatedAt = now
	}
	r.created = append(r.created, ns...)
	return ns, nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID primitive.ObjectID, _, _ int64) ([]models.Notification, int64, error) {
	var out []models.Notification
	for _, n := range r.created {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, userID, notifID primitive.ObjectID, at time.Time) error {
	for i := range r.created {
		if r.created[i].ID == notifID && r.created[i].UserID == userID {
			r.created[i].IsRead = true
			r.created[i].ReadAt = &at
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeNotificationRepo) UnreadCount(_ context.Context, userID primitive.ObjectID) (int64, error) {
	var n int64
	for _, notif := range r.created {
		if notif.UserID == userID && !notif.IsRead {
			n++
		}
	}
	return n, nil
}

// memoryDeduper tracks (user, title) pairs in memory with the same
// first-wins-within-window semantics as the Redis SETNX EX key. The clock is
// injectable so tests can lapse the window without sleeping.
type memoryDeduper struct {
	window time.Duration
	now    func() time.Time
	seen   map[string]time.Time
}

func newMemoryDeduper() *memoryDeduper {
	return &memoryDeduper{
		window: time.Minute,
		now:    time.Now,
		seen:   map[string]time.Time{},
	}
}

func (d *memoryDeduper) Allow(_ context.Context, userID, title string) (bool, error) {
	key := userID + "|" + title
	if at, ok := d.seen[key]; ok && d.now().Sub(at) < d.window {
		return false, nil
	}
	d.seen[key] = d.now()
	return true, nil
}

// recordingPusher captures socket payloads per user id.
type recordingPusher struct {
	sent map[string][][]byte
}

func newRecordingPusher() *recordingPusher {
	return &recordingPusher{sent: map[string][][]byte{}}
}

func (p *recordingPusher) SendToUser(userID string, msg []byte) {
	p.sent[userID] = append(p.sent[userID], msg)
}
