package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/learnhub/backend/internal/apperrors"
	"github.com/learnhub/backend/internal/models"
)

func newNotificationFixture() (*NotificationService, *fakeNotificationRepo, *fakeUserRepo, *recordingPusher) {
	repo := &fakeNotificationRepo{}
	users := newFakeUserRepo()
	pusher := newRecordingPusher()
	svc := NewNotificationService(repo, users, newMemoryDeduper(), pusher, zap.NewNop().Sugar())
	return svc, repo, users, pusher
}

func TestNotifyUserStoresAndPushes(t *testing.T) {
	svc, repo, _, pusher := newNotificationFixture()
	user := primitive.NewObjectID()

	sent, err := svc.NotifyUser(context.Background(), user, models.NotifySystem, "Maintenance", "Back at noon")
	require.NoError(t, err)
	assert.True(t, sent)
	require.Len(t, repo.created, 1)

	payloads := pusher.sent[user.Hex()]
	require.Len(t, payloads, 1)
	var got map[string]any
	require.NoError(t, json.Unmarshal(payloads[0], &got))
	assert.Equal(t, "Maintenance", got["title"])
	assert.Equal(t, "system", got["type"])

	// The socket frame contract is camelCase.
	assert.Contains(t, got, "_id")
	assert.Contains(t, got, "isRead")
	assert.Contains(t, got, "createdAt")
	assert.Equal(t, false, got["isRead"])
	assert.NotContains(t, got, "is_read")
	assert.NotContains(t, got, "created_at")
}

func TestNotifyUserDedupWindow(t *testing.T) {
	svc, repo, _, _ := newNotificationFixture()
	user := primitive.NewObjectID()

	sent, err := svc.NotifyUser(context.Background(), user, models.NotifySystem, "Maintenance", "Back at noon")
	require.NoError(t, err)
	assert.True(t, sent)

	// Same title inside the window is suppressed, even with a new body.
	sent, err = svc.NotifyUser(context.Background(), user, models.NotifySystem, "Maintenance", "Back at one")
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Len(t, repo.created, 1)

	// A different title goes through.
	sent, err = svc.NotifyUser(context.Background(), user, models.NotifySystem, "All clear", "We are back")
	require.NoError(t, err)
	assert.True(t, sent)
}

func TestNotifyUserDedupWindowLapses(t *testing.T) {
	repo := &fakeNotificationRepo{}
	dedup := newMemoryDeduper()
	clock := time.Now()
	dedup.now = func() time.Time { return clock }
	svc := NewNotificationService(repo, newFakeUserRepo(), dedup, newRecordingPusher(), zap.NewNop().Sugar())
	user := primitive.NewObjectID()

	sent, err := svc.NotifyUser(context.Background(), user, models.NotifySystem, "Maintenance", "Back at noon")
	require.NoError(t, err)
	require.True(t, sent)

	// Just inside the window: still suppressed.
	clock = clock.Add(59 * time.Second)
	sent, err = svc.NotifyUser(context.Background(), user, models.NotifySystem, "Maintenance", "Back at noon")
	require.NoError(t, err)
	assert.False(t, sent)

	// Past the window: the same title is stored again.
	clock = clock.Add(2 * time.Second)
	sent, err = svc.NotifyUser(context.Background(), user, models.NotifySystem, "Maintenance", "Back at noon")
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Len(t, repo.created, 2)
}

func TestNotifyRolesPermissionTable(t *testing.T) {
	svc, _, users, _ := newNotificationFixture()
	sender := users.add(&models.User{Role: models.RoleAdmin})
	users.add(&models.User{Role: models.RoleAdmin})

	// An admin may not address other admins.
	_, err := svc.NotifyRoles(context.Background(), sender.ID, models.RoleAdmin,
		[]models.Role{models.RoleAdmin}, models.NotifyGeneral, "Heads up", "msg")
	assert.ErrorIs(t, err, apperrors.ErrRoleNotAllowed)

	// One disallowed role poisons the whole request.
	_, err = svc.NotifyRoles(context.Background(), sender.ID, models.RoleAdmin,
		[]models.Role{models.RoleStudent, models.RoleAdmin}, models.NotifyGeneral, "Heads up", "msg")
	assert.ErrorIs(t, err, apperrors.ErrRoleNotAllowed)

	// Students may not fan out at all.
	_, err = svc.NotifyRoles(context.Background(), sender.ID, models.RoleStudent,
		[]models.Role{models.RoleStudent}, models.NotifyGeneral, "Heads up", "msg")
	assert.ErrorIs(t, err, apperrors.ErrRoleNotAllowed)
}

func TestNotifyRolesFansOutExcludingSender(t *testing.T) {
	svc, repo, users, pusher := newNotificationFixture()
	sender := users.add(&models.User{Role: models.RoleSuperadmin})
	s1 := users.add(&models.User{Role: models.RoleStudent})
	s2 := users.add(&models.User{Role: models.RoleStudent})
	inst := users.add(&models.User{Role: models.RoleInstructor})
	users.add(&models.User{Role: models.RoleStudent, Status: models.UserBanned})

	sent, err := svc.NotifyRoles(context.Background(), sender.ID, models.RoleSuperadmin,
		[]models.Role{models.RoleStudent, models.RoleInstructor}, models.NotifyGeneral, "New term", "Courses open")
	require.NoError(t, err)
	assert.Equal(t, 3, sent)
	assert.Len(t, repo.created, 3)

	for _, id := range []primitive.ObjectID{s1.ID, s2.ID, inst.ID} {
		assert.Len(t, pusher.sent[id.Hex()], 1)
	}
	assert.Empty(t, pusher.sent[sender.ID.Hex()])
}

func TestNotifyRolesSkipsDedupedRecipients(t *testing.T) {
	svc, _, users, _ := newNotificationFixture()
	sender := users.add(&models.User{Role: models.RoleSuperadmin})
	repeat := users.add(&models.User{Role: models.RoleStudent})

	sent, err := svc.NotifyUser(context.Background(), repeat.ID, models.NotifyGeneral, "New term", "early copy")
	require.NoError(t, err)
	require.True(t, sent)

	users.add(&models.User{Role: models.RoleStudent})
	count, err := svc.NotifyRoles(context.Background(), sender.ID, models.RoleSuperadmin,
		[]models.Role{models.RoleStudent}, models.NotifyGeneral, "New term", "Courses open")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMarkReadEmitsReadUpdate(t *testing.T) {
	svc, repo, _, pusher := newNotificationFixture()
	user := primitive.NewObjectID()

	_, err := svc.NotifyUser(context.Background(), user, models.NotifyGeneral, "Hello", "msg")
	require.NoError(t, err)
	notifID := repo.created[0].ID

	require.NoError(t, svc.MarkRead(context.Background(), user, notifID))

	payloads := pusher.sent[user.Hex()]
	require.Len(t, payloads, 2)
	var got readPayload
	require.NoError(t, json.Unmarshal(payloads[1], &got))
	assert.Equal(t, "READ_UPDATE", got.Event)
	assert.Equal(t, notifID, got.NotificationID)

	count, err := svc.UnreadCount(context.Background(), user)
	require.NoError(t, err)
	assert.Zero(t, count)

	// Another user cannot read-mark this record.
	assert.ErrorIs(t, svc.MarkRead(context.Background(), primitive.NewObjectID(), notifID), apperrors.ErrNotFound)
}
