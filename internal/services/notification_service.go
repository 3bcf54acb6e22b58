package services

import (
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/learnhub/backend/internal/apperrors"
	"github.com/learnhub/backend/internal/metrics"
	"github.com/learnhub/backend/internal/models"
	"github.com/learnhub/backend/internal/repository"
)

// Pusher delivers a payload to every open socket of a user. *ws.Hub satisfies
// it; tests plug in a recorder.
type Pusher interface {
	SendToUser(userID string, msg []byte)
}

// roleTargets is the static permission table for role fan-out: who a sender
// role may address. Roles absent from the map cannot fan out at all.
var roleTargets = map[models.Role][]models.Role{
	models.RoleSuperadmin: {models.RoleAdmin, models.RoleInstructor, models.RoleStudent},
	models.RoleAdmin:      {models.RoleInstructor, models.RoleStudent},
}

type NotificationService struct {
	repo   repository.NotificationRepository
	users  repository.UserRepository
	dedup  Deduper
	pusher Pusher
	logger *zap.SugaredLogger
}

func NewNotificationService(
	repo repository.NotificationRepository,
	users repository.UserRepository,
	dedup Deduper,
	pusher Pusher,
	logger *zap.SugaredLogger,
) *NotificationService {
	return &NotificationService{repo: repo, users: users, dedup: dedup, pusher: pusher, logger: logger}
}

// pushPayload is the wire shape emitted over the socket, matching what the
// client store expects on a "notification" event.
type pushPayload struct {
	ID        primitive.ObjectID      `json:"_id"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	Type      models.NotificationType `json:"type"`
	IsRead    bool                    `json:"isRead"`
	CreatedAt time.Time               `json:"createdAt"`
}

type readPayload struct {
	Event          string             `json:"event"`
	NotificationID primitive.ObjectID `json:"notificationId"`
}

// NotifyUser stores one notification and pushes it to the recipient's room.
// Returns (false, nil) when the de-dup window suppressed it.
func (s *NotificationService) NotifyUser(ctx context.Context, userID primitive.ObjectID, typ models.NotificationType, title, message string) (bool, error) {
	ok, err := s.dedup.Allow(ctx, userID.Hex(), title)
	if err != nil {
		return false, err
	}
	if !ok {
		metrics.NotificationsDeduped.Inc()
		return false, nil
	}

	n := &models.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return false, err
	}
	s.push(n)
	metrics.NotificationsSent.WithLabelValues(string(typ)).Inc()
	return true, nil
}

// NotifyRoles fans a notification out to every active user holding one of
// targetRoles, excluding the sender. The permission check runs before any
// write: a single disallowed role fails the whole call. The insert itself is
// one bulk write, but push delivery remains best-effort per recipient.
func (s *NotificationService) NotifyRoles(ctx context.Context, senderID primitive.ObjectID, senderRole models.Role, targetRoles []models.Role, typ models.NotificationType, title, message string) (int, error) {
	if len(targetRoles) == 0 {
		return 0, nil
	}
	allowed := roleTargets[senderRole]
	for _, target := range targetRoles {
		if !roleAllowed(allowed, target) {
			return 0, apperrors.ErrRoleNotAllowed
		}
	}

	users, err := s.users.FindByRoles(ctx, targetRoles, senderID)
	if err != nil {
		return 0, err
	}

	pending := make([]models.Notification, 0, len(users))
	for _, u := range users {
		ok, err := s.dedup.Allow(ctx, u.ID.Hex(), title)
		if err != nil {
			return 0, err
		}
		if !ok {
			metrics.NotificationsDeduped.Inc()
			continue
		}
		pending = append(pending, models.Notification{
			UserID:  u.ID,
			Type:    typ,
			Title:   title,
			Message: message,
		})
	}
	if len(pending) == 0 {
		return 0, nil
	}

	inserted, err := s.repo.CreateMany(ctx, pending)
	if err != nil {
		return 0, err
	}
	for i := range inserted {
		s.push(&inserted[i])
		metrics.NotificationsSent.WithLabelValues(string(typ)).Inc()
	}
	return len(inserted), nil
}

func (s *NotificationService) List(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.Notification, int64, error) {
	return s.repo.ListByUser(ctx, userID, page, limit)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}

// MarkRead flips the read flag and echoes a READ_UPDATE event to the user's
// other sockets so open tabs stay in sync.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notifID primitive.ObjectID) error {
	if err := s.repo.MarkRead(ctx, userID, notifID, time.Now().UTC()); err != nil {
		return err
	}
	if msg, err := json.Marshal(readPayload{Event: "READ_UPDATE", NotificationID: notifID}); err == nil {
		s.pusher.SendToUser(userID.Hex(), msg)
	}
	return nil
}

func (s *NotificationService) push(n *models.Notification) {
	msg, err := json.Marshal(pushPayload{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	})
	if err != nil {
		s.logger.Errorw("marshal notification push", "error", err)
		return
	}
	s.pusher.SendToUser(n.UserID.Hex(), msg)
}

func roleAllowed(allowed []models.Role, target models.Role) bool {
	for _, r := range allowed {
		if r == target {
			return true
		}
	}
	return false
}
