package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/learnhub/backend/internal/middleware"
	"github.com/learnhub/backend/internal/models"
	"github.com/learnhub/backend/internal/services"
	"github.com/learnhub/backend/internal/utils"
)

type NotificationHandler struct {
	svc *services.NotificationService
}

func NewNotificationHandler(svc *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 20))
	list, total, err := h.svc.List(c.Context(), middleware.UserID(c), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"notifications": list,
		"total":         total,
		"page":          page,
		"limit":         limit,
	})
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	count, err := h.svc.UnreadCount(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"unread": count})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	notifID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.MarkRead(c.Context(), middleware.UserID(c), notifID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "notification read"})
}

type broadcastReq struct {
	Roles   []string `json:"roles" validate:"required,min=1,dive,oneof=admin instructor student"`
	Title   string   `json:"title" validate:"required,min=1,max=200"`
	Message string   `json:"message" validate:"required,min=1,max=2000"`
	Type    string   `json:"type" validate:"omitempty,oneof=general system enrollment course account"`
}

// Broadcast fans a notification out to one or more roles. Admin only; the
// sender-role permission table inside the service decides which targets are
// legal.
func (h *NotificationHandler) Broadcast(c *fiber.Ctx) error {
	var req broadcastReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := utils.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": utils.FormatValidationErrors(err),
		})
	}
	roles := make([]models.Role, 0, len(req.Roles))
	for _, r := range req.Roles {
		roles = append(roles, models.Role(r))
	}
	typ := models.NotifyGeneral
	if req.Type != "" {
		typ = models.NotificationType(req.Type)
	}
	sent, err := h.svc.NotifyRoles(c.Context(), middleware.UserID(c), middleware.Role(c), roles, typ, req.Title, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"sent": sent})
}
