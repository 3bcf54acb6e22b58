package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/learnhub/backend/internal/middleware"
	"github.com/learnhub/backend/internal/models"
	"github.com/learnhub/backend/internal/services"
	"github.com/learnhub/backend/internal/utils"
)

// AdminHandler covers user moderation and the instructor-request queue.
type AdminHandler struct {
	svc *services.UserService
}

func NewAdminHandler(svc *services.UserService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 20))
	users, total, err := h.svc.List(c.Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	u, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": u})
}

type setRoleReq struct {
	Role string `json:"role" validate:"required,oneof=student instructor admin superadmin"`
}

func (h *AdminHandler) SetRole(c *fiber.Ctx) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	var req setRoleReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := utils.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": utils.FormatValidationErrors(err),
		})
	}
	if err := h.svc.SetRole(c.Context(), middleware.Role(c), id, models.Role(req.Role)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "role updated"})
}

type setStatusReq struct {
	Status string `json:"status" validate:"required,oneof=active banned"`
}

func (h *AdminHandler) SetStatus(c *fiber.Ctx) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	var req setStatusReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := utils.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": utils.FormatValidationErrors(err),
		})
	}
	if err := h.svc.SetStatus(c.Context(), id, models.UserStatus(req.Status)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "status updated"})
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "user deleted"})
}

// RequestInstructor is the student-facing side of the workflow.
func (h *AdminHandler) RequestInstructor(c *fiber.Ctx) error {
	if err := h.svc.RequestInstructor(c.Context(), middleware.UserID(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "instructor request submitted"})
}

func (h *AdminHandler) ApproveInstructor(c *fiber.Ctx) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.ApproveInstructor(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "instructor request approved"})
}
