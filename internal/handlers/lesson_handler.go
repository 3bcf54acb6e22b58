package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/learnhub/backend/internal/middleware"
	"github.com/learnhub/backend/internal/models"
	"github.com/learnhub/backend/internal/services"
	"github.com/learnhub/backend/internal/utils"
)

type LessonHandler struct {
	svc *services.LessonService
}

func NewLessonHandler(svc *services.LessonService) *LessonHandler {
	return &LessonHandler{svc: svc}
}

type lessonReq struct {
	Title     string            `json:"title" validate:"required,min=1,max=200"`
	Position  int               `json:"position" validate:"gte=0"`
	Resources []models.Resource `json:"resources" validate:"dive"`
}

func (h *LessonHandler) Create(c *fiber.Ctx) error {
	courseID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	var req lessonReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := utils.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": utils.FormatValidationErrors(err),
		})
	}
	lesson, err := h.svc.Create(c.Context(), courseID, middleware.UserID(c), middleware.Role(c), services.LessonInput{
		Title:     req.Title,
		Position:  req.Position,
		Resources: req.Resources,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"lesson": lesson})
}

func (h *LessonHandler) Update(c *fiber.Ctx) error {
	lessonID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	var req lessonReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	lesson, err := h.svc.Update(c.Context(), lessonID, middleware.UserID(c), middleware.Role(c), services.LessonInput{
		Title:     req.Title,
		Position:  req.Position,
		Resources: req.Resources,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"lesson": lesson})
}

func (h *LessonHandler) Delete(c *fiber.Ctx) error {
	lessonID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Context(), lessonID, middleware.UserID(c), middleware.Role(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "lesson deleted"})
}

func (h *LessonHandler) ListByCourse(c *fiber.Ctx) error {
	courseID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	lessons, err := h.svc.ListForViewer(c.Context(), courseID, middleware.UserID(c), middleware.Role(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"lessons": lessons})
}
