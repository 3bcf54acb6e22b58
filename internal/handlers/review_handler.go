package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/learnhub/backend/internal/middleware"
	"github.com/learnhub/backend/internal/services"
	"github.com/learnhub/backend/internal/utils"
)

type ReviewHandler struct {
	svc *services.ReviewService
}

func NewReviewHandler(svc *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

type reviewReq struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	courseID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	var req reviewReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := utils.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": utils.FormatValidationErrors(err),
		})
	}
	rv, err := h.svc.Create(c.Context(), middleware.UserID(c), courseID, req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"review": rv})
}

func (h *ReviewHandler) ListByCourse(c *fiber.Ctx) error {
	courseID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	reviews, err := h.svc.ListByCourse(c.Context(), courseID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"reviews": reviews})
}
