package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/learnhub/backend/internal/services"
	"github.com/learnhub/backend/internal/utils"
)

type CategoryHandler struct {
	svc *services.CategoryService
}

func NewCategoryHandler(svc *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

type categoryReq struct {
	Name          string   `json:"name" validate:"required,min=1,max=100"`
	Subcategories []string `json:"subcategories" validate:"dive,min=1,max=100"`
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req categoryReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := utils.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": utils.FormatValidationErrors(err),
		})
	}
	cat, err := h.svc.Create(c.Context(), req.Name, req.Subcategories)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"category": cat})
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.svc.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"categories": cats})
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	var req categoryReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	cat, err := h.svc.Update(c.Context(), id, req.Name, req.Subcategories)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"category": cat})
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "category deleted"})
}
