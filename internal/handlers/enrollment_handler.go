package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/learnhub/backend/internal/middleware"
	"github.com/learnhub/backend/internal/services"
	"github.com/learnhub/backend/internal/utils"
)

type EnrollmentHandler struct {
	svc   *services.EnrollmentService
	certs *services.CertificateService
}

func NewEnrollmentHandler(svc *services.EnrollmentService, certs *services.CertificateService) *EnrollmentHandler {
	return &EnrollmentHandler{svc: svc, certs: certs}
}

type enrollReq struct {
	PricePaid float64 `json:"price_paid" validate:"gte=0"`
}

func (h *EnrollmentHandler) Enroll(c *fiber.Ctx) error {
	courseID, err := objectIDParam(c, "courseId")
	if err != nil {
		return err
	}
	var req enrollReq
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid body")
		}
	}
	if err := utils.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": utils.FormatValidationErrors(err),
		})
	}
	e, err := h.svc.Enroll(c.Context(), middleware.UserID(c), courseID, req.PricePaid)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"enrollment": e})
}

func (h *EnrollmentHandler) ListMine(c *fiber.Ctx) error {
	list, err := h.svc.ListMine(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"enrollments": list})
}

type progressReq struct {
	LessonID string `json:"lesson_id" validate:"required"`
}

func (h *EnrollmentHandler) MarkLessonComplete(c *fiber.Ctx) error {
	courseID, err := objectIDParam(c, "courseId")
	if err != nil {
		return err
	}
	var req progressReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := utils.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": utils.FormatValidationErrors(err),
		})
	}
	lessonID, err := primitive.ObjectIDFromHex(req.LessonID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid lesson_id")
	}
	e, err := h.svc.MarkLessonComplete(c.Context(), middleware.UserID(c), courseID, lessonID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"enrollment": e})
}

func (h *EnrollmentHandler) Progress(c *fiber.Ctx) error {
	courseID, err := objectIDParam(c, "courseId")
	if err != nil {
		return err
	}
	e, err := h.svc.Progress(c.Context(), middleware.UserID(c), courseID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":            e.Status,
		"progress":          e.Progress,
		"completed_lessons": e.CompletedLessons,
		"completed_at":      e.CompletedAt,
	})
}

// Certificate streams the completion certificate as a PDF download.
func (h *EnrollmentHandler) Certificate(c *fiber.Ctx) error {
	courseID, err := objectIDParam(c, "courseId")
	if err != nil {
		return err
	}
	pdf, filename, err := h.certs.Generate(c.Context(), middleware.UserID(c), courseID)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdf)
}

func (h *EnrollmentHandler) EmailCertificate(c *fiber.Ctx) error {
	courseID, err := objectIDParam(c, "courseId")
	if err != nil {
		return err
	}
	if err := h.certs.EmailCertificate(c.Context(), middleware.UserID(c), courseID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "certificate sent"})
}
