package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/learnhub/backend/internal/middleware"
	"github.com/learnhub/backend/internal/models"
	"github.com/learnhub/backend/internal/repository"
	"github.com/learnhub/backend/internal/services"
	"github.com/learnhub/backend/internal/utils"
)

type CourseHandler struct {
	svc *services.CourseService
}

func NewCourseHandler(svc *services.CourseService) *CourseHandler {
	return &CourseHandler{svc: svc}
}

type courseReq struct {
	Title       string  `json:"title" validate:"required,min=3,max=200"`
	Description string  `json:"description" validate:"max=5000"`
	CategoryID  string  `json:"category_id"`
	Price       float64 `json:"price" validate:"gte=0"`
	Level       string  `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
}

func (r courseReq) toInput() (services.CourseInput, error) {
	in := services.CourseInput{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Level:       models.CourseLevel(r.Level),
	}
	if r.CategoryID != "" {
		cid, err := primitive.ObjectIDFromHex(r.CategoryID)
		if err != nil {
			return in, fiber.NewError(fiber.StatusBadRequest, "invalid category_id")
		}
		in.CategoryID = cid
	}
	return in, nil
}

func (h *CourseHandler) Create(c *fiber.Ctx) error {
	var req courseReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := utils.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": utils.FormatValidationErrors(err),
		})
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}
	course, err := h.svc.Create(c.Context(), middleware.UserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"course": course})
}

func (h *CourseHandler) List(c *fiber.Ctx) error {
	f := repository.CourseFilter{
		Search: c.Query("search"),
		Level:  models.CourseLevel(c.Query("level")),
		Page:   int64(c.QueryInt("page", 1)),
		Limit:  int64(c.QueryInt("limit", 20)),
	}
	if cat := c.Query("category"); cat != "" {
		cid, err := primitive.ObjectIDFromHex(cat)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid category")
		}
		f.CategoryID = cid
	}
	courses, total, err := h.svc.ListPublished(c.Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"courses": courses, "total": total, "page": f.Page})
}

func (h *CourseHandler) ListMine(c *fiber.Ctx) error {
	courses, err := h.svc.ListByInstructor(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"courses": courses})
}

// Get returns the course detail. Drafts are only visible to their owner and
// to admins.
func (h *CourseHandler) Get(c *fiber.Ctx) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.svc.Detail(c.Context(), id)
	if err != nil {
		return err
	}
	if !detail.Published {
		role := middleware.Role(c)
		owner := detail.InstructorID == middleware.UserID(c)
		if !owner && role != models.RoleAdmin && role != models.RoleSuperadmin {
			return fiber.NewError(fiber.StatusNotFound, "resource not found")
		}
	}
	return c.JSON(fiber.Map{"course": detail})
}

func (h *CourseHandler) Update(c *fiber.Ctx) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	var req courseReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}
	course, err := h.svc.Update(c.Context(), id, middleware.UserID(c), middleware.Role(c), in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"course": course})
}

func (h *CourseHandler) TogglePublish(c *fiber.Ctx) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	course, err := h.svc.TogglePublish(c.Context(), id, middleware.UserID(c), middleware.Role(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"course": course})
}

func (h *CourseHandler) Delete(c *fiber.Ctx) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Context(), id, middleware.UserID(c), middleware.Role(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "course deleted"})
}

func objectIDParam(c *fiber.Ctx, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Params(name))
	if err != nil {
		return primitive.NilObjectID, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}
