package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/learnhub/backend/internal/middleware"
	"github.com/learnhub/backend/internal/services"
	"github.com/learnhub/backend/internal/utils"
)

type AuthHandler struct {
	svc          *services.AuthService
	cookieName   string
	cookieSecure bool
}

func NewAuthHandler(svc *services.AuthService, cookieName string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{svc: svc, cookieName: cookieName, cookieSecure: cookieSecure}
}

type registerReq struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := utils.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": utils.FormatValidationErrors(err),
		})
	}
	user, err := h.svc.Register(c.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "verification code sent",
		"user":    user,
	})
}

type verifyOTPReq struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := utils.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": utils.FormatValidationErrors(err),
		})
	}
	user, err := h.svc.VerifyOTP(c.Context(), req.Email, req.Code)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": user})
}

type resendOTPReq struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	var req resendOTPReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := utils.Validate(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid email")
	}
	if err := h.svc.ResendOTP(c.Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "verification code sent"})
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := utils.Validate(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "email and password required")
	}
	user, token, exp, err := h.svc.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Expires:  exp,
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return c.JSON(fiber.Map{"user": user})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return c.JSON(fiber.Map{"message": "logged out"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.svc.Me(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": user})
}
