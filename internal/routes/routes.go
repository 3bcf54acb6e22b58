package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/learnhub/backend/internal/handlers"
	"github.com/learnhub/backend/internal/middleware"
	"github.com/learnhub/backend/internal/models"
	"github.com/learnhub/backend/internal/ws"
)

// Deps carries everything route registration needs, so main stays a plain
// constructor pipeline.
type Deps struct {
	Auth          *middleware.Auth
	OTPLimiter    *middleware.RateLimiter
	LoginLimiter  *middleware.RateLimiter
	AuthHandler   *handlers.AuthHandler
	Courses       *handlers.CourseHandler
	Lessons       *handlers.LessonHandler
	Enrollments   *handlers.EnrollmentHandler
	Reviews       *handlers.ReviewHandler
	Notifications *handlers.NotificationHandler
	Categories    *handlers.CategoryHandler
	Admin         *handlers.AdminHandler
	WS            *ws.Handler
}

func Register(app *fiber.App, d Deps) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/ws", d.WS.Upgrade, websocket.New(d.WS.Serve))

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", d.OTPLimiter.ByIP(), d.AuthHandler.Register)
	auth.Post("/verify-otp", d.AuthHandler.VerifyOTP)
	auth.Post("/resend-otp", d.OTPLimiter.ByIP(), d.AuthHandler.ResendOTP)
	auth.Post("/login", d.LoginLimiter.ByIP(), d.AuthHandler.Login)
	auth.Post("/logout", d.AuthHandler.Logout)
	auth.Get("/me", d.Auth.Required(), d.AuthHandler.Me)

	instructorOrAdmin := middleware.RequireRoles(models.RoleInstructor, models.RoleAdmin, models.RoleSuperadmin)
	adminOnly := middleware.RequireRoles(models.RoleAdmin, models.RoleSuperadmin)

	courses := api.Group("/courses")
	courses.Get("/", d.Courses.List)
	courses.Get("/mine", d.Auth.Required(), instructorOrAdmin, d.Courses.ListMine)
	courses.Post("/", d.Auth.Required(), instructorOrAdmin, d.Courses.Create)
	courses.Get("/:id", d.Auth.Optional(), d.Courses.Get)
	courses.Put("/:id", d.Auth.Required(), instructorOrAdmin, d.Courses.Update)
	courses.Patch("/:id/publish", d.Auth.Required(), instructorOrAdmin, d.Courses.TogglePublish)
	courses.Delete("/:id", d.Auth.Required(), instructorOrAdmin, d.Courses.Delete)

	courses.Get("/:id/lessons", d.Auth.Required(), d.Lessons.ListByCourse)
	courses.Post("/:id/lessons", d.Auth.Required(), instructorOrAdmin, d.Lessons.Create)
	courses.Get("/:id/reviews", d.Reviews.ListByCourse)
	courses.Post("/:id/reviews", d.Auth.Required(), d.Reviews.Create)

	lessons := api.Group("/lessons", d.Auth.Required(), instructorOrAdmin)
	lessons.Put("/:id", d.Lessons.Update)
	lessons.Delete("/:id", d.Lessons.Delete)

	enrollments := api.Group("/enrollments", d.Auth.Required())
	enrollments.Get("/my", d.Enrollments.ListMine)
	enrollments.Post("/:courseId", d.Enrollments.Enroll)
	enrollments.Get("/:courseId/progress", d.Enrollments.Progress)
	enrollments.Patch("/:courseId/progress", d.Enrollments.MarkLessonComplete)
	enrollments.Get("/:courseId/certificate", d.Enrollments.Certificate)
	enrollments.Post("/:courseId/certificate/email", d.Enrollments.EmailCertificate)

	notifications := api.Group("/notifications", d.Auth.Required())
	notifications.Get("/", d.Notifications.List)
	notifications.Get("/unread-count", d.Notifications.UnreadCount)
	notifications.Patch("/:id/read", d.Notifications.MarkRead)

	categories := api.Group("/categories")
	categories.Get("/", d.Categories.List)
	categories.Post("/", d.Auth.Required(), adminOnly, d.Categories.Create)
	categories.Put("/:id", d.Auth.Required(), adminOnly, d.Categories.Update)
	categories.Delete("/:id", d.Auth.Required(), adminOnly, d.Categories.Delete)

	users := api.Group("/users", d.Auth.Required())
	users.Post("/instructor-request", d.Admin.RequestInstructor)

	admin := api.Group("/admin", d.Auth.Required(), adminOnly)
	admin.Post("/notifications/role", d.Notifications.Broadcast)
	admin.Get("/users", d.Admin.ListUsers)
	admin.Get("/users/:id", d.Admin.GetUser)
	admin.Patch("/users/:id/role", d.Admin.SetRole)
	admin.Patch("/users/:id/status", d.Admin.SetStatus)
	admin.Delete("/users/:id", middleware.RequireRoles(models.RoleSuperadmin), d.Admin.DeleteUser)
	admin.Patch("/instructor-requests/:id", d.Admin.ApproveInstructor)
}
