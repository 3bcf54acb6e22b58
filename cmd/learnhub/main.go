package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/learnhub/backend/internal/apperrors"
	"github.com/learnhub/backend/internal/brevo"
	"github.com/learnhub/backend/internal/certificate"
	"github.com/learnhub/backend/internal/config"
	"github.com/learnhub/backend/internal/database"
	"github.com/learnhub/backend/internal/handlers"
	"github.com/learnhub/backend/internal/logger"
	"github.com/learnhub/backend/internal/metrics"
	"github.com/learnhub/backend/internal/middleware"
	"github.com/learnhub/backend/internal/repository"
	"github.com/learnhub/backend/internal/routes"
	"github.com/learnhub/backend/internal/services"
	"github.com/learnhub/backend/internal/utils"
	"github.com/learnhub/backend/internal/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment")
	}

	configPath := os.Getenv("LEARNHUB_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	sugar, err := logger.New(cfg.App.Env == "development")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = sugar.Sync() }()
	sugar.Infof("starting learnhub in %s environment on port %d", cfg.App.Env, cfg.App.Port)

	db, mongoClient, err := database.ConnectMongo(cfg.Mongo.URI, cfg.Mongo.Database, sugar)
	if err != nil {
		sugar.Fatal(err)
	}
	rdb, err := database.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, sugar)
	if err != nil {
		sugar.Fatal(err)
	}

	jwtMgr, err := utils.NewJWTManager(cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath, cfg.JWT.AccessTTLMinutes, cfg.JWT.RefreshTTLDays)
	if err != nil {
		sugar.Fatalf("failed to load jwt keys: %v", err)
	}
	mailer := brevo.NewClient(cfg.Email.APIKey, cfg.Email.FromEmail, cfg.Email.FromName)

	userRepo := repository.NewMongoUserRepo(db)
	courseRepo := repository.NewMongoCourseRepo(db)
	lessonRepo := repository.NewMongoLessonRepo(db)
	enrollmentRepo := repository.NewMongoEnrollmentRepo(db)
	reviewRepo := repository.NewMongoReviewRepo(db)
	categoryRepo := repository.NewMongoCategoryRepo(db)
	notificationRepo := repository.NewMongoNotificationRepo(db)

	hub := ws.NewHub()
	deduper := services.NewRedisDeduper(rdb, cfg.DedupWindow)

	notificationSvc := services.NewNotificationService(notificationRepo, userRepo, deduper, hub, sugar)
	authSvc := services.NewAuthService(userRepo, rdb, jwtMgr, mailer,
		cfg.Security.OTPTTLMinutes, cfg.Security.OTPRequestsPerHour, cfg.Security.PasswordHashCost, sugar)
	courseSvc := services.NewCourseService(courseRepo, lessonRepo, reviewRepo)
	lessonSvc := services.NewLessonService(lessonRepo, courseRepo, enrollmentRepo)
	enrollmentSvc := services.NewEnrollmentService(enrollmentRepo, courseRepo, lessonRepo, notificationSvc, sugar)
	certificateSvc := services.NewCertificateService(enrollmentRepo, courseRepo, userRepo,
		certificate.NewRenderer(cfg.Certificate.Issuer), mailer, sugar)
	reviewSvc := services.NewReviewService(reviewRepo, enrollmentRepo)
	categorySvc := services.NewCategoryService(categoryRepo)
	userSvc := services.NewUserService(userRepo, notificationSvc, sugar)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		ErrorHandler: apperrors.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(middleware.RequestLogger(sugar))

	routes.Register(app, routes.Deps{
		Auth:          middleware.NewAuth(jwtMgr, userRepo, cfg.JWT.CookieName),
		OTPLimiter:    middleware.NewRateLimiter(rdb, "otp_ip", cfg.Security.OTPRequestsPerHour, time.Hour),
		LoginLimiter:  middleware.NewRateLimiter(rdb, "login_ip", cfg.Security.LoginAttemptsPerMin, time.Minute),
		AuthHandler:   handlers.NewAuthHandler(authSvc, cfg.JWT.CookieName, cfg.JWT.CookieSecure),
		Courses:       handlers.NewCourseHandler(courseSvc),
		Lessons:       handlers.NewLessonHandler(lessonSvc),
		Enrollments:   handlers.NewEnrollmentHandler(enrollmentSvc, certificateSvc),
		Reviews:       handlers.NewReviewHandler(reviewSvc),
		Notifications: handlers.NewNotificationHandler(notificationSvc),
		Categories:    handlers.NewCategoryHandler(categorySvc),
		Admin:         handlers.NewAdminHandler(userSvc),
		WS:            ws.NewHandler(hub, jwtMgr, sugar),
	})

	// Prometheus scrapes a side listener so the API port stays clean.
	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.MetricsPort),
		Handler: metrics.Handler(),
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Errorf("metrics server: %v", err)
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		sugar.Infof("server listening on %s", addr)
		if err := app.Listen(addr); err != nil {
			sugar.Fatalf("server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	sugar.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		sugar.Errorf("app shutdown: %v", err)
	}
	if err := metricsSrv.Shutdown(ctx); err != nil {
		sugar.Errorf("metrics shutdown: %v", err)
	}
	if err := mongoClient.Disconnect(ctx); err != nil {
		sugar.Errorf("mongo disconnect: %v", err)
	}
	if err := rdb.Close(); err != nil {
		sugar.Errorf("redis close: %v", err)
	}
	sugar.Info("shutdown complete")
}
