package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/forma-studio/forma-portal/internal/auth"
	"github.com/forma-studio/forma-portal/internal/config"
	"github.com/forma-studio/forma-portal/internal/database"
	"github.com/forma-studio/forma-portal/internal/handlers"
	"github.com/forma-studio/forma-portal/internal/middleware"
	"github.com/forma-studio/forma-portal/internal/models"
	"github.com/forma-studio/forma-portal/internal/notify"
	"github.com/forma-studio/forma-portal/internal/ratelimit"
	"github.com/forma-studio/forma-portal/internal/services"
	"github.com/forma-studio/forma-portal/internal/storage"
	"github.com/forma-studio/forma-portal/internal/types"

	_ "github.com/forma-studio/forma-portal/docs/api" // Swagger docs
)

// @title Forma Portal API
// @version 1.0.0
// @description Lead management and consultation booking service for Forma architecture studio
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/forma-studio/forma-portal

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	mailer := notify.NewMailer(cfg)

	var store storage.ObjectStore
	if s3, err := storage.NewS3Store(cfg); err != nil {
		log.Printf("Object storage disabled: %v", err)
	} else {
		store = s3
	}

	var limiter ratelimit.Limiter
	if cfg.RateLimitEnabled {
		limiter = ratelimit.NewMemoryLimiter()
	}

	// Services
	authService := services.NewAuthService(db, jwtManager)
	availabilityService := services.NewAvailabilityService(db)
	requestService := services.NewRequestService(db, mailer)
	estimateService := services.NewEstimateService(db, mailer)
	fileService := services.NewFileService(db, store)
	reminderService := services.NewReminderService(db, mailer)
	contactService := services.NewContactService(db, mailer)
	contentService := services.NewContentService(db)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("forma-portal")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Create handlers
	authHandler := &handlers.AuthHandler{Auth: authService, Limiter: limiter}
	availabilityHandler := &handlers.AvailabilityHandler{Availability: availabilityService}
	requestHandler := &handlers.RequestHandler{Requests: requestService, Limiter: limiter}
	estimateHandler := &handlers.EstimateHandler{Estimates: estimateService}
	fileHandler := &handlers.FileHandler{Files: fileService, Requests: requestService}
	uploadHandler := &handlers.UploadHandler{Store: store}
	contactHandler := &handlers.ContactHandler{Contact: contactService, Limiter: limiter}
	cronHandler := &handlers.CronHandler{Reminders: reminderService}
	contentHandler := &handlers.ContentHandler{Content: contentService}
	healthHandler := &handlers.HealthHandler{Config: cfg, DB: db}

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.LocaleMiddleware())

	requireUser := middleware.RequireUser(authService)
	requireStaff := middleware.RequireRoles(authService, models.AdminRoles)
	requireSales := middleware.RequireRoles(authService, models.SalesRoles)

	// Public routes
	api.Get("/health", healthHandler.Check)
	api.Get("/availability", availabilityHandler.ListFree)
	api.Get("/projects", contentHandler.ListProjects)
	api.Get("/projects/:slug", contentHandler.GetProject)
	api.Get("/content/:key", contentHandler.GetContentBlock)
	api.Post("/contact", contactHandler.Submit)

	// Account routes
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/signin", authHandler.SignIn)
	api.Get("/auth/me", requireUser, authHandler.Me)

	// Client portal routes
	api.Post("/requests", requireUser, requestHandler.Create)
	api.Get("/requests", requireUser, requestHandler.ListMine)
	api.Get("/requests/:id", requireUser, requestHandler.Get)
	api.Post("/requests/:id/messages", requireUser, requestHandler.AppendMessage)
	api.Post("/requests/:id/files", requireUser, fileHandler.Append)
	api.Get("/files/:id/download", requireUser, fileHandler.Download)
	api.Delete("/files/:id", requireUser, fileHandler.Delete)
	api.Post("/uploads/presign", requireUser, uploadHandler.Presign)

	// Back office routes
	admin := api.Group("/admin")
	admin.Get("/requests", requireStaff, requestHandler.ListAll)
	admin.Patch("/requests/:id/status", requireSales, requestHandler.UpdateStatus)
	admin.Put("/requests/:id/estimate", requireSales, estimateHandler.Attach)
	admin.Get("/availability", requireStaff, availabilityHandler.ListAll)
	admin.Post("/availability", requireSales, availabilityHandler.Create)
	admin.Delete("/availability/:id", requireSales, availabilityHandler.Delete)

	// Scheduler routes
	api.Post("/cron/reminders", middleware.RequireCronSecret(cfg.CronSecret), cronHandler.SweepReminders)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	var fiberErr *fiber.Error
	var customErr *types.CustomError
	switch {
	case errors.As(err, &customErr):
		code = customErr.Code
		message = customErr.Message
		errorType = customErr.Type
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
