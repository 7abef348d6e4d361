package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"

	"license-tracker/internal/alert"
	"license-tracker/internal/config"
	"license-tracker/internal/crypto"
	"license-tracker/internal/database"
	"license-tracker/internal/handler"
	"license-tracker/internal/logging"
	"license-tracker/internal/mail"
	"license-tracker/internal/middleware"
	"license-tracker/internal/service"
	"license-tracker/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration: ", err)
	}

	logger, err := logging.New(cfg.Logging.Level)
	if err != nil {
		log.Fatal("failed to build logger: ", err)
	}
	defer logger.Sync()

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}

	cipher, err := crypto.NewKeyCipher(cfg.Auth.EncryptionKey)
	if err != nil {
		logger.Fatal("failed to build key cipher", zap.Error(err))
	}

	sheets, err := service.NewSheetExportService(cfg.Sheets, logger)
	if err != nil {
		logger.Fatal("failed to build sheet export", zap.Error(err))
	}

	h := handler.New(db, cipher, cfg.Auth.JWTSecret, sheets)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(fiberlogger.New())
	app.Use(cors.New())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", h.HandleRegister)
	auth.Post("/login", h.HandleLogin)

	requireAuth := middleware.Auth(cfg.Auth.JWTSecret)

	products := api.Group("/products", requireAuth)
	products.Post("/", h.HandleProductCreate)
	products.Get("/", h.HandleProductList)
	products.Put("/:id", h.HandleProductUpdate)
	products.Delete("/:id", h.HandleProductDelete)

	licenses := api.Group("/licenses", requireAuth)
	licenses.Post("/", h.HandleLicenseCreate)
	licenses.Get("/", h.HandleLicenseList)
	licenses.Put("/:id", h.HandleLicenseUpdate)
	licenses.Delete("/:id", h.HandleLicenseDelete)

	notifications := api.Group("/notifications", requireAuth)
	notifications.Get("/", h.HandleNotificationList)
	notifications.Put("/:id/read", h.HandleNotificationRead)

	api.Get("/cost/summary", requireAuth, h.HandleCostSummary)

	// Alert pipeline
	dispatchTimeout := time.Duration(cfg.Alert.DispatchTimeoutSeconds) * time.Second
	scanner := alert.NewScanner(store.NewLicenseStore(db), dispatchTimeout, logger)
	var emailSender alert.EmailSender
	if s := mail.NewSMTPSender(cfg.SMTP); s != nil {
		emailSender = s
	}
	dispatcher := alert.NewDispatcher(
		store.NewNotificationStore(db),
		store.NewMarkerStore(db),
		emailSender,
		dispatchTimeout,
		logger,
	)
	runner := alert.NewRunner(scanner, dispatcher, cfg.Alert.LeadDays, cfg.Alert.Schedule, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runner.Start(ctx); err != nil {
		logger.Fatal("failed to start alert scheduler", zap.Error(err))
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		runner.Stop()
		_ = app.Shutdown()
	}()

	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
