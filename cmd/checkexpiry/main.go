// Command checkexpiry runs exactly one expiry-alert cycle and exits. It
// shares the scheduler's code path, so an operator can verify the pipeline
// outside the daily trigger. Exit status reports success or failure.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"license-tracker/internal/alert"
	"license-tracker/internal/config"
	"license-tracker/internal/database"
	"license-tracker/internal/logging"
	"license-tracker/internal/mail"
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

	// Ctrl-C cancels in-flight store and email calls
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runner.RunCycle(ctx); err != nil {
		logger.Error("manual alert cycle failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("manual alert cycle complete")
}
