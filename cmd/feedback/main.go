package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/avaliafacil/feedback/internal/feedback/config"
	"github.com/avaliafacil/feedback/internal/feedback/controller"
	"github.com/avaliafacil/feedback/internal/feedback/db"
	"github.com/avaliafacil/feedback/internal/feedback/events"
	"github.com/avaliafacil/feedback/internal/feedback/handlers"
	"github.com/avaliafacil/feedback/internal/feedback/metrics"
	"github.com/avaliafacil/feedback/internal/feedback/notifier"
)

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Error("failed to sync logger", zap.Error(err))
		}
	}(logger)

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	metrics.Init()

	repo, err := db.NewRepository(&db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Fatal("failed to initialize database", err)
	}

	producer, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
	if err != nil {
		log.Fatal("failed to initialize Kafka producer", err)
	}
	defer producer.Close()

	webhooks := notifier.New(
		cfg.DefaultWebhookURL,
		time.Duration(cfg.WebhookTimeoutSeconds)*time.Second,
		logger,
	)
	defer webhooks.Close()

	accountSvc := controller.NewAccountService(repo, logger, cfg.JWTSecret)
	reviewSvc := controller.NewReviewService(repo, producer, webhooks, logger)
	dashboardSvc := controller.NewDashboardService(repo, logger)
	attendantSvc := controller.NewAttendantService(repo, producer, logger)
	companySvc := controller.NewCompanyService(repo, producer, logger)
	adminSvc := controller.NewAdminService(repo, producer, logger)
	suggestionSvc := controller.NewSuggestionService(repo, logger)
	resolver := controller.NewTenantResolver(repo, logger)

	if err := accountSvc.EnsureAdmin(context.Background(), "Gestor Admin", cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Fatal("failed to seed admin", zap.Error(err))
	}

	handler := handlers.NewHandler(
		accountSvc,
		reviewSvc,
		dashboardSvc,
		attendantSvc,
		companySvc,
		adminSvc,
		suggestionSvc,
		resolver,
		logger,
		cfg.JWTSecret,
	)

	server := handlers.NewServer(cfg.HTTPPort, handler.Router(), logger)
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	waitForShutdown(server, logger)
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

// loadConfig loads configuration. Use real config tooling (e.g. Viper) in production.
func loadConfig() (*config.Config, error) {
	configPath := filepath.Join("internal", "feedback", "config", "config.yaml")
	return config.Load(configPath)
}

// waitForShutdown blocks until an interrupt or SIGTERM is received, then shuts down the server.
func waitForShutdown(server *handlers.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	server.Stop()
	logger.Info("Server stopped properly")
}
