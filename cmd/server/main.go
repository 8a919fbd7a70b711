package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"newsroom/internal/analysis/openrouter"
	"newsroom/internal/api"
	"newsroom/internal/config"
	"newsroom/internal/identity/rest"
	"newsroom/internal/publisher"
	"newsroom/internal/service"
	"newsroom/internal/storage/postgres"
	"newsroom/internal/virality"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
		URL:        cfg.RabbitMQ.URL,
		Exchange:   cfg.RabbitMQ.Exchange,
		RoutingKey: cfg.RabbitMQ.RoutingKey,
		QueueName:  cfg.RabbitMQ.QueueName,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", "error", err)
		os.Exit(1)
	}
	defer rabbitMQ.Close()

	weights, err := virality.Load(cfg.Virality.KeywordsPath)
	if err != nil {
		logger.Error("failed to load keyword weights", "error", err)
		os.Exit(1)
	}
	logger.Info("loaded keyword weights", "keywords", len(weights))

	accountStore := postgres.NewAccountStore(db)
	articleStore := postgres.NewArticleStore(db)

	identityClient := rest.New(rest.Config{
		BaseURL:        cfg.Identity.BaseURL,
		APIKey:         cfg.Identity.APIKey,
		Timeout:        cfg.Identity.Timeout,
		MaxAttempts:    cfg.Identity.Retry.MaxAttempts,
		InitialBackoff: cfg.Identity.Retry.InitialBackoff,
		MaxBackoff:     cfg.Identity.Retry.MaxBackoff,
	}, logger)

	analyzer := openrouter.New(openrouter.Config{
		BaseURL: cfg.Analysis.BaseURL,
		APIKey:  cfg.Analysis.APIKey,
		Model:   cfg.Analysis.Model,
		Timeout: cfg.Analysis.Timeout,
	}, logger)

	registry := service.NewRegistry(accountStore, identityClient, rabbitMQ, logger)
	content := service.NewContent(articleStore, weights, rabbitMQ, logger)
	review := service.NewReview(analyzer, logger)

	server := api.NewServer(cfg.Server.Port, registry, content, review, identityClient, logger)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	logger.Info("starting server", "port", cfg.Server.Port)

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
