package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	_ "github.com/lib/pq"

	"quote-service/internal/ai/gemini"
	"quote-service/internal/config"
	"quote-service/internal/crops"
	"quote-service/internal/database/postgres"
	"quote-service/internal/database/redis"
	"quote-service/internal/event"
	"quote-service/internal/handlers"
	"quote-service/internal/rainfall"
	"quote-service/internal/repository"
	"quote-service/internal/services"
	"quote-service/internal/worker"
)

func setupLogging() (*os.File, error) {
	logDir := filepath.Join("/yieldera", "log", "quote_service")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	logFileName := fmt.Sprintf("log_%s.log", time.Now().Format("2006-01-02"))
	file, err := os.OpenFile(filepath.Join(logDir, logFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	slog.SetDefault(slog.New(slog.NewJSONHandler(io.MultiWriter(file, os.Stdout), nil)))
	return file, nil
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	cfg := config.New()
	logger := slog.Default()

	db, err := postgres.ConnectAndCreateDB(cfg.PostgresCfg)
	if err != nil {
		log.Printf("error connecting to database: %s", err)
		go postgres.RetryConnectOnFailed(30*time.Second, &db, cfg.PostgresCfg)
	}

	// Rainfall source, wrapped in a Redis read-through cache when available.
	var source rainfall.Source = rainfall.NewHTTPSource(cfg.RainfallCfg, logger)
	redisClient, err := redis.NewRedisClient(cfg.RedisCfg.Host, cfg.RedisCfg.Port, cfg.RedisCfg.Password, cfg.RedisCfg.DB)
	if err != nil {
		logger.Warn("redis unavailable, rainfall caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		source = rainfall.NewCachedSource(source, redisClient.GetClient(), cfg.RainfallCfg.CacheTTLHours, logger)
	}

	// Gemini executive summaries, one client per configured key.
	var summarizer services.Summarizer
	if cfg.GeminiCfg.APIKey != "" {
		var clients []gemini.GeminiClient
		for _, key := range strings.Split(cfg.GeminiCfg.APIKey, ",") {
			client, err := gemini.NewGenAIClient(strings.TrimSpace(key), cfg.GeminiCfg.FlashName, cfg.GeminiCfg.ProName)
			if err != nil {
				logger.Warn("failed to init Gemini client", "error", err)
				continue
			}
			clients = append(clients, *client)
		}
		if len(clients) > 0 {
			summarizer = services.NewSummaryService(gemini.NewGeminiClientSelector(clients))
		}
	}

	var publisher handlers.EventPublisher
	rabbitConn, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg)
	if err != nil {
		logger.Warn("rabbitmq unavailable, quote events disabled", "error", err)
	} else {
		defer rabbitConn.Close()
		publisher = event.NewQuotePublisher(rabbitConn)
	}

	registry := crops.NewRegistry()
	quoteService := services.NewQuoteService(cfg.EngineCfg, registry, source, summarizer, logger)
	fieldService := services.NewFieldService(repository.NewFieldRepository(db))
	quoteRepo := repository.NewQuoteRepository(db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool := worker.NewWorkingPool(cfg.EngineCfg.QuoteWorkers, cfg.EngineCfg.QuoteQueueLen)
	var poolWg sync.WaitGroup
	poolWg.Add(1)
	go pool.Start(ctx, &poolWg)

	app := fiber.New()
	app.Get("/checkhealth", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("Quote service is healthy")
	})

	handlers.NewQuoteHandler(quoteService, fieldService, quoteRepo, publisher, pool).Register(app)
	handlers.NewFieldHandler(fieldService).Register(app)
	handlers.NewCropHandler(registry).Register(app)

	go func() {
		<-ctx.Done()
		logger.Info("shutdown signal received")
		if err := app.Shutdown(); err != nil {
			logger.Error("fiber shutdown failed", "error", err)
		}
	}()

	logger.Info("quote service listening", "port", cfg.Port, "stress_model", cfg.EngineCfg.StressModel)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("server stopped: %v", err)
	}

	poolWg.Wait()
}
