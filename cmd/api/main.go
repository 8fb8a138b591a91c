package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/truth-meter/backend/internal/analytics"
	"github.com/truth-meter/backend/internal/api/handlers"
	"github.com/truth-meter/backend/internal/cache/redis"
	"github.com/truth-meter/backend/internal/evaluation"
	"github.com/truth-meter/backend/internal/judge"
	"github.com/truth-meter/backend/internal/metrics"
	"github.com/truth-meter/backend/internal/provider"
	"github.com/truth-meter/backend/internal/storage/sqlite"
	"github.com/truth-meter/backend/pkg/config"
	appLogger "github.com/truth-meter/backend/pkg/logger"
)

func main() {
	// Local deployments keep provider secrets in a .env file.
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Truth Meter API Server")

	metrics.Init()

	store, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer store.Close()

	err = store.InitSchema()
	if err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	var cache *redis.Client
	if cfg.Redis.Enabled {
		cache, err = redis.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Redis.TTLSec)*time.Second,
		)
		if err != nil {
			appLogger.Warn("Redis unavailable, analytics caching disabled", zap.Error(err))
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	gateway := provider.NewGateway(context.Background(), provider.Config{
		OpenAIKey:    cfg.Providers.OpenAIKey,
		GoogleKey:    cfg.Providers.GoogleKey,
		AnthropicKey: cfg.Providers.AnthropicKey,
		DeepSeekKey:  cfg.Providers.DeepSeekKey,
		Timeout:      time.Duration(cfg.Providers.TimeoutSec) * time.Second,
	})

	truthJudge := judge.New(judge.Config{
		APIKey:      cfg.Judge.APIKey,
		Model:       cfg.Judge.Model,
		Temperature: cfg.Judge.Temperature,
		MaxTokens:   cfg.Judge.MaxTokens,
		Timeout:     time.Duration(cfg.Judge.TimeoutSec) * time.Second,
		MaxAttempts: cfg.Providers.MaxAttempts,
		BaseURL:     cfg.Judge.BaseURL,
	})

	orchestrator := evaluation.NewOrchestrator(store, gateway, truthJudge)
	aggregator := analytics.NewAggregator(store)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	questionHandler := handlers.NewQuestionHandler(store, cache)
	evaluationHandler := handlers.NewEvaluationHandler(orchestrator, store, cache)
	analyticsHandler := handlers.NewAnalyticsHandler(aggregator, cache)
	modelInfoHandler := handlers.NewModelInfoHandler(truthJudge)

	api := app.Group("/api")

	api.Get("/questions", questionHandler.ListQuestions)
	api.Post("/questions", questionHandler.CreateQuestion)
	api.Get("/questions/:id", questionHandler.GetQuestion)
	api.Delete("/questions/:id", questionHandler.DeleteQuestion)

	api.Post("/evaluations", evaluationHandler.RunEvaluation)
	api.Get("/evaluations", evaluationHandler.ListEvaluations)

	api.Get("/analytics/overview", analyticsHandler.GetOverview)
	api.Get("/analytics/by-subject", analyticsHandler.GetBySubject)
	api.Get("/analytics/by-model", analyticsHandler.GetByModel)

	api.Get("/model-info", modelInfoHandler.GetModelInfo)
	api.Get("/model-info/health", modelInfoHandler.GetHealth)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
