package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/becomingxdev/CrisisCheckTest1/internal/config"
	"github.com/becomingxdev/CrisisCheckTest1/internal/database"
	"github.com/becomingxdev/CrisisCheckTest1/internal/handlers"
	"github.com/becomingxdev/CrisisCheckTest1/internal/middleware"
	"github.com/becomingxdev/CrisisCheckTest1/internal/repository"
	"github.com/becomingxdev/CrisisCheckTest1/internal/router"
	"github.com/becomingxdev/CrisisCheckTest1/internal/services"
	"github.com/becomingxdev/CrisisCheckTest1/internal/session"
	"github.com/becomingxdev/CrisisCheckTest1/internal/websocket"
	"github.com/becomingxdev/CrisisCheckTest1/internal/worker"
)

func newLogger(env string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(fmt.Sprintf("failed to build logger: %v", err))
	}
	return logger
}

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	logger := newLogger(cfg.Env)
	defer logger.Sync()

	logger.Info("🚀 Starting CrisisGuard backend...")
	logger.Info("✓ Environment variables loaded", zap.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ──── Step 2: Stores (PostgreSQL or in-memory) ────
	var (
		reportStore    repository.ReportStore
		volunteerStore repository.VolunteerStore
		settingsStore  repository.SettingsStore
		readiness      = map[string]handlers.Pinger{}
	)
	if cfg.DatabaseURL != "" {
		pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("✗ PostgreSQL connection failed", zap.Error(err))
		}
		defer pool.Close()
		logger.Info("✓ PostgreSQL connected")

		if err := database.RunMigrations(ctx, pool, cfg.MigrationsDir, logger); err != nil {
			logger.Fatal("✗ Database migration failed", zap.Error(err))
		}
		logger.Info("✓ Database migrations applied")

		reportStore = repository.NewReportRepo(pool)
		volunteerStore = repository.NewVolunteerRepo(pool)
		settingsStore = repository.NewSettingsRepo(pool)
		readiness["postgres"] = handlers.PingFunc(pool.Ping)
	} else {
		reportStore = repository.NewMemoryReportRepo(repository.SeedReports())
		volunteerStore = repository.NewMemoryVolunteerRepo(repository.SeedVolunteers())
		settingsStore = repository.NewMemorySettingsRepo(repository.SeedSettings())
		logger.Warn("DATABASE_URL not set, using in-memory stores")
	}

	// ──── Step 3: Redis (optional) ────
	var (
		redisClients *database.RedisClients
		verdictCache services.VerdictCache
		queue        worker.Queue
	)
	if cfg.RedisURL != "" {
		var err error
		redisClients, err = database.NewRedisClients(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal("✗ Redis connection failed", zap.Error(err))
		}
		defer redisClients.Close()
		logger.Info("✓ Redis connected")

		verdictCache = services.NewRedisVerdictCache(redisClients.Data, cfg.FactCheckCacheTTL, logger)
		queue = worker.NewRedisQueue(redisClients.Data)
		readiness["redis"] = redisClients
	} else {
		queue = worker.NewChanQueue(64)
		logger.Warn("REDIS_URL not set, fact-check cache disabled and report jobs stay in-process")
	}

	// ──── Step 4: Model Provider ────
	generator, err := services.NewTextGenerator(ctx, cfg.AI.ProviderConfig(), logger)
	if err != nil {
		logger.Fatal("✗ AI provider initialization failed", zap.Error(err))
	}
	defer generator.Close()
	logger.Info("✓ AI provider initialized", zap.String("provider", cfg.AI.Provider))

	// ──── Step 5: Services ────
	var wsHub *websocket.Hub
	if redisClients != nil {
		wsHub = websocket.NewHub(redisClients.PubSub, logger)
	} else {
		wsHub = websocket.NewHub(nil, logger)
	}

	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	authService, err := services.NewAuthService(services.DefaultAccounts(
		cfg.AdminUsername, cfg.AdminPassword,
		cfg.VolunteerUsername, cfg.VolunteerPassword,
	), jwtAuth)
	if err != nil {
		logger.Fatal("✗ Auth service initialization failed", zap.Error(err))
	}

	assistant := services.NewAssistantService(generator, verdictCache, cfg.AI.Timeout, logger)
	reportService := services.NewReportService(reportStore, wsHub, queue, logger)
	volunteerService := services.NewVolunteerService(volunteerStore, wsHub, logger)
	settingsService := services.NewSettingsService(settingsStore, wsHub)
	dashboardService := services.NewDashboardService(reportStore, volunteerStore, repository.DashboardBaseline())
	registry := session.NewRegistry(assistant, cfg.SessionIdle, logger)

	// ──── Step 6: Background Workers ────
	var background sync.WaitGroup

	workerPool := worker.NewPool(queue, assistant, reportService, cfg.ReportWorkers, logger)
	workerPool.Start(ctx)
	logger.Info("✓ Worker pool started", zap.Int("workers", cfg.ReportWorkers))

	background.Add(2)
	go func() {
		defer background.Done()
		wsHub.Run(ctx)
	}()
	go func() {
		defer background.Done()
		registry.Run(ctx, time.Minute)
	}()
	logger.Info("✓ WebSocket hub and session janitor started")

	// ──── Step 7: HTTP Server ────
	r := router.New(
		router.Handlers{
			Auth:       handlers.NewAuthHandler(authService),
			Assistant:  handlers.NewAssistantHandler(assistant, logger),
			Sessions:   handlers.NewSessionHandler(registry),
			Reports:    handlers.NewReportHandler(reportService),
			Volunteers: handlers.NewVolunteerHandler(volunteerService),
			Settings:   handlers.NewSettingsHandler(settingsService),
			Dashboard:  handlers.NewDashboardHandler(dashboardService),
			Health:     handlers.NewHealthHandler(readiness),
			WebSocket:  wsHub.HandleWebSocket,
		},
		jwtAuth,
		middleware.NewRateLimiter(ctx, 30, time.Minute),
		middleware.NewRateLimiter(ctx, 10, time.Minute),
		cfg.FrontendURL,
		logger,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AI.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP shutdown failed", zap.Error(err))
		}
		wsHub.Close()
	}()

	logger.Info("✓ CrisisGuard backend ready",
		zap.String("api", fmt.Sprintf("http://localhost:%s/api", cfg.Port)),
		zap.String("ws", fmt.Sprintf("ws://localhost:%s/api/ws", cfg.Port)))

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server error", zap.Error(err))
	}

	workerPool.Wait()
	background.Wait()
	registry.Close()
	logger.Info("Shutdown complete")
}
