package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadrouter_backend/internal/adapters/storage"
	"leadrouter_backend/internal/analyzers"
	"leadrouter_backend/internal/analyzers/clients"
	"leadrouter_backend/internal/analyzers/hoa"
	"leadrouter_backend/internal/analyzers/solar"
	"leadrouter_backend/internal/analyzers/water"
	"leadrouter_backend/internal/callrouter"
	"leadrouter_backend/internal/events"
	"leadrouter_backend/internal/gateway"
	apphttp "leadrouter_backend/internal/http"
	"leadrouter_backend/internal/http/router"
	"leadrouter_backend/internal/leads"
	leadsrepo "leadrouter_backend/internal/leads/repository"
	"leadrouter_backend/internal/notification"
	"leadrouter_backend/internal/risk"
	riskrepo "leadrouter_backend/internal/risk/repository"
	"leadrouter_backend/internal/scheduler"
	tenantrepo "leadrouter_backend/internal/tenant/repository"
	"leadrouter_backend/migrations"
	"leadrouter_backend/platform/config"
	"leadrouter_backend/platform/db"
	"leadrouter_backend/platform/logger"
	"leadrouter_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	// Without store credentials the call router degrades to its static
	// fallback response instead of failing; everything DB-backed stays nil.
	var pool *pgxpool.Pool
	if cfg.IsDatabaseConfigured() {
		if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
			return db.Migrate(cfg.GetDatabaseURL(), migrations.Files)
		}); err != nil {
			log.Error("failed to run database migrations", "error", err)
			panic("failed to run database migrations: " + err.Error())
		}
		log.Info("database migrations complete")

		if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
			p, err := db.NewPool(ctx, cfg)
			if err != nil {
				return err
			}
			pool = p
			return nil
		}); err != nil {
			log.Error("failed to connect to database", "error", err)
			panic("failed to connect to database: " + err.Error())
		}
		defer pool.Close()
		log.Info("database connection established")
	} else {
		log.Warn("DATABASE_URL not configured; running in degraded fallback mode")
	}

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	val := validator.New()

	// Storage for archived contract documents (MinIO), optional
	var storageSvc storage.StorageService
	if cfg.IsMinIOEnabled() {
		svc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		if err := withRetry(ctx, log, "ensure contract documents bucket", 5, 2*time.Second, func() error {
			return svc.EnsureBucketExists(ctx, cfg.GetMinioBucketContractDocuments())
		}); err != nil {
			log.Error("failed to ensure storage bucket exists", "error", err)
			panic("failed to ensure storage bucket exists: " + err.Error())
		}
		storageSvc = svc
		log.Info("storage service initialized", "contractDocumentsBucket", cfg.GetMinioBucketContractDocuments())
	} else {
		log.Warn("MINIO_ENDPOINT not configured; contract archiving disabled")
	}

	// Background queue for notification delivery, optional
	alertQueue, closeQueue := initAlertQueue(cfg, log)
	if closeQueue != nil {
		defer closeQueue()
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	var (
		leadsService *leads.Service
		riskService  *risk.Service
		riskRepo     *riskrepo.Repository
		callService  *callrouter.Service
		hoaRepo      *hoa.Repository
	)
	if pool != nil {
		leadsRepo := leadsrepo.New(pool)
		leadsService = leads.New(leadsRepo, eventBus)

		riskRepo = riskrepo.New(pool)
		riskService = risk.New(riskRepo, leadsRepo, eventBus)

		tenants := tenantrepo.New(pool)
		callService = callrouter.NewService(tenants, leadsService, riskService, eventBus, log)

		hoaRepo = hoa.NewRepository(pool)
	}

	// Notification module subscribes to domain events (not HTTP-facing)
	discord := notification.NewDiscordClient(log)
	notificationModule := notification.NewModule(discord, alertQueue, eventBus, log)
	notificationModule.RegisterEventHandlers(eventBus)

	// Analyzer endpoints: water zones, HOA knowledge base, solar contract scans
	solarService := initSolarService(ctx, cfg, riskService, riskRepo, storageSvc, log)
	analyzersModule := analyzers.NewModule(
		water.NewHandler(),
		hoa.NewHandler(hoaRepo, val, log),
		solar.NewHandler(solarService, val, log),
	)

	// Orchestration gateway fans out to the analyzers and the risk service
	analyzerClient := clients.New(cfg)
	gatewayModule := gateway.NewModule(gateway.NewHandler(riskService, analyzerClient, log))

	callRouterModule := callrouter.NewModule(callService, cfg, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	var health apphttp.HealthChecker
	if pool != nil {
		health = pool
	}

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   health,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			callRouterModule,
			analyzersModule,
			gatewayModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initSolarService builds the contract scanner when a Gemini key is present.
// Returns nil otherwise; the solar endpoint then answers 503.
func initSolarService(ctx context.Context, cfg *config.Config, risks *risk.Service, metrics *riskrepo.Repository, archive storage.StorageService, log *logger.Logger) *solar.Service {
	if !cfg.IsGeminiEnabled() {
		log.Warn("GOOGLE_GENERATIVE_AI_KEY not configured; solar contract scanning disabled")
		return nil
	}
	if risks == nil {
		log.Warn("database not configured; solar contract scanning disabled")
		return nil
	}

	extractor, err := solar.NewGeminiExtractor(ctx, cfg.GetGeminiAPIKey(), cfg.GetGeminiModel())
	if err != nil {
		log.Error("failed to initialize gemini extractor", "error", err)
		return nil
	}

	return solar.NewService(extractor, risks, metrics, archive, cfg.GetMinioBucketContractDocuments(), log)
}

// initAlertQueue wires the asynq client when Redis is configured.
func initAlertQueue(cfg config.SchedulerConfig, log *logger.Logger) (notification.TaskEnqueuer, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; call alerts are delivered inline")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
