package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"autopilot/internal/config"
	cronrunner "autopilot/internal/cron"
	"autopilot/internal/db"
	"autopilot/internal/executor"
	"autopilot/internal/handler"
	"autopilot/internal/identity"
	"autopilot/internal/logger"
	"autopilot/internal/monitor"
	"autopilot/internal/repository"
	gormrepository "autopilot/internal/repository/gorm"
	memoryrepository "autopilot/internal/repository/memory"
	"autopilot/internal/security"
	signalhub "autopilot/internal/signal"
	"autopilot/internal/strategy"
	"autopilot/internal/webhook"

	_ "autopilot/docs"
)

// @title Autopilot API
// @version 1.0
// @description Strategy lifecycle and trigger-driven execution service.
// @BasePath /
func main() {
	cfgPath := os.Getenv("AP_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("AP_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// An empty DSN keeps all state in process memory; anything else selects
	// the postgres backend.
	var store repository.Repository
	var dbConn *db.DB
	if cfg.DB.DSN != "" {
		dbConn, err = db.Open(cfg.DB)
		if err != nil {
			logger.Fatal("db open failed", zap.Error(err))
		}
		defer db.Close(dbConn)
		if err := db.AutoMigrate(dbConn); err != nil {
			logger.Fatal("auto-migrate failed", zap.Error(err))
		}
		store = gormrepository.New(dbConn.Gorm)
		logger.Info("repository backend: postgres")
	} else {
		store = memoryrepository.New()
		logger.Info("repository backend: memory")
	}

	registry := identity.NewRegistry(store, logger)
	posture := security.NewPosture(store, logger)
	strategyStore := &strategy.Store{Repo: store, Logger: logger}
	gate := &strategy.Gate{Store: strategyStore, Posture: posture, Logger: logger}
	submitter := &executor.LogSubmitter{Repo: store, Logger: logger, DryRun: cfg.Executor.DryRun}
	notifier := &webhook.Notifier{Repo: store, Logger: logger}

	hub := signalhub.NewHub(logger)
	if cfg.Feeds.FTSO.Enabled {
		hub.Register(&signalhub.FTSOCollector{
			HTTP:         &http.Client{Timeout: cfg.Feeds.FTSO.Timeout},
			Logger:       logger,
			Endpoint:     cfg.Feeds.FTSO.Endpoint,
			Symbols:      cfg.Feeds.FTSO.Symbols,
			PollInterval: cfg.Feeds.FTSO.PollInterval,
		})
	}
	if cfg.Feeds.Stream.Enabled {
		hub.Register(&signalhub.StreamCollector{
			URL:    cfg.Feeds.Stream.URL,
			Logger: logger,
		})
	}

	mon := &monitor.Monitor{
		Repo:      store,
		Gate:      gate,
		Hub:       hub,
		Submitter: submitter,
		Webhooks:  notifier,
		Logger:    logger,
	}
	var threatSources []monitor.ThreatSource
	for _, src := range cfg.Feeds.Threats.Sources {
		threatSources = append(threatSources, &monitor.HTTPThreatSource{
			SourceName: src.Name,
			Endpoint:   src.Endpoint,
			HTTP:       &http.Client{Timeout: src.Timeout},
		})
	}
	scanner := &monitor.SecurityScanner{
		Posture:    posture,
		Hub:        hub,
		Sources:    threatSources,
		AnomalyPct: cfg.Feeds.Threats.AnomalyPct,
		Logger:     logger,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(handler.CORSMiddleware())

	healthHandler := &handler.HealthHandler{}
	if dbConn != nil {
		healthHandler.DB = dbConn.Gorm
	}
	healthHandler.Register(engine)
	handler.RegisterDocs(engine)

	authHandler := &handler.AuthHandler{Registry: registry}
	authHandler.Register(engine)

	api := engine.Group("/api")
	api.Use(handler.AuthMiddleware(registry))
	authHandler.RegisterProtected(api)
	strategyHandler := &handler.StrategyHandler{
		Store:      strategyStore,
		Breaker:    posture,
		Executions: store,
	}
	strategyHandler.Register(api)
	securityHandler := &handler.SecurityHandler{
		Posture:      posture,
		AdminAddress: cfg.Security.AdminAddress,
		Denylist:     cfg.Security.Denylist,
	}
	securityHandler.Register(api)
	priceHandler := &handler.PriceHandler{Hub: hub}
	priceHandler.Register(api)
	webhookHandler := &handler.WebhookHandler{Notifier: notifier}
	webhookHandler.Register(api)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := hub.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("signal hub stopped", zap.Error(err))
		}
	}()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Monitor.Enabled {
		if _, err := cronRunner.Add("monitor_tick", cfg.Monitor.TickSpec, mon.Tick); err != nil {
			logger.Warn("monitor tick registration failed", zap.Error(err))
		}
		if _, err := cronRunner.Add("security_scan", cfg.Monitor.SecurityScan, scanner.Scan); err != nil {
			logger.Warn("security scan registration failed", zap.Error(err))
		}
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
