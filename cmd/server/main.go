package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/estoque-lab/estoque/internal/config"
	"github.com/estoque-lab/estoque/internal/metrics"
	"github.com/estoque-lab/estoque/internal/repository"
	"github.com/estoque-lab/estoque/internal/repository/memory"
	"github.com/estoque-lab/estoque/internal/repository/mongodb"
	"github.com/estoque-lab/estoque/internal/repository/sheets"
	"github.com/estoque-lab/estoque/internal/scheduler"
	"github.com/estoque-lab/estoque/internal/server/handlers"
	"github.com/estoque-lab/estoque/internal/server/router"
	alertsvc "github.com/estoque-lab/estoque/internal/service/alerts"
	inventorysvc "github.com/estoque-lab/estoque/internal/service/inventory"
	reportingsvc "github.com/estoque-lab/estoque/internal/service/reporting"
	whatsappclient "github.com/estoque-lab/estoque/pkg/clients/whatsapp"
	"github.com/estoque-lab/estoque/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx := context.Background()

	store, err := newStore(ctx, cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init store", zap.Error(err))
	}

	var recorder inventorysvc.Recorder
	var metricsHandler http.Handler
	if cfg.Server.MetricsEnabled {
		m := metrics.New()
		recorder = m
		metricsHandler = m.Handler()
	}

	reporter := reportingsvc.NewReporter(reportingsvc.Options{
		Thresholds: reportingsvc.Thresholds{
			WarningDays:  cfg.Inventory.WarningDays,
			CriticalDays: cfg.Inventory.CriticalDays,
		},
		PageSize:      cfg.Inventory.PageSize,
		NormalizeKeys: cfg.Inventory.NormalizeKeys,
	}, baseLogger.Named("svc.reporting"))

	inventory := inventorysvc.NewService(store, reporter, inventorysvc.Options{
		CacheTTL: cfg.Inventory.CacheTTL,
		LogLimit: cfg.Inventory.LogDisplayLimit,
		Recorder: recorder,
	}, baseLogger.Named("svc.inventory"))

	if _, err := inventory.Refresh(ctx); err != nil {
		baseLogger.Warn("initial inventory load failed, will retry on first request", zap.Error(err))
	}

	var whatsClient whatsappclient.Client
	if cfg.WhatsApp.Enabled() {
		whatsClient = whatsappclient.NewClient(cfg.WhatsApp)
		baseLogger.Info("whatsapp alerts enabled")
	} else {
		baseLogger.Warn("whatsapp token missing, alerts will only be logged")
	}
	alerts := alertsvc.NewService(inventory, whatsClient, cfg.WhatsApp.AlertRecipient, baseLogger.Named("svc.alerts"))

	var archive scheduler.Archive
	if cfg.MongoDB.URI != "" {
		mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		archive = mongoRepo
	} else {
		baseLogger.Warn("mongodb uri missing, daily snapshots will not be archived")
	}

	sched, err := scheduler.NewScheduler(cfg.Reporting, inventory, archive, alerts, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	engine := router.New(
		handlers.NewInventoryHandler(inventory, baseLogger.Named("handlers.inventory")),
		handlers.NewAlertHandler(alerts, baseLogger.Named("handlers.alerts")),
		router.Options{AllowedOrigins: cfg.Server.AllowedOrigins, Metrics: metricsHandler},
		baseLogger.Named("router"),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("store", cfg.Store.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-sigCtx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Store, error) {
	if cfg.Store.Backend == config.BackendMemory {
		log.Warn("using in-memory store, data is lost on restart")
		return memory.NewStore(), nil
	}

	sheetsRepo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, log.Named("repo.sheets"))
	if err != nil {
		return nil, err
	}
	return sheets.NewInventoryStore(sheetsRepo, log.Named("repo.inventory")), nil
}
