package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/app"
	"github.com/mamadbah2/hatchery/internal/config"
	"github.com/mamadbah2/hatchery/internal/repository/sheets"
	"github.com/mamadbah2/hatchery/internal/scheduler"
	"github.com/mamadbah2/hatchery/internal/server/handlers"
	"github.com/mamadbah2/hatchery/internal/server/router"
	datasheetsvc "github.com/mamadbah2/hatchery/internal/service/datasheet"
	reportingsvc "github.com/mamadbah2/hatchery/internal/service/reporting"
	whatsappsvc "github.com/mamadbah2/hatchery/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/hatchery/pkg/clients/whatsapp"
	"github.com/mamadbah2/hatchery/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	source, closeSource, err := app.OpenSource(context.Background(), cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init batch source", zap.String("source", cfg.Source.Kind), zap.Error(err))
	}
	defer func() {
		if err := closeSource(context.Background()); err != nil {
			baseLogger.Error("failed to close batch source", zap.Error(err))
		}
	}()

	engine, loc, err := app.NewEngine(cfg)
	if err != nil {
		baseLogger.Fatal("failed to init sheet engine", zap.Error(err))
	}

	var notifier whatsappsvc.Notifier
	if cfg.WhatsApp.Enabled() {
		notifier = whatsappsvc.NewAlertService(cfg.WhatsApp, whatsappclient.NewClient(cfg.WhatsApp), baseLogger.Named("svc.whatsapp"))
		baseLogger.Info("whatsapp alerts enabled")
	} else {
		baseLogger.Warn("whatsapp token missing, alerts disabled")
	}

	dataSvc := datasheetsvc.NewService(source, engine, notifier, baseLogger.Named("svc.datasheet"))

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		dataSvc.EnablePublishing(sheetsRepo, cfg.Sheets.Range)
	}

	// A failed initial load leaves an empty sheet until the next reload.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), time.Minute)
	_, _ = dataSvc.Reload(loadCtx)
	cancelLoad()

	reportingSvc := reportingsvc.NewService(dataSvc, baseLogger.Named("svc.reporting"))

	sched := scheduler.NewScheduler(cfg.Schedule, loc, dataSvc, reportingSvc, notifier, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	dataHandler := handlers.NewDataSheetHandler(dataSvc, baseLogger.Named("handlers.datasheet"))
	engineHTTP := router.New(dataHandler, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engineHTTP,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
