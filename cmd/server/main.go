package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/nexus/api/handler"
	"github.com/fastygo/nexus/internal/app"
	"github.com/fastygo/nexus/internal/config"
	"github.com/fastygo/nexus/internal/infrastructure/monitor"
	"github.com/fastygo/nexus/internal/metrics"
	"github.com/fastygo/nexus/internal/middleware"
	"github.com/fastygo/nexus/internal/router"
	"github.com/fastygo/nexus/internal/services"
	"github.com/fastygo/nexus/internal/services/lifecycle"
	"github.com/fastygo/nexus/pkg/httpcontext"
	"github.com/fastygo/nexus/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, stop := manager.Listen(context.Background())
	defer stop()

	nexus, err := app.New(appCtx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("application setup failed", zap.Error(err))
	}
	manager.RegisterCloser("store", nexus)

	mon := monitor.New(nexus.Store, cfg.Storage.Driver, cfg.Storage.HealthInterval, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	digest := services.NewDigestJob(nexus.Insight, nexus.Session, mon, zapLogger, services.DigestConfig{
		Interval: cfg.Insight.DigestInterval,
		Timeout:  cfg.Insight.Timeout,
	})
	if digest != nil {
		digest.Start()
		manager.Register("insight_digest", func(ctx context.Context) error {
			digest.Stop(ctx)
			return nil
		})
	}

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:     apiHandler.NewAuthHandler(nexus.Session, ctxAdapter, zapLogger),
		Task:     apiHandler.NewTaskHandler(nexus.Tasks, nexus.Activity, ctxAdapter, zapLogger),
		Activity: apiHandler.NewActivityHandler(nexus.Activity, nexus.Dashboard, ctxAdapter, zapLogger),
		Insight:  apiHandler.NewInsightHandler(nexus.Insight, ctxAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}
	if cfg.HTTP.EnableMetrics {
		handlers.Metrics = metrics.Handler(nexus.Registry)
	}

	r := router.New(handlers, middleware.RequireSession(nexus.Session, zapLogger))
	accessLog := middleware.AccessLog(nexus.Metrics, zapLogger)

	server := &fasthttp.Server{
		Handler:      accessLog(r.Handler),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("storage", cfg.Storage.Driver))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
