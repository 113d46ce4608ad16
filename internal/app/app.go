// Package app builds the storage backend and usecases shared by the server and the CLI.
package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/fastygo/nexus/domain"
	"github.com/fastygo/nexus/internal/config"
	"github.com/fastygo/nexus/internal/infrastructure/gemini"
	pgInfra "github.com/fastygo/nexus/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/nexus/internal/infrastructure/redis"
	"github.com/fastygo/nexus/internal/metrics"
	"github.com/fastygo/nexus/repository"
	boltRepo "github.com/fastygo/nexus/repository/bolt"
	pgRepo "github.com/fastygo/nexus/repository/postgres"
	redisRepo "github.com/fastygo/nexus/repository/redis"
	activityUC "github.com/fastygo/nexus/usecase/activity"
	authUC "github.com/fastygo/nexus/usecase/auth"
	dashboardUC "github.com/fastygo/nexus/usecase/dashboard"
	identityUC "github.com/fastygo/nexus/usecase/identity"
	insightUC "github.com/fastygo/nexus/usecase/insight"
	taskUC "github.com/fastygo/nexus/usecase/task"
)

type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Store    repository.KeyValueStore
	Registry *prometheus.Registry
	Metrics  *metrics.Collector

	Identity  *identityUC.UseCase
	Session   *authUC.UseCase
	Activity  *activityUC.UseCase
	Tasks     *taskUC.UseCase
	Insight   *insightUC.UseCase
	Dashboard *dashboardUC.UseCase
}

// New opens the configured store and loads every usecase from it.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	store, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a, err := build(ctx, cfg, store, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return a, nil
}

// OpenStore connects the storage driver named by STORAGE_DRIVER.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.KeyValueStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Storage.Driver {
	case config.DriverBolt:
		store, err := boltRepo.Open(cfg.Storage.BoltPath, cfg.Storage.BoltBucket)
		if err != nil {
			return nil, fmt.Errorf("open bolt store: %w", err)
		}
		logger.Info("bolt store opened", zap.String("path", cfg.Storage.BoltPath))
		return store, nil

	case config.DriverRedis:
		client, err := redisInfra.NewClient(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
		return redisRepo.NewStore(client, cfg.Redis.KeyPrefix), nil

	case config.DriverPostgres:
		if err := pgInfra.RunMigrations(cfg, logger); err != nil {
			return nil, err
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		return pgRepo.NewStore(pool), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func build(ctx context.Context, cfg *config.Config, store repository.KeyValueStore, logger *zap.Logger) (*App, error) {
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	identity := identityUC.New(store, logger.Named("identity"))
	if err := identity.Seed(ctx); err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}

	session := authUC.New(identity, store, authUC.Options{
		Mode:       domain.ParseRestoreMode(cfg.Session.Restore),
		LoginDelay: cfg.Session.LoginDelay,
	}, logger.Named("session"))
	if err := session.Restore(ctx); err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}

	activity := activityUC.New(store, session, cfg.Activity.Limit, logger.Named("activity")).
		WithObserver(collector)
	if err := activity.Load(ctx); err != nil {
		return nil, fmt.Errorf("load activity log: %w", err)
	}

	tasks := taskUC.New(store, session, activity, logger.Named("tasks"))
	if err := tasks.Load(ctx); err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	var summarizer insightUC.Summarizer
	if cfg.Insight.APIKey != "" {
		summarizer = gemini.NewClient(gemini.Config{
			APIKey:   cfg.Insight.APIKey,
			Model:    cfg.Insight.Model,
			Endpoint: cfg.Insight.Endpoint,
			Timeout:  cfg.Insight.Timeout,
		})
	} else {
		logger.Warn("GEMINI_API_KEY not set, insights disabled")
	}
	insight := insightUC.New(summarizer, tasks, logger.Named("insight")).WithObserver(collector)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Registry:  registry,
		Metrics:   collector,
		Identity:  identity,
		Session:   session,
		Activity:  activity,
		Tasks:     tasks,
		Insight:   insight,
		Dashboard: dashboardUC.New(tasks, activity),
	}, nil
}

func (a *App) Close() error {
	if a == nil || a.Store == nil {
		return nil
	}
	return a.Store.Close()
}
