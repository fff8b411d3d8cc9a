package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/rehabdir-backend/internal/data/cache"
	"github.com/yungbote/rehabdir-backend/internal/data/db"
	"github.com/yungbote/rehabdir-backend/internal/data/repos"
	"github.com/yungbote/rehabdir-backend/internal/http"
	"github.com/yungbote/rehabdir-backend/internal/observability"
	"github.com/yungbote/rehabdir-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    repos.Set
	Services Services
	Metrics  *observability.Metrics

	cache        *cache.Layer
	closers      []func() error
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)
	a := &App{Log: log, Cfg: cfg}

	a.otelShutdown = observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	})
	a.Metrics = observability.Init(log)

	dbs, err := db.NewDatabaseService(log, cfg.DB)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init database: %w", err)
	}
	a.closers = append(a.closers, dbs.Close)
	if cfg.AutoMigrate {
		if err := dbs.AutoMigrateAll(); err != nil {
			a.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}
	a.DB = dbs.DB()

	backend, closeCache, err := cache.Open(context.Background(), cfg.Cache, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init cache: %w", err)
	}
	a.closers = append(a.closers, closeCache)
	a.cache = cache.NewLayer(backend, log, cache.LayerOptions{
		PointTTL:          cfg.Cache.PointTTL,
		ListTTL:           cfg.Cache.ListTTL,
		PointInvalidation: cfg.Cache.PointInvalidation,
		Metrics:           a.Metrics,
	})
	log.Info("Cache ready", "backend", cfg.Cache.Backend, "point_invalidation", cfg.Cache.PointInvalidation, "join_policy", cfg.JoinPolicy)

	log.Info("Wiring repos...")
	a.Repos = repos.NewSet(a.DB, log)
	a.Services = wireServices(a.DB, log, cfg, a.Repos, a.cache, a.Metrics)
	a.Router = wireRouter(log, cfg, a.Metrics, wireHandlers(log, a.DB, a.cache, a.Services))
	return a, nil
}

// Start launches the background collectors.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.Metrics.StartDBCollector(ctx, a.Log, a.DB)
	if r, ok := a.cache.Backend().(*cache.Redis); ok {
		a.Metrics.StartRedisCollector(ctx, a.Log, r.Client())
	}
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	srv := &http.Server{Engine: a.Router}
	a.Log.Info("Server listening", "port", a.Cfg.Port)
	return srv.Run(ctx, ":"+a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && a.Log != nil {
			a.Log.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
