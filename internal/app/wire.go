package app

import (
	"gorm.io/gorm"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/rehabdir-backend/internal/data/aggregates"
	"github.com/yungbote/rehabdir-backend/internal/data/cache"
	"github.com/yungbote/rehabdir-backend/internal/data/graph"
	"github.com/yungbote/rehabdir-backend/internal/data/repos"
	"github.com/yungbote/rehabdir-backend/internal/data/vocab"
	"github.com/yungbote/rehabdir-backend/internal/http"
	httpH "github.com/yungbote/rehabdir-backend/internal/http/handlers"
	"github.com/yungbote/rehabdir-backend/internal/observability"
	"github.com/yungbote/rehabdir-backend/internal/platform/logger"
	"github.com/yungbote/rehabdir-backend/internal/services"
)

type Services struct {
	Directory services.DirectoryService
	Vocab     services.VocabService
}

type Handlers struct {
	Directory *httpH.DirectoryHandler
	Vocab     *httpH.VocabHandler
	Health    *httpH.HealthHandler
}

func wireServices(theDB *gorm.DB, log *logger.Logger, cfg Config, set repos.Set, layer *cache.Layer, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	resolver := vocab.NewResolver(set.Vocab, log, metrics)
	runner := aggregates.NewGormTxRunner(theDB)
	agg := aggregates.NewDirectoryAggregate(aggregates.DirectoryDeps{
		BaseDeps: aggregates.BaseDeps{
			DB:     theDB,
			Log:    log,
			Runner: runner,
			Hooks:  aggregates.NewMetricsHooks(metrics),
		},
		Repos:      set,
		Builder:    graph.NewBuilder(resolver, log),
		Cache:      layer,
		JoinPolicy: cfg.JoinPolicy,
	})
	return Services{
		Directory: services.NewDirectoryService(theDB, log, agg, set, layer),
		Vocab:     services.NewVocabService(log, runner, resolver, layer),
	}
}

func wireHandlers(log *logger.Logger, theDB *gorm.DB, layer *cache.Layer, svc Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Directory: httpH.NewDirectoryHandler(svc.Directory),
		Vocab:     httpH.NewVocabHandler(svc.Vocab),
		Health:    httpH.NewHealthHandler(theDB, layer),
	}
}

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, h Handlers) *gin.Engine {
	serviceName := ""
	if observability.OtelEnabled() {
		serviceName = cfg.ServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:              log,
		Metrics:          metrics,
		ServiceName:      serviceName,
		CORSOrigins:      cfg.CORSOrigins,
		DirectoryHandler: h.Directory,
		VocabHandler:     h.Vocab,
		HealthHandler:    h.Health,
	})
}
