package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/rehabdir-backend/internal/http/handlers"
	httpMW "github.com/yungbote/rehabdir-backend/internal/http/middleware"
	"github.com/yungbote/rehabdir-backend/internal/observability"
	"github.com/yungbote/rehabdir-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	DirectoryHandler *httpH.DirectoryHandler
	VocabHandler     *httpH.VocabHandler
	HealthHandler    *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics, "/metrics", "/healthcheck"))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		if h := cfg.DirectoryHandler; h != nil {
			// Orgs
			api.POST("/orgs", h.CreateOrg)
			api.GET("/orgs", h.ListOrgs)
			api.POST("/orgs/query", h.QueryOrgs)
			api.GET("/orgs/:id", h.GetOrg)
			api.PUT("/orgs/:id", h.UpsertOrg)
			api.DELETE("/orgs/:id", h.DeleteOrg)

			// Campuses
			api.POST("/campuses", h.CreateCampus)
			api.GET("/campuses", h.ListCampuses)
			api.POST("/campuses/query", h.QueryCampuses)
			api.GET("/campuses/:id", h.GetCampus)
			api.PUT("/campuses/:id", h.UpsertCampus)
			api.DELETE("/campuses/:id", h.DeleteCampus)

			// Programs
			api.POST("/programs", h.CreateProgram)
			api.GET("/programs", h.ListPrograms)
			api.POST("/programs/query", h.QueryPrograms)
			api.GET("/programs/:id", h.GetProgram)
			api.PUT("/programs/:id", h.UpsertProgram)
			api.DELETE("/programs/:id", h.DeleteProgram)
		}

		// Vocabulary
		if cfg.VocabHandler != nil {
			api.GET("/vocab/:kind", cfg.VocabHandler.FindAll)
			api.POST("/vocab/:kind", cfg.VocabHandler.CreateMany)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "route not found", "code": "not_found"}})
	})
	return r
}
