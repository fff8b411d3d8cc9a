package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/rehabdir-backend/internal/data/cache"
)

type HealthHandler struct {
	db    *gorm.DB
	cache *cache.Layer
}

func NewHealthHandler(db *gorm.DB, layer *cache.Layer) *HealthHandler {
	return &HealthHandler{db: db, cache: layer}
}

// GET /healthcheck
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{"db": "ok", "cache": "ok"}
	healthy := true
	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			status["db"] = err.Error()
			healthy = false
		}
	}
	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			status["cache"] = err.Error()
			healthy = false
		}
	}
	if !healthy {
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}
	c.JSON(http.StatusOK, status)
}
