package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/rehabdir-backend/internal/platform/ctxutil"
	"github.com/yungbote/rehabdir-backend/internal/platform/logger"
)

// RequestLogger logs one line per request. 5xx log at error with the private gin
// errors attached by the handler; 4xx log at warn.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	log = log.With("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"route", c.FullPath(),
			"path", c.Request.URL.Path,
			"status", status,
			"bytes", c.Writer.Size(),
			"client_ip", c.ClientIP(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			fields = append(fields, "trace_id", td.TraceID, "request_id", td.RequestID)
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			fields = append(fields, "error", errs.String())
		}

		switch {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		case c.Request.URL.Path == "/healthcheck":
			log.Debug("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}
