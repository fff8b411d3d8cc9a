package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/rehabdir-backend/internal/platform/ctxutil"
)

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	var seen *ctxutil.TraceData
	r.GET("/x", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	reqID := uuid.NewString()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, reqID)
	req.Header.Set(headerTraceID, "abc123")
	r.ServeHTTP(w, req)
	if seen == nil || seen.RequestID != reqID || seen.TraceID != "abc123" {
		t.Fatalf("trace data not propagated: %+v", seen)
	}
	if w.Header().Get(headerRequestID) != reqID {
		t.Fatalf("request id not echoed: %q", w.Header().Get(headerRequestID))
	}

	// A malformed request id is replaced and reused as the trace id.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "not-a-uuid")
	r.ServeHTTP(w, req)
	got := w.Header().Get(headerRequestID)
	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("expected generated request id, got %q", got)
	}
	if w.Header().Get(headerTraceID) != got {
		t.Fatalf("expected trace id to fall back to request id")
	}
}
