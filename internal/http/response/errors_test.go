package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/rehabdir-backend/internal/domain/aggregates"
	"github.com/yungbote/rehabdir-backend/internal/platform/apierr"
)

func TestClassifyMapsAggregateCodes(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
		field  string
	}{
		{domainagg.MissingRequiredField("op", "slug"), http.StatusBadRequest, "missing_required_field", "slug"},
		{domainagg.ParentNotFound("op", "rehabOrgSlug", "nope"), http.StatusUnprocessableEntity, "parent_not_found", "rehabOrgSlug"},
		{domainagg.NotFound("op", "org", "x"), http.StatusNotFound, "not_found", ""},
		{fmt.Errorf("wrapped: %w", domainagg.NewError(domainagg.CodeConflict, "op", "dup", nil)), http.StatusConflict, "conflict", ""},
		{apierr.BadRequest("invalid_id", errors.New("bad")), http.StatusBadRequest, "invalid_id", ""},
		{errors.New("disk on fire"), http.StatusInternalServerError, "internal", ""},
	}
	for _, tc := range cases {
		got := Classify(tc.err)
		if got.Status != tc.status || got.Code != tc.code || got.Field != tc.field {
			t.Fatalf("Classify(%v) = %d %q %q, want %d %q %q", tc.err, got.Status, got.Code, got.Field, tc.status, tc.code, tc.field)
		}
	}
}

func TestRespondErrHidesServerErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	RespondErr(c, errors.New("pq: password authentication failed"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status: %d", w.Code)
	}
	var env ErrorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.Message != http.StatusText(http.StatusInternalServerError) {
		t.Fatalf("leaked message: %q", env.Error.Message)
	}
	if len(c.Errors) != 1 {
		t.Fatalf("expected the cause on gin errors, got %d", len(c.Errors))
	}
}
