package http

import (
	"bytes"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/rehabdir-backend/internal/data/aggregates"
	"github.com/yungbote/rehabdir-backend/internal/data/cache"
	"github.com/yungbote/rehabdir-backend/internal/data/graph"
	"github.com/yungbote/rehabdir-backend/internal/data/repos"
	"github.com/yungbote/rehabdir-backend/internal/data/repos/testutil"
	"github.com/yungbote/rehabdir-backend/internal/data/vocab"
	httpH "github.com/yungbote/rehabdir-backend/internal/http/handlers"
	"github.com/yungbote/rehabdir-backend/internal/services"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	set := repos.NewSet(db, log)
	mem := cache.NewMemory()
	t.Cleanup(mem.Close)
	layer := cache.NewLayer(mem, log, cache.LayerOptions{})
	resolver := vocab.NewResolver(set.Vocab, log, nil)
	agg := aggregates.NewDirectoryAggregate(aggregates.DirectoryDeps{
		BaseDeps: aggregates.BaseDeps{DB: db, Log: log},
		Repos:    set,
		Builder:  graph.NewBuilder(resolver, log),
		Cache:    layer,
	})
	return NewRouter(RouterConfig{
		Log:              log,
		DirectoryHandler: httpH.NewDirectoryHandler(services.NewDirectoryService(db, log, agg, set, layer)),
		VocabHandler:     httpH.NewVocabHandler(services.NewVocabService(log, aggregates.NewGormTxRunner(db), resolver, layer)),
		HealthHandler:    httpH.NewHealthHandler(db, layer),
	})
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var rdr *bytes.Reader
	if body != "" {
		rdr = bytes.NewReader([]byte(body))
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	out := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func errorOf(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	e, ok := body["error"].(map[string]any)
	require.True(t, ok, "missing error envelope: %v", body)
	return e
}

func TestOrgLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	rec, body := do(t, r, nethttp.MethodPost, "/api/orgs", `{
		"name": "Sunrise House",
		"slug": "sunrise-house",
		"levelsOfCare": [{"slug": "residential"}],
		"campuses": [{
			"name": "Sunrise Malibu", "slug": "sunrise-malibu", "street": "1 Ocean Way",
			"city": "Malibu", "state": "CA", "postalCode": "90265", "country": "US"
		}]
	}`)
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())
	org := body["org"].(map[string]any)
	id := org["id"].(string)
	require.Len(t, org["campuses"], 1)

	rec, body = do(t, r, nethttp.MethodGet, "/api/orgs/"+id, "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.Equal(t, "sunrise-house", body["org"].(map[string]any)["slug"])

	rec, body = do(t, r, nethttp.MethodPut, "/api/orgs/"+id, `{"city": "Malibu", "description": null}`)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "Malibu", body["org"].(map[string]any)["city"])

	rec, body = do(t, r, nethttp.MethodPost, "/api/orgs/query", `{"where": {"levelsOfCare": {"slugsIn": ["residential"]}}, "take": 10}`)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, body["orgs"], 1)

	rec, body = do(t, r, nethttp.MethodGet, "/api/orgs?search=sunrise&skip=0&take=5", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.Len(t, body["orgs"], 1)

	rec, _ = do(t, r, nethttp.MethodDelete, "/api/orgs/"+id, "")
	require.Equal(t, nethttp.StatusNoContent, rec.Code)

	rec, body = do(t, r, nethttp.MethodGet, "/api/orgs/"+id, "")
	require.Equal(t, nethttp.StatusNotFound, rec.Code)
	require.Equal(t, "not_found", errorOf(t, body)["code"])

	rec, _ = do(t, r, nethttp.MethodDelete, "/api/orgs/"+id, "")
	require.Equal(t, nethttp.StatusNotFound, rec.Code)
}

func TestWriteErrorsOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	rec, body := do(t, r, nethttp.MethodPost, "/api/orgs", `{"name": "No Slug"}`)
	require.Equal(t, nethttp.StatusBadRequest, rec.Code)
	e := errorOf(t, body)
	require.Equal(t, "missing_required_field", e["code"])
	require.Equal(t, "slug", e["field"])

	rec, body = do(t, r, nethttp.MethodPost, "/api/campuses", `{
		"rehabOrgSlug": "ghost", "name": "Lone", "slug": "lone", "street": "1 Elm",
		"city": "Austin", "state": "TX", "postalCode": "78701", "country": "US"
	}`)
	require.Equal(t, nethttp.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "parent_not_found", errorOf(t, body)["code"])

	rec, body = do(t, r, nethttp.MethodGet, "/api/programs/not-a-uuid", "")
	require.Equal(t, nethttp.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_id", errorOf(t, body)["code"])

	rec, _ = do(t, r, nethttp.MethodPost, "/api/orgs", `{"name": `)
	require.Equal(t, nethttp.StatusBadRequest, rec.Code)

	rec, body = do(t, r, nethttp.MethodGet, "/api/campuses?take=ten", "")
	require.Equal(t, nethttp.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_take", errorOf(t, body)["code"])
}

func TestVocabAndHealthOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	rec, body := do(t, r, nethttp.MethodPost, "/api/vocab/level_of_care", `{"items": [{"slug": "residential"}, {"slug": "residential"}, {"slug": "sober_living"}]}`)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, body["items"], 2)

	rec, body = do(t, r, nethttp.MethodGet, "/api/vocab/level_of_care", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	items := body["items"].([]any)
	require.Len(t, items, 2)
	require.Equal(t, "Sober Living", items[1].(map[string]any)["displayName"])

	rec, _ = do(t, r, nethttp.MethodGet, "/api/vocab/colors", "")
	require.Equal(t, nethttp.StatusBadRequest, rec.Code)

	rec, _ = do(t, r, nethttp.MethodPost, "/api/vocab/amenity", `{"items": []}`)
	require.Equal(t, nethttp.StatusBadRequest, rec.Code)

	rec, body = do(t, r, nethttp.MethodGet, "/healthcheck", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.Equal(t, "ok", body["db"])
}
