package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tallerit/repair-intake-worker/internal/handlers"
	"tallerit/repair-intake-worker/internal/model/pacer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, withRepairs bool) http.Handler {
	t.Helper()

	extractor := handlers.NewExtractorHandler(handlers.ExtractorConfig{}, pacer.New(nil))

	var repairAPI *handlers.RepairAPIHandler
	if withRepairs {
		var err error
		repairAPI, err = handlers.NewRepairAPIHandler(handlers.RepairAPIConfig{
			BaseURL: "http://localhost:9",
		})
		require.NoError(t, err)
	}

	return NewRouter(extractor, repairAPI)
}

// TestHealthCheck tests the /health endpoint
func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t, false)

	req, err := http.NewRequest(http.MethodGet, "/health", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err = json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "ok", response["status"])
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

// TestExtractRoutesExist tests that the extraction routes are registered
func TestExtractRoutesExist(t *testing.T) {
	router := newTestRouter(t, false)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/extract/image"},
		{http.MethodPost, "/api/v1/extract/audio"},
		{http.MethodPost, "/api/v1/extract/text"},
		{http.MethodGet, "/api/v1/providers"},
		{http.MethodPost, "/api/v1/providers/gemini/test"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			req, err := http.NewRequest(route.method, route.path, nil)
			require.NoError(t, err)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			// Route exists; without valid input or credentials it answers
			// with an application status, never a routing 404
			assert.NotEqual(t, http.StatusNotFound, w.Code)
		})
	}
}

// TestProvidersEndpoint tests the provider status listing
func TestProvidersEndpoint(t *testing.T) {
	router := newTestRouter(t, false)

	req, err := http.NewRequest(http.MethodGet, "/api/v1/providers", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

// TestExtractImageWithoutFile tests that a missing upload is a 400
func TestExtractImageWithoutFile(t *testing.T) {
	router := newTestRouter(t, false)

	req, err := http.NewRequest(http.MethodPost, "/api/v1/extract/image", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestRepairsRoutesDisabledWithoutBackend tests that repairs routes are not
// mounted when no backend handler is configured
func TestRepairsRoutesDisabledWithoutBackend(t *testing.T) {
	router := newTestRouter(t, false)

	req, err := http.NewRequest(http.MethodGet, "/api/v1/repairs", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestRepairsRoutesExist tests that repairs routes are mounted when the
// backend handler is configured
func TestRepairsRoutesExist(t *testing.T) {
	router := newTestRouter(t, true)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/repairs"},
		{http.MethodPost, "/api/v1/repairs"},
		{http.MethodGet, "/api/v1/repairs/search"},
		{http.MethodGet, "/api/v1/repairs/overdue"},
		{http.MethodGet, "/api/v1/repairs/due-soon"},
		{http.MethodGet, "/api/v1/repairs/status/listos"},
		{http.MethodGet, "/api/v1/repairs/7"},
		{http.MethodPut, "/api/v1/repairs/7"},
		{http.MethodPatch, "/api/v1/repairs/7/status"},
		{http.MethodDelete, "/api/v1/repairs/7"},
		{http.MethodGet, "/api/v1/repairs/7/whatsapp"},
		{http.MethodGet, "/api/v1/stats"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			req, err := http.NewRequest(route.method, route.path, nil)
			require.NoError(t, err)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.NotEqual(t, http.StatusNotFound, w.Code)
		})
	}
}

// TestSwaggerRoute tests that the Swagger UI route is registered
func TestSwaggerRoute(t *testing.T) {
	router := newTestRouter(t, false)

	reqPost, err := http.NewRequest(http.MethodPost, "/swagger/", nil)
	require.NoError(t, err)

	wPost := httptest.NewRecorder()
	router.ServeHTTP(wPost, reqPost)

	// GET-only wildcard route: POST falls through to gin's 404
	assert.Equal(t, http.StatusNotFound, wPost.Code, "Swagger route should be registered")
}

// TestNotFoundRoute tests that non-existent routes return 404
func TestNotFoundRoute(t *testing.T) {
	router := newTestRouter(t, true)

	routes := []string{
		"/nonexistent",
		"/api/v1/nonexistent",
		"/api/v2/extract/image",
		"/extract/image",
	}

	for _, route := range routes {
		t.Run(route, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, route, nil)
			require.NoError(t, err)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	}
}
