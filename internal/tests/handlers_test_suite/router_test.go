package handlers_test_suite

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "github.com/rogerio-castellano/inventory-api/internal/http"
	handler "github.com/rogerio-castellano/inventory-api/internal/http/handlers"
	rl "github.com/rogerio-castellano/inventory-api/internal/http/rate_limiter"
	"github.com/rogerio-castellano/inventory-api/internal/repo"
)

func TestHealthHandler(t *testing.T) {
	up := handler.PingFunc(func(context.Context) error { return nil })
	down := handler.PingFunc(func(context.Context) error { return errors.New("dial tcp: refused") })

	t.Run("all up", func(t *testing.T) {
		r := routerWith(repo.NewInMemoryProductRepository(), api.RouterOptions{
			HealthChecks: map[string]handler.HealthChecker{"database": up, "redis": up},
		})
		w := doJSON(r, http.MethodGet, "/healthz", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok","dependencies":{"database":"ok","redis":"ok"}}`, w.Body.String())
	})

	t.Run("degraded", func(t *testing.T) {
		r := routerWith(repo.NewInMemoryProductRepository(), api.RouterOptions{
			HealthChecks: map[string]handler.HealthChecker{"database": up, "redis": down},
		})
		w := doJSON(r, http.MethodGet, "/healthz", nil)
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"status":"degraded","dependencies":{"database":"ok","redis":"unreachable"}}`, w.Body.String())
	})
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	require.Equal(t, http.StatusOK, listProducts(r).Code)

	w := doJSON(r, http.MethodGet, api.MetricsPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",route="/product",status="200"} 1`)
}

func TestBasePath(t *testing.T) {
	r := routerWith(repo.NewInMemoryProductRepository(), api.RouterOptions{BasePath: "/api"})

	w := doJSON(r, http.MethodPost, "/api/product/insert", widgetRequest(5))
	require.Equal(t, http.StatusCreated, w.Code)

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/api/product/", nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, "/product/", nil).Code)
}

func TestSwaggerDocs(t *testing.T) {
	r := routerWith(repo.NewInMemoryProductRepository(), api.RouterOptions{Swagger: true})

	w := doJSON(r, http.MethodGet, "/swagger/doc.json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/product/insert"`)

	r, _ = newTestRouter(t)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, "/swagger/doc.json", nil).Code)
}

func TestCORSPreflight(t *testing.T) {
	r := routerWith(repo.NewInMemoryProductRepository(), api.RouterOptions{
		CORSAllowedOrigins: []string{"http://localhost:5173"},
	})

	req := httptest.NewRequest(http.MethodOptions, "/product/insert", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	r := routerWith(repo.NewInMemoryProductRepository(), api.RouterOptions{Limiter: rl.New(1, 2)})

	assert.Equal(t, http.StatusOK, listProducts(r).Code)
	assert.Equal(t, http.StatusOK, listProducts(r).Code)
	assert.Equal(t, http.StatusTooManyRequests, listProducts(r).Code)

	// Operational endpoints are not limited.
	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/healthz", nil).Code)
}
