package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMiddleware_UnmatchedRoutesShareOneLabel(t *testing.T) {
	e := echo.New()
	e.Use(PrometheusMiddleware())
	e.GET("/api/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	for _, path := range []string{"/wp-admin/setup.php", "/.env", "/xmlrpc.php", "/api/health"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	rec := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `path="unmatched"`)
	assert.Contains(t, body, `path="/api/health"`)
	assert.NotContains(t, body, "wp-admin")
	assert.NotContains(t, body, "xmlrpc")
}

func TestRecordOrderAction(t *testing.T) {
	RecordOrderAction("ship", true)
	RecordOrderAction("ship", false)

	rec := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `storefront_order_actions_total{action="ship",status="error"}`)
}
