package integration

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/sheets-storefront/internal/config"
	"github.com/iyhunko/sheets-storefront/internal/http/middleware"
	"github.com/iyhunko/sheets-storefront/internal/repository/memory"
	"github.com/iyhunko/sheets-storefront/internal/service"
	"github.com/iyhunko/sheets-storefront/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoadedRouter(t *testing.T) *gin.Engine {
	t.Helper()

	sheet := NewSheetServer(t, catalogueCSV)
	svc := service.NewCatalogueService(
		source.NewCSVSource(sheet.URL, sheet.Client()),
		memory.NewSnapshotRepository(memory.DefaultRetention),
		nil,
		service.Options{},
	)
	_, err := svc.Refresh(t.Context())
	require.NoError(t, err)

	return NewRouter(&config.Config{Env: "dev"}, svc)
}

func TestCORSMiddleware_Integration(t *testing.T) {
	t.Run("CORS headers are present on catalogue responses", func(t *testing.T) {
		router := newLoadedRouter(t)

		w := doRequest(router, http.MethodGet, "/products")

		// Verify CORS headers are present
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST, PUT, PATCH, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type, Authorization", w.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("CORS preflight OPTIONS request returns 204 No Content", func(t *testing.T) {
		router := newLoadedRouter(t)

		w := doRequest(router, http.MethodOptions, "/admin/refresh",
			"Origin", "http://example.com",
			"Access-Control-Request-Method", "POST",
			"Access-Control-Request-Headers", "Authorization",
		)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST, PUT, PATCH, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("CORS headers are present on redirects", func(t *testing.T) {
		router := newLoadedRouter(t)

		w := doRequest(router, http.MethodGet, "/inquiry?code=C1")

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestLoggingMiddleware_Integration(t *testing.T) {
	t.Run("request ID is generated for catalogue requests", func(t *testing.T) {
		router := newLoadedRouter(t)

		w := doRequest(router, http.MethodGet, "/categories")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("incoming request ID is echoed back", func(t *testing.T) {
		router := newLoadedRouter(t)

		w := doRequest(router, http.MethodGet, "/products", middleware.RequestIDHeader, "req-123")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "req-123", w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("error status codes still pass through the logger", func(t *testing.T) {
		router := newLoadedRouter(t)

		w := doRequest(router, http.MethodGet, "/inquiry")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	})
}
