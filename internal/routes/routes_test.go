package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"baradari/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return Setup(config.Config{
		JWTSecret:      "test-secret",
		AllowedOrigins: []string{"http://localhost:3000"},
	})
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter()

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/me"},
		{http.MethodGet, "/api/chats"},
		{http.MethodPost, "/api/chats"},
		{http.MethodPost, "/api/message"},
		{http.MethodGet, "/api/dashboard/summary"},
	} {
		req := httptest.NewRequest(route.method, route.path, strings.NewReader("{}"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
	}
}

func TestUnknownAPIRouteReturnsJSON404(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "endpoint not found")
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
