package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foodhub/foodhub-api/config"
	"github.com/foodhub/foodhub-api/logger"
	"github.com/foodhub/foodhub-api/models"
	"github.com/foodhub/foodhub-api/services"
	"github.com/foodhub/foodhub-api/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRouter builds the full application router on a fresh in-memory database
func newTestRouter(t *testing.T) (*gin.Engine, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testutil.TestConfig()
	cfg.UploadDir = t.TempDir()
	config.SetConfig(cfg)

	db := testutil.NewTestDB(t)
	config.SetDB(db)
	require.NoError(t, config.Seed(db, cfg))

	log := logger.New(logger.Config{Level: "error", Output: io.Discard})
	dispatcher := services.InitNotificationDispatcher(db, cfg.NotificationTimeout, log)
	t.Cleanup(dispatcher.Wait)
	services.InitLocalImageService(cfg.UploadDir)

	return setupRouter(cfg, log), cfg
}

// TestHealthEndpointIntegration tests the /api/v1/health endpoint with full routing
func TestHealthEndpointIntegration(t *testing.T) {
	router, _ := newTestRouter(t)

	// Create a test request
	req, _ := http.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()

	// Serve the request
	router.ServeHTTP(w, req)

	// Assert status code
	assert.Equal(t, http.StatusOK, w.Code, "Expected status 200 OK")

	// Parse and verify response
	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err, "Response should be valid JSON")
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "FoodHub API is running", response["message"])
}

// TestHealthEndpointMethod tests that only GET method is allowed
func TestHealthEndpointMethod(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		req, _ := http.NewRequest(method, "/api/v1/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code, "%s should not be allowed", method)
	}
}

// TestAPIV1Prefix tests that the endpoint requires /api/v1 prefix
func TestAPIV1Prefix(t *testing.T) {
	router, _ := newTestRouter(t)

	// Test without /api/v1 prefix (should fail)
	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code, "Endpoint should require /api/v1 prefix")

	// Test with correct prefix (should succeed)
	req, _ = http.NewRequest("GET", "/api/v1/health", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "Endpoint should work with /api/v1 prefix")
}

// TestHealthEndpointHeaders tests that request id and CORS headers are set
func TestHealthEndpointHeaders(t *testing.T) {
	router, _ := newTestRouter(t)

	req, _ := http.NewRequest("GET", "/api/v1/health", nil)
	req.Header.Set("Origin", "https://app.foodhub.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

// TestPublicCatalogRoutes checks that catalog reads need no token and include the seeded categories
func TestPublicCatalogRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	req, _ := http.NewRequest("GET", "/api/v1/categories", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response struct {
		Data []models.Category `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	var names []string
	for _, category := range response.Data {
		names = append(names, category.Name)
	}
	assert.ElementsMatch(t, config.DefaultCategories, names)
}

// TestProtectedRoutesRequireToken checks that every customer route is behind the token check
func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _ := newTestRouter(t)

	routes := []struct{ method, path string }{
		{"GET", "/api/v1/users/me"},
		{"GET", "/api/v1/cart"},
		{"POST", "/api/v1/cart/items"},
		{"POST", "/api/v1/orders"},
		{"GET", "/api/v1/orders"},
		{"GET", "/api/v1/order-history"},
		{"GET", "/api/v1/addresses"},
		{"GET", "/api/v1/notifications"},
		{"GET", "/api/v1/dashboard/stats"},
		{"POST", "/api/v1/foods"},
	}
	for _, route := range routes {
		req, _ := http.NewRequest(route.method, route.path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
	}
}

// TestStaffRoutesRejectCustomers checks the staff-only group with a real customer token
func TestStaffRoutesRejectCustomers(t *testing.T) {
	router, cfg := newTestRouter(t)
	customer := testutil.CreateUser(t, config.GetDB(), "Devi", "9300000001", models.RoleCustomer)
	token := testutil.IssueToken(t, cfg, customer)

	routes := []struct{ method, path string }{
		{"GET", "/api/v1/users"},
		{"GET", "/api/v1/orders/all"},
		{"GET", "/api/v1/orders/stats"},
		{"PUT", "/api/v1/orders/1/status"},
		{"GET", "/api/v1/order-history/all"},
		{"DELETE", "/api/v1/order-history/1"},
		{"GET", "/api/v1/dashboard/stats"},
		{"POST", "/api/v1/categories"},
		{"DELETE", "/api/v1/foods/1"},
	}
	for _, route := range routes {
		req, _ := http.NewRequest(route.method, route.path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", route.method, route.path)
	}
}
