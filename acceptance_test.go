package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foodhub/foodhub-api/config"
	"github.com/foodhub/foodhub-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// apiClient talks to a running test server the way a real client would
type apiClient struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

func (a *apiClient) do(method, path string, body interface{}) (int, map[string]interface{}) {
	a.t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(a.t, err)
	}
	req, err := http.NewRequest(method, a.server.URL+path, bytes.NewReader(payload))
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.server.Client().Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(a.t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func (a *apiClient) login(mobile, password string) {
	a.t.Helper()
	status, response := a.do(http.MethodPost, "/api/v1/auth/login", map[string]interface{}{"mobile": mobile, "password": password})
	require.Equal(a.t, http.StatusOK, status, response)
	a.token = response["data"].(map[string]interface{})["token"].(string)
}

func dataOf(response map[string]interface{}) map[string]interface{} {
	return response["data"].(map[string]interface{})
}

// TestServerStartup is an acceptance test that verifies the server can start
// This test uses the actual setupRouter function to ensure the full application works
func TestServerStartup(t *testing.T) {
	router, _ := newTestRouter(t)
	assert.NotNil(t, router, "Router should be initialized")
}

// TestOrderLifecycleAcceptance drives a customer order from registration to delivery
// over real HTTP with real tokens
func TestOrderLifecycleAcceptance(t *testing.T) {
	router, cfg := newTestRouter(t)
	cfg.AdminName = "Head Chef"
	cfg.AdminMobile = "9000000000"
	cfg.AdminPassword = "admin123"
	require.NoError(t, config.Seed(config.GetDB(), cfg))

	server := httptest.NewServer(router)
	defer server.Close()

	admin := &apiClient{t: t, server: server}
	admin.login("9000000000", "admin123")

	// Staff build the menu
	status, response := admin.do(http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, status)
	categoryID := response["data"].([]interface{})[0].(map[string]interface{})["id"]

	status, response = admin.do(http.MethodPost, "/api/v1/subcategories", map[string]interface{}{"name": "Biryani", "category_id": categoryID})
	require.Equal(t, http.StatusCreated, status, response)
	subcategoryID := dataOf(response)["id"]

	status, response = admin.do(http.MethodPost, "/api/v1/foods", map[string]interface{}{
		"name": "Chicken Biryani", "amount": 250, "discount": 20, "subcategory_id": subcategoryID,
	})
	require.Equal(t, http.StatusCreated, status, response)
	chickenID := dataOf(response)["id"]
	assert.Equal(t, float64(230), dataOf(response)["price"])

	status, response = admin.do(http.MethodPost, "/api/v1/foods", map[string]interface{}{
		"name": "Paneer Biryani", "amount": "195", "subcategory_id": subcategoryID,
	})
	require.Equal(t, http.StatusCreated, status, response)
	paneerID := dataOf(response)["id"]

	// A customer signs up and orders
	customer := &apiClient{t: t, server: server}
	status, response = customer.do(http.MethodPost, "/api/v1/auth/register", map[string]interface{}{
		"name": "Asha", "email": "asha@example.com", "mobile": "9876501234", "password": "biryani1",
	})
	require.Equal(t, http.StatusCreated, status, response)
	services.GetNotificationDispatcher().Wait()
	customer.login("9876501234", "biryani1")

	status, response = customer.do(http.MethodPost, "/api/v1/addresses", map[string]interface{}{
		"label": "Home", "full_address": "12 MG Road, Bengaluru", "is_default": true,
	})
	require.Equal(t, http.StatusCreated, status, response)

	status, _ = customer.do(http.MethodPost, "/api/v1/cart/items", map[string]interface{}{"food_id": chickenID, "quantity": 2})
	require.Equal(t, http.StatusOK, status)
	status, _ = customer.do(http.MethodPost, "/api/v1/cart/items", map[string]interface{}{"food_id": paneerID})
	require.Equal(t, http.StatusOK, status)

	status, response = customer.do(http.MethodPost, "/api/v1/orders", map[string]interface{}{
		"payment_method": "upi", "delivery_address": "12 MG Road, Bengaluru",
	})
	require.Equal(t, http.StatusCreated, status, response)
	assert.Equal(t, float64(655), dataOf(response)["total_amount"])
	orderID := dataOf(response)["order_id"]

	status, response = customer.do(http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, dataOf(response)["items"])

	// Staff hear about the signup and the order
	services.GetNotificationDispatcher().Wait()
	status, response = admin.do(http.MethodGet, "/api/v1/notifications", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), dataOf(response)["unread_count"])
	notifications := dataOf(response)["notifications"].([]interface{})
	require.Len(t, notifications, 2)
	orderNote := notifications[0].(map[string]interface{})
	assert.Equal(t, orderID, orderNote["order_id"])

	status, _ = admin.do(http.MethodPut, fmt.Sprintf("/api/v1/notifications/%v/read", orderNote["id"]), nil)
	require.Equal(t, http.StatusOK, status)
	status, response = admin.do(http.MethodGet, "/api/v1/notifications/unread-count", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), dataOf(response)["unread_count"])

	// Staff deliver the order; it is now terminal
	statusPath := fmt.Sprintf("/api/v1/orders/%v/status", orderID)
	status, response = admin.do(http.MethodPut, statusPath, map[string]interface{}{"status": "delivered"})
	require.Equal(t, http.StatusOK, status, response)
	status, _ = admin.do(http.MethodPut, statusPath, map[string]interface{}{"status": "rejected"})
	assert.Equal(t, http.StatusConflict, status)

	status, response = customer.do(http.MethodGet, "/api/v1/orders", nil)
	require.Equal(t, http.StatusOK, status)
	orders := response["data"].([]interface{})
	require.Len(t, orders, 1)
	assert.Equal(t, "delivered", orders[0].(map[string]interface{})["order_status"])

	status, response = customer.do(http.MethodGet, "/api/v1/order-history", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, response["data"].([]interface{}), 2)

	status, response = admin.do(http.MethodGet, "/api/v1/orders/stats", nil)
	require.Equal(t, http.StatusOK, status)
	stats := dataOf(response)
	assert.Equal(t, float64(1), stats["total_orders"])
	assert.Equal(t, float64(1), stats["delivered_orders"])
	assert.Equal(t, float64(655), stats["total_revenue"])

	status, response = admin.do(http.MethodGet, "/api/v1/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, status)
	dashboard := dataOf(response)
	assert.Equal(t, float64(2), dashboard["total_users"])
	assert.Equal(t, float64(1), dashboard["total_orders"])
	assert.Equal(t, float64(655), dashboard["total_sales"])
	assert.Len(t, dashboard["order_trends"], 6)
}
