package controllers

import (
	"net/http"
	"testing"

	"github.com/foodhub/foodhub-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, "Admin", "9700000001", models.RoleAdmin)
	customer := createTestUser(t, db, "Asha", "9700000002", models.RoleCustomer)
	seedOrder(t, db, customer.ID, models.OrderStatusDelivered, "300")
	seedOrder(t, db, customer.ID, models.OrderStatusDelivered, "150.25")
	seedOrder(t, db, customer.ID, models.OrderStatusPending, "999")

	router := setupTestRouter()
	router.GET("/dashboard/stats", mockAuthMiddleware(admin.ID, admin.Role), GetDashboardStats)

	w := performRequest(router, http.MethodGet, "/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stats := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(2), stats["total_users"])
	assert.Equal(t, float64(3), stats["total_orders"])
	assert.Equal(t, 450.25, stats["total_sales"], "only delivered orders count as sales")

	growth := stats["user_growth"].([]interface{})
	trends := stats["order_trends"].([]interface{})
	require.Len(t, growth, 6)
	require.Len(t, trends, 6)
	current := trends[5].(map[string]interface{})
	assert.Equal(t, float64(3), current["count"])
	assert.Equal(t, float64(2), growth[5].(map[string]interface{})["count"])
}
