package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/foodhub/foodhub-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedOrder(t *testing.T, db *gorm.DB, userID uint, status, total string) *models.Order {
	t.Helper()
	order := &models.Order{
		UserID:          userID,
		TotalAmount:     decimal.RequireFromString(total),
		PaymentMethod:   models.PaymentCashOnDelivery,
		DeliveryAddress: "1 Test Street",
		OrderStatus:     status,
		Items: []models.OrderItem{
			{FoodName: "Dal Makhani", Price: decimal.RequireFromString(total), Quantity: 1},
		},
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestCreateOrder(t *testing.T) {
	tests := []struct {
		name           string
		fillCart       bool
		body           map[string]interface{}
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Place order from cart",
			fillCart:       true,
			body:           map[string]interface{}{"payment_method": "upi", "delivery_address": "1 Test Street"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Empty cart",
			body:           map[string]interface{}{"payment_method": "upi", "delivery_address": "1 Test Street"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "EMPTY_CART",
		},
		{
			name:           "Missing delivery address",
			fillCart:       true,
			body:           map[string]interface{}{"payment_method": "upi"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "MISSING_FIELDS",
		},
		{
			name:           "Blank delivery address",
			fillCart:       true,
			body:           map[string]interface{}{"payment_method": "upi", "delivery_address": "   "},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "MISSING_FIELDS",
		},
		{
			name:           "Unsupported payment method",
			fillCart:       true,
			body:           map[string]interface{}{"payment_method": "card", "delivery_address": "1 Test Street"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_PAYMENT_METHOD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			user := createTestUser(t, db, "Asha", "9100000001", models.RoleCustomer)
			food := createTestFood(t, db, "Dal Makhani", "180", "30")
			if tt.fillCart {
				require.NoError(t, db.Create(&models.CartLine{UserID: user.ID, FoodID: food.ID, Quantity: 3}).Error)
			}

			router := setupTestRouter()
			router.POST("/orders", mockAuthMiddleware(user.ID, user.Role), CreateOrder)

			w := performRequest(router, http.MethodPost, "/orders", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, responseErrorCode(t, w))
				return
			}

			data := decodeResponse(t, w)["data"].(map[string]interface{})
			assert.Equal(t, float64(450), data["total_amount"])
			assert.NotZero(t, data["order_id"])
		})
	}
}

func TestCreateOrder_UserInfoOverridesProfile(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "Asha", "9100000002", models.RoleCustomer)
	food := createTestFood(t, db, "Naan", "40", "")
	require.NoError(t, db.Create(&models.CartLine{UserID: user.ID, FoodID: food.ID, Quantity: 2}).Error)

	router := setupTestRouter()
	router.POST("/orders", mockAuthMiddleware(user.ID, user.Role), CreateOrder)

	w := performRequest(router, http.MethodPost, "/orders", map[string]interface{}{
		"payment_method":   "cash_on_delivery",
		"delivery_address": "Office, 4th floor",
		"user_info":        map[string]interface{}{"name": "Asha K"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var order models.Order
	require.NoError(t, db.First(&order).Error)
	assert.Equal(t, "Asha K", order.UserName)
	assert.Equal(t, user.Email, order.UserEmail)
	assert.Equal(t, user.Mobile, order.UserMobile)
	assert.Equal(t, "Office, 4th floor", order.DeliveryAddress)
}

func TestListMyOrders(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestUser(t, db, "Asha", "9100000003", models.RoleCustomer)
	other := createTestUser(t, db, "Ravi", "9100000004", models.RoleCustomer)
	seedOrder(t, db, customer.ID, models.OrderStatusPending, "100")
	seedOrder(t, db, customer.ID, models.OrderStatusApproved, "200")
	seedOrder(t, db, other.ID, models.OrderStatusPending, "300")

	router := setupTestRouter()
	router.GET("/orders", mockAuthMiddleware(customer.ID, customer.Role), ListMyOrders)

	w := performRequest(router, http.MethodGet, "/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders := decodeResponse(t, w)["data"].([]interface{})
	require.Len(t, orders, 2)
	for _, raw := range orders {
		order := raw.(map[string]interface{})
		assert.Equal(t, float64(customer.ID), order["user_id"])
		assert.Len(t, order["items"], 1)
	}
}

func TestListAllOrdersAndStats(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, "Admin", "9100000005", models.RoleAdmin)
	customer := createTestUser(t, db, "Asha", "9100000006", models.RoleCustomer)
	seedOrder(t, db, customer.ID, models.OrderStatusPending, "100.50")
	seedOrder(t, db, customer.ID, models.OrderStatusDelivered, "200")
	seedOrder(t, db, admin.ID, models.OrderStatusRejected, "50")

	router := setupTestRouter()
	router.GET("/orders/all", mockAuthMiddleware(admin.ID, admin.Role), ListAllOrders)
	router.GET("/orders/stats", mockAuthMiddleware(admin.ID, admin.Role), GetOrderStats)

	w := performRequest(router, http.MethodGet, "/orders/all", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeResponse(t, w)["data"].([]interface{}), 3)

	w = performRequest(router, http.MethodGet, "/orders/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(3), stats["total_orders"])
	assert.Equal(t, float64(1), stats["pending_orders"])
	assert.Equal(t, float64(0), stats["approved_orders"])
	assert.Equal(t, float64(1), stats["rejected_orders"])
	assert.Equal(t, float64(1), stats["delivered_orders"])
	assert.Equal(t, 350.5, stats["total_revenue"])
}

func TestGetOrder(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "Asha", "9100000007", models.RoleCustomer)
	stranger := createTestUser(t, db, "Ravi", "9100000008", models.RoleCustomer)
	staff := createTestUser(t, db, "Owner", "9100000009", models.RoleOwner)
	order := seedOrder(t, db, owner.ID, models.OrderStatusPending, "120")

	tests := []struct {
		name           string
		user           *models.User
		path           string
		expectedStatus int
		expectedCode   string
	}{
		{"owner can read", owner, fmt.Sprintf("/orders/%d", order.ID), http.StatusOK, ""},
		{"staff can read", staff, fmt.Sprintf("/orders/%d", order.ID), http.StatusOK, ""},
		{"stranger is denied", stranger, fmt.Sprintf("/orders/%d", order.ID), http.StatusForbidden, "ACCESS_DENIED"},
		{"missing order", owner, "/orders/9999", http.StatusNotFound, "ORDER_NOT_FOUND"},
		{"malformed id", owner, "/orders/abc", http.StatusBadRequest, "INVALID_ID"},
		{"zero id", owner, "/orders/0", http.StatusBadRequest, "INVALID_ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.GET("/orders/:id", mockAuthMiddleware(tt.user.ID, tt.user.Role), GetOrder)

			w := performRequest(router, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, responseErrorCode(t, w))
			}
		})
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	tests := []struct {
		name           string
		from           string
		body           map[string]interface{}
		expectedStatus int
		expectedCode   string
		finalStatus    string
	}{
		{"pending to approved", models.OrderStatusPending, map[string]interface{}{"status": "approved"}, http.StatusOK, "", models.OrderStatusApproved},
		{"pending to delivered", models.OrderStatusPending, map[string]interface{}{"status": "delivered"}, http.StatusOK, "", models.OrderStatusDelivered},
		{"same status is accepted", models.OrderStatusRejected, map[string]interface{}{"status": "rejected"}, http.StatusOK, "", models.OrderStatusRejected},
		{"terminal status cannot move", models.OrderStatusDelivered, map[string]interface{}{"status": "pending"}, http.StatusConflict, "INVALID_TRANSITION", models.OrderStatusDelivered},
		{"unknown status", models.OrderStatusPending, map[string]interface{}{"status": "shipped"}, http.StatusBadRequest, "INVALID_STATUS", models.OrderStatusPending},
		{"missing status", models.OrderStatusPending, map[string]interface{}{}, http.StatusBadRequest, "INVALID_STATUS", models.OrderStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			admin := createTestUser(t, db, "Admin", "9100000010", models.RoleAdmin)
			order := seedOrder(t, db, admin.ID, tt.from, "99")

			router := setupTestRouter()
			router.PUT("/orders/:id/status", mockAuthMiddleware(admin.ID, admin.Role), UpdateOrderStatus)

			w := performRequest(router, http.MethodPut, fmt.Sprintf("/orders/%d/status", order.ID), tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, responseErrorCode(t, w))
			} else {
				data := decodeResponse(t, w)["data"].(map[string]interface{})
				assert.Equal(t, tt.finalStatus, data["order_status"])
			}

			var stored models.Order
			require.NoError(t, db.First(&stored, order.ID).Error)
			assert.Equal(t, tt.finalStatus, stored.OrderStatus)
		})
	}
}

func TestUpdateOrderStatus_NotFound(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, "Admin", "9100000011", models.RoleAdmin)

	router := setupTestRouter()
	router.PUT("/orders/:id/status", mockAuthMiddleware(admin.ID, admin.Role), UpdateOrderStatus)

	w := performRequest(router, http.MethodPut, "/orders/777/status", map[string]interface{}{"status": "approved"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", responseErrorCode(t, w))
}
