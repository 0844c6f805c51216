package controllers

import (
	"net/http"

	"github.com/foodhub/foodhub-api/config"
	"github.com/foodhub/foodhub-api/services"
	"github.com/gin-gonic/gin"
)

// CreateOrderRequest represents the request body for placing an order from the cart
type CreateOrderRequest struct {
	PaymentMethod   string            `json:"payment_method" binding:"required"`
	DeliveryAddress string            `json:"delivery_address" binding:"required"`
	UserInfo        services.UserInfo `json:"user_info"`
}

// UpdateOrderStatusRequest represents the request body for changing an order's status
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func orderService() *services.OrderService {
	var transitions services.StatusTransitions
	if cfg := config.GetConfig(); cfg != nil && cfg.OrderStatusTransitions != nil {
		transitions = cfg.OrderStatusTransitions
	}
	return services.NewOrderService(config.GetDB(), services.GetNotificationDispatcher(), transitions)
}

// CreateOrder handles POST /api/v1/orders - checks out the caller's cart
func CreateOrder(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorCode(c, http.StatusBadRequest, "MISSING_FIELDS", "Payment method and delivery address are required")
		return
	}

	placed, err := orderService().PlaceOrder(c.Request.Context(), identity.UserID, services.PlaceOrderInput{
		PaymentMethod:   req.PaymentMethod,
		DeliveryAddress: req.DeliveryAddress,
		UserInfo:        req.UserInfo,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, placed)
}

// ListMyOrders handles GET /api/v1/orders - the caller's orders, newest first
func ListMyOrders(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	orders, err := orderService().ListOrders(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, orders)
}

// ListAllOrders handles GET /api/v1/orders/all (staff only)
func ListAllOrders(c *gin.Context) {
	orders, err := orderService().ListAllOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, orders)
}

// GetOrderStats handles GET /api/v1/orders/stats (staff only)
func GetOrderStats(c *gin.Context) {
	stats, err := orderService().Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, stats)
}

// GetOrder handles GET /api/v1/orders/:id - visible to the owner and to staff
func GetOrder(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	order, err := orderService().GetOrder(c.Request.Context(), id, identity)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, order)
}

// UpdateOrderStatus handles PUT /api/v1/orders/:id/status (staff only)
func UpdateOrderStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, services.ErrInvalidStatus)
		return
	}

	order, err := orderService().UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, order)
}
