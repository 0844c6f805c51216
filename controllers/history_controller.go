package controllers

import (
	"net/http"

	"github.com/foodhub/foodhub-api/config"
	"github.com/foodhub/foodhub-api/services"
	"github.com/gin-gonic/gin"
)

// ListMyOrderHistory handles GET /api/v1/order-history
func ListMyOrderHistory(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	entries, err := services.NewHistoryService(config.GetDB()).ListForUser(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, entries)
}

// GetOrderHistoryEntry handles GET /api/v1/order-history/:id - owner or staff
func GetOrderHistoryEntry(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	entry, err := services.NewHistoryService(config.GetDB()).Get(c.Request.Context(), id, identity)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, entry)
}

// ListUserOrderHistory handles GET /api/v1/order-history/users/:user_id (staff only)
func ListUserOrderHistory(c *gin.Context) {
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}

	entries, err := services.NewHistoryService(config.GetDB()).ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, entries)
}

// ListAllOrderHistory handles GET /api/v1/order-history/all (staff only)
func ListAllOrderHistory(c *gin.Context) {
	entries, err := services.NewHistoryService(config.GetDB()).ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, entries)
}

// DeleteOrderHistoryEntry handles DELETE /api/v1/order-history/:id (staff only)
func DeleteOrderHistoryEntry(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := services.NewHistoryService(config.GetDB()).Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"message": "Order history entry deleted"})
}
