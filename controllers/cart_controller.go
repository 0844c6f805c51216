package controllers

import (
	"net/http"

	"github.com/foodhub/foodhub-api/config"
	"github.com/foodhub/foodhub-api/services"
	"github.com/gin-gonic/gin"
)

// AddCartItemRequest represents the request body for adding a food to the cart
type AddCartItemRequest struct {
	FoodID   uint `json:"food_id" binding:"required"`
	Quantity *int `json:"quantity"`
}

// UpdateCartItemRequest represents the request body for setting a cart line's quantity.
// A quantity of zero or less removes the line.
type UpdateCartItemRequest struct {
	FoodID   uint `json:"food_id" binding:"required"`
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart handles GET /api/v1/cart - lines at current prices plus the total
func GetCart(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	items, err := services.NewCartService(config.GetDB()).GetCart(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	for i := range items {
		items[i].ImageURL = imageURL(c, items[i].Image)
	}
	respondSuccess(c, http.StatusOK, gin.H{"items": items, "total": services.SummarizeCart(items)})
}

// AddCartItem handles POST /api/v1/cart/items - quantity defaults to 1
func AddCartItem(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	quantity, err := services.NewCartService(config.GetDB()).AddItem(c.Request.Context(), identity.UserID, req.FoodID, qty)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"food_id": req.FoodID, "quantity": quantity})
}

// UpdateCartItem handles PUT /api/v1/cart/items
func UpdateCartItem(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	err := services.NewCartService(config.GetDB()).UpdateQuantity(c.Request.Context(), identity.UserID, req.FoodID, *req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	quantity := *req.Quantity
	if quantity < 0 {
		quantity = 0
	}
	respondSuccess(c, http.StatusOK, gin.H{"food_id": req.FoodID, "quantity": quantity})
}

// RemoveCartItem handles DELETE /api/v1/cart/items/:food_id
func RemoveCartItem(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	foodID, ok := idParam(c, "food_id")
	if !ok {
		return
	}

	if err := services.NewCartService(config.GetDB()).RemoveItem(c.Request.Context(), identity.UserID, foodID); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"message": "Item removed from cart"})
}

// ClearCart handles DELETE /api/v1/cart
func ClearCart(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	if err := services.NewCartService(config.GetDB()).ClearCart(c.Request.Context(), identity.UserID); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"message": "Cart cleared"})
}
