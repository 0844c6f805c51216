package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/foodhub/foodhub-api/config"
	"github.com/foodhub/foodhub-api/models"
	"github.com/foodhub/foodhub-api/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// FoodRequest represents the request body for creating or updating a food.
// Money and rating fields accept JSON numbers or numeric strings.
type FoodRequest struct {
	Name          string      `json:"name" form:"name" binding:"required"`
	OfferDetails  *string     `json:"offer_details" form:"offer_details"`
	CustomerRate  json.Number `json:"customer_rate" form:"customer_rate"`
	FoodType      *string     `json:"food_type" form:"food_type"`
	Amount        json.Number `json:"amount" form:"amount" binding:"required"`
	Discount      json.Number `json:"discount" form:"discount"`
	Description   *string     `json:"description" form:"description"`
	SubcategoryID *uint       `json:"subcategory_id" form:"subcategory_id"`
}

type foodResponse struct {
	models.Food
	Price decimal.Decimal `json:"price"`
}

func newFoodResponse(c *gin.Context, food *models.Food) foodResponse {
	food.ImageURL = imageURL(c, food.Image)
	return foodResponse{Food: *food, Price: food.Price()}
}

func parseNullDecimal(raw json.Number) (decimal.NullDecimal, error) {
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(string(raw))
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func bindFood(c *gin.Context) (services.FoodInput, bool) {
	var req FoodRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return services.FoodInput{}, false
	}

	amount, err := decimal.NewFromString(string(req.Amount))
	if err != nil {
		respondErrorCode(c, http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be a number")
		return services.FoodInput{}, false
	}
	discount, err := parseNullDecimal(req.Discount)
	if err != nil {
		respondErrorCode(c, http.StatusBadRequest, "INVALID_DISCOUNT", "Discount must be a number")
		return services.FoodInput{}, false
	}
	rate, err := parseNullDecimal(req.CustomerRate)
	if err != nil {
		respondErrorCode(c, http.StatusBadRequest, "INVALID_RATING", "Customer rating must be a number")
		return services.FoodInput{}, false
	}

	image, err := uploadImage(c)
	if err != nil {
		respondError(c, err)
		return services.FoodInput{}, false
	}

	return services.FoodInput{
		Name:          req.Name,
		Image:         image,
		OfferDetails:  req.OfferDetails,
		CustomerRate:  rate,
		FoodType:      req.FoodType,
		Amount:        amount,
		Discount:      discount,
		Description:   req.Description,
		SubcategoryID: req.SubcategoryID,
	}, true
}

// ListFoods handles GET /api/v1/foods?subcategory_id=
func ListFoods(c *gin.Context) {
	subcategoryID, ok := optionalUintQuery(c, "subcategory_id")
	if !ok {
		return
	}
	foods, err := services.NewCatalogService(config.GetDB()).ListFoods(c.Request.Context(), subcategoryID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]foodResponse, 0, len(foods))
	for i := range foods {
		response = append(response, newFoodResponse(c, &foods[i]))
	}
	respondSuccess(c, http.StatusOK, response)
}

// GetFood handles GET /api/v1/foods/:id
func GetFood(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	food, err := services.NewCatalogService(config.GetDB()).GetFood(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, newFoodResponse(c, food))
}

// CreateFood handles POST /api/v1/foods (staff only)
func CreateFood(c *gin.Context) {
	in, ok := bindFood(c)
	if !ok {
		return
	}
	food, err := services.NewCatalogService(config.GetDB()).CreateFood(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, newFoodResponse(c, food))
}

// UpdateFood handles PUT /api/v1/foods/:id (staff only)
func UpdateFood(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	in, ok := bindFood(c)
	if !ok {
		return
	}
	food, err := services.NewCatalogService(config.GetDB()).UpdateFood(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, newFoodResponse(c, food))
}

// DeleteFood handles DELETE /api/v1/foods/:id (staff only)
func DeleteFood(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	food, err := services.NewCatalogService(config.GetDB()).DeleteFood(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"message": "Food deleted successfully", "food": food})
}
