package controllers

import (
	"net/http"

	"github.com/foodhub/foodhub-api/config"
	"github.com/foodhub/foodhub-api/models"
	"github.com/foodhub/foodhub-api/services"
	"github.com/gin-gonic/gin"
)

// CategoryRequest represents the request body for creating or updating a category or subcategory
type CategoryRequest struct {
	Name        string  `json:"name" form:"name" binding:"required"`
	Description *string `json:"description" form:"description"`
	CategoryID  uint    `json:"category_id" form:"category_id"`
}

func bindCategory(c *gin.Context) (*CategoryRequest, services.CategoryInput, bool) {
	var req CategoryRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return nil, services.CategoryInput{}, false
	}
	image, err := uploadImage(c)
	if err != nil {
		respondError(c, err)
		return nil, services.CategoryInput{}, false
	}
	return &req, services.CategoryInput{Name: req.Name, Description: req.Description, Image: image}, true
}

func withCategoryImages(c *gin.Context, category *models.Category) *models.Category {
	category.ImageURL = imageURL(c, category.Image)
	for i := range category.Subcategories {
		withSubcategoryImage(c, &category.Subcategories[i])
	}
	return category
}

func withSubcategoryImage(c *gin.Context, sub *models.Subcategory) *models.Subcategory {
	sub.ImageURL = imageURL(c, sub.Image)
	return sub
}

// ListCategories handles GET /api/v1/categories
func ListCategories(c *gin.Context) {
	categories, err := services.NewCategoryService(config.GetDB()).ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	for i := range categories {
		withCategoryImages(c, &categories[i])
	}
	respondSuccess(c, http.StatusOK, categories)
}

// GetCategory handles GET /api/v1/categories/:id
func GetCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	category, err := services.NewCategoryService(config.GetDB()).GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, withCategoryImages(c, category))
}

// CreateCategory handles POST /api/v1/categories (staff only)
func CreateCategory(c *gin.Context) {
	_, in, ok := bindCategory(c)
	if !ok {
		return
	}
	category, err := services.NewCategoryService(config.GetDB()).CreateCategory(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, withCategoryImages(c, category))
}

// UpdateCategory handles PUT /api/v1/categories/:id (staff only)
func UpdateCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	_, in, ok := bindCategory(c)
	if !ok {
		return
	}
	category, err := services.NewCategoryService(config.GetDB()).UpdateCategory(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, withCategoryImages(c, category))
}

// DeleteCategory handles DELETE /api/v1/categories/:id (staff only)
func DeleteCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	category, err := services.NewCategoryService(config.GetDB()).DeleteCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"message": "Category deleted successfully", "category": category})
}

// ListSubcategories handles GET /api/v1/subcategories?category_id=
func ListSubcategories(c *gin.Context) {
	categoryID, ok := optionalUintQuery(c, "category_id")
	if !ok {
		return
	}
	subcategories, err := services.NewCategoryService(config.GetDB()).ListSubcategories(c.Request.Context(), categoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	for i := range subcategories {
		withSubcategoryImage(c, &subcategories[i])
	}
	respondSuccess(c, http.StatusOK, subcategories)
}

// GetSubcategory handles GET /api/v1/subcategories/:id
func GetSubcategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	sub, err := services.NewCategoryService(config.GetDB()).GetSubcategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, withSubcategoryImage(c, sub))
}

// CreateSubcategory handles POST /api/v1/subcategories (staff only)
func CreateSubcategory(c *gin.Context) {
	req, in, ok := bindCategory(c)
	if !ok {
		return
	}
	if req.CategoryID == 0 {
		respondErrorCode(c, http.StatusBadRequest, "MISSING_FIELDS", "category_id is required")
		return
	}
	sub, err := services.NewCategoryService(config.GetDB()).CreateSubcategory(c.Request.Context(), req.CategoryID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, withSubcategoryImage(c, sub))
}

// UpdateSubcategory handles PUT /api/v1/subcategories/:id (staff only)
func UpdateSubcategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	_, in, ok := bindCategory(c)
	if !ok {
		return
	}
	sub, err := services.NewCategoryService(config.GetDB()).UpdateSubcategory(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, withSubcategoryImage(c, sub))
}

// DeleteSubcategory handles DELETE /api/v1/subcategories/:id (staff only)
func DeleteSubcategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	sub, err := services.NewCategoryService(config.GetDB()).DeleteSubcategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"message": "Subcategory deleted successfully", "subcategory": sub})
}
