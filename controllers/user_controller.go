package controllers

import (
	"net/http"

	"github.com/foodhub/foodhub-api/config"
	"github.com/foodhub/foodhub-api/models"
	"github.com/foodhub/foodhub-api/services"
	"github.com/gin-gonic/gin"
)

// UpdateUserRequest represents the request body for updating the current user's profile.
// Omitted fields are left unchanged.
type UpdateUserRequest struct {
	Name    *string `json:"name" form:"name"`
	Email   *string `json:"email" form:"email" binding:"omitempty,email"`
	Address *string `json:"address" form:"address"`
	Bio     *string `json:"bio" form:"bio"`
}

// ChangePasswordRequest represents the request body for changing the current user's password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UpdateUserByIDRequest represents the request body staff send to edit an account.
// Omitted fields are left unchanged.
type UpdateUserByIDRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email" binding:"omitempty,email"`
	Mobile *string `json:"mobile"`
	Role   *string `json:"role"`
}

// GetMyProfile handles GET /api/v1/users/me - gets current user's profile
func GetMyProfile(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	user, err := services.NewUserService(config.GetDB()).GetUser(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	user.ImageURL = imageURL(c, user.ProfileImage)
	respondSuccess(c, http.StatusOK, user)
}

// UpdateMyProfile handles PUT /api/v1/users/me - updates current user's profile
func UpdateMyProfile(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	image, err := uploadImage(c)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := services.NewUserService(config.GetDB()).UpdateProfile(c.Request.Context(), identity.UserID, services.ProfileInput{
		Name:         req.Name,
		Email:        req.Email,
		Address:      req.Address,
		Bio:          req.Bio,
		ProfileImage: image,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	user.ImageURL = imageURL(c, user.ProfileImage)
	respondSuccess(c, http.StatusOK, user)
}

// ChangeMyPassword handles PUT /api/v1/users/me/password
func ChangeMyPassword(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	err := services.NewUserService(config.GetDB()).ChangePassword(c.Request.Context(), identity.UserID, req.OldPassword, req.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// ListUsers handles GET /api/v1/users - lists every account, optionally filtered by ?role= (staff only)
func ListUsers(c *gin.Context) {
	users, err := services.NewUserService(config.GetDB()).ListUsers(c.Request.Context(), c.Query("role"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, withImageURLs(c, users))
}

// UpdateUser handles PUT /api/v1/users/:id (staff only)
func UpdateUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateUserByIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := services.NewUserService(config.GetDB()).UpdateUser(c.Request.Context(), id, services.UserUpdateInput{
		Name:   req.Name,
		Email:  req.Email,
		Mobile: req.Mobile,
		Role:   req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	user.ImageURL = imageURL(c, user.ProfileImage)
	respondSuccess(c, http.StatusOK, user)
}

func withImageURLs(c *gin.Context, users []models.User) []models.User {
	for i := range users {
		users[i].ImageURL = imageURL(c, users[i].ProfileImage)
	}
	return users
}
