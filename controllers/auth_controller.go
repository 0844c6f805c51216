package controllers

import (
	"fmt"
	"net/http"

	"github.com/foodhub/foodhub-api/config"
	"github.com/foodhub/foodhub-api/services"
	"github.com/gin-gonic/gin"
)

// RegisterRequest represents the request body for creating an account.
// It is accepted as JSON or as a multipart form with an optional "image" file.
type RegisterRequest struct {
	Name     string `json:"name" form:"name" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Mobile   string `json:"mobile" form:"mobile" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
	Role     string `json:"role" form:"role"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Mobile   string `json:"mobile" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/v1/auth/register - creates an account and notifies staff
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	image, err := uploadImage(c)
	if err != nil {
		respondError(c, err)
		return
	}

	cfg := config.GetConfig()
	user, err := services.NewUserService(config.GetDB()).Register(c.Request.Context(), services.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Mobile:       req.Mobile,
		Password:     req.Password,
		Role:         req.Role,
		ProfileImage: image,
	}, cfg != nil && cfg.AllowStaffRegistration)
	if err != nil {
		respondError(c, err)
		return
	}

	if dispatcher := services.GetNotificationDispatcher(); dispatcher != nil {
		dispatcher.NotifyStaff(c.Request.Context(), services.StaffEvent{
			ActorID: user.ID,
			Message: fmt.Sprintf("New %s account created: %s", user.Role, user.Name),
		})
	}

	user.ImageURL = imageURL(c, user.ProfileImage)
	respondSuccess(c, http.StatusCreated, user)
}

// Login handles POST /api/v1/auth/login - exchanges mobile and password for an access token
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := services.NewUserService(config.GetDB()).Login(c.Request.Context(), req.Mobile, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, expiresAt, err := tokenService().Issue(user)
	if err != nil {
		respondError(c, services.NewStorageError("Failed to issue token", err))
		return
	}

	user.ImageURL = imageURL(c, user.ProfileImage)
	respondSuccess(c, http.StatusOK, gin.H{
		"token":      token,
		"token_type": "Bearer",
		"expires_at": expiresAt,
		"user":       user,
	})
}

func tokenService() *services.TokenService {
	cfg := config.GetConfig()
	return services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
}
