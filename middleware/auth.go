package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/foodhub/foodhub-api/config"
	"github.com/foodhub/foodhub-api/logger"
	"github.com/foodhub/foodhub-api/models"
	"github.com/foodhub/foodhub-api/services"
	"github.com/gin-gonic/gin"
)

// Context keys set by EnsureValidToken
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextClaims = "validated_claims"
)

// CustomClaims contains the application claims carried by an access token
type CustomClaims struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

// Validate rejects tokens whose role is not one the API knows
func (c CustomClaims) Validate(ctx context.Context) error {
	if !models.IsValidRole(c.Role) {
		return errors.New("token carries an unknown role")
	}
	return nil
}

// EnsureValidToken is a middleware that will check the validity of our JWT.
// On success the caller's id and role are stored in the Gin context.
func EnsureValidToken(cfg *config.Config) gin.HandlerFunc {
	secret := []byte(cfg.JWTSecret)
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return secret, nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		cfg.JWTIssuer,
		[]string{cfg.JWTAudience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		logger.Get().Error("Failed to set up the jwt validator", "error", err)
		panic(err)
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Get().Debug("Encountered error while validating JWT", "error", err)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		if _, writeErr := w.Write([]byte(`{"success":false,"error":{"code":"INVALID_TOKEN","message":"Failed to validate JWT."}}`)); writeErr != nil {
			logger.Get().Warn("Failed to write error response", "error", writeErr)
		}
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		authenticated := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			token := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			claims, ok := token.CustomClaims.(*CustomClaims)
			userID, err := strconv.ParseUint(token.RegisteredClaims.Subject, 10, 64)
			if !ok || err != nil || userID == 0 {
				abortWithAuthError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Token subject is not a user id")
				return
			}

			authenticated = true
			c.Set(ContextUserID, uint(userID))
			c.Set(ContextRole, claims.Role)
			c.Set(ContextClaims, token)
			c.Request = r

			c.Next()
		}

		// Use the JWT middleware to check the token
		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)
		if !authenticated {
			c.Abort()
		}
	}
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) (uint, error) {
	userID, exists := c.Get(ContextUserID)
	if !exists {
		return 0, &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	id, ok := userID.(uint)
	if !ok {
		return 0, &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a number"}
	}
	return id, nil
}

// GetRole returns the caller's role, or "" when unauthenticated
func GetRole(c *gin.Context) string {
	return c.GetString(ContextRole)
}

// GetIdentity returns the authenticated caller
func GetIdentity(c *gin.Context) (services.Identity, error) {
	userID, err := GetUserID(c)
	if err != nil {
		return services.Identity{}, err
	}
	return services.Identity{UserID: userID, Role: GetRole(c)}, nil
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get(ContextClaims)
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// RequireRole is a middleware that only lets callers holding one of roles through
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := GetUserID(c); err != nil {
			abortWithAuthError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		role := GetRole(c)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		abortWithAuthError(c, http.StatusForbidden, "ACCESS_DENIED", "Insufficient permissions to access this resource")
	}
}

// RequireStaff lets only admins and owners through
func RequireStaff() gin.HandlerFunc {
	return RequireRole(models.StaffRoles...)
}

func abortWithAuthError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
