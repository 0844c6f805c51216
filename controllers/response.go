package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/foodhub/foodhub-api/logger"
	"github.com/foodhub/foodhub-api/middleware"
	"github.com/foodhub/foodhub-api/services"
	"github.com/foodhub/foodhub-api/utils"
	"github.com/gin-gonic/gin"
)

var statusByKind = map[services.ErrorKind]int{
	services.KindValidation:   http.StatusBadRequest,
	services.KindAuth:         http.StatusUnauthorized,
	services.KindAccessDenied: http.StatusForbidden,
	services.KindNotFound:     http.StatusNotFound,
	services.KindConflict:     http.StatusConflict,
	services.KindStorage:      http.StatusInternalServerError,
}

func respondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondErrorCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondError maps a service error to the error envelope. Storage failures are
// logged with their cause and reported with the service's generic message only.
func respondError(c *gin.Context, err error) {
	var fileErr *utils.FileUploadError
	if errors.As(err, &fileErr) {
		respondErrorCode(c, http.StatusBadRequest, fileErr.Code, fileErr.Message)
		return
	}

	var se *services.ServiceError
	if !errors.As(err, &se) {
		se = services.NewStorageError("Internal server error", err)
	}
	status, ok := statusByKind[se.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		logger.Get().Error("Request failed",
			"request_id", logger.RequestID(c),
			"path", c.FullPath(),
			"error", err,
		)
	}
	respondErrorCode(c, status, se.Code, se.Message)
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

// currentIdentity returns the authenticated caller or writes a 401
func currentIdentity(c *gin.Context) (services.Identity, bool) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		respondErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return services.Identity{}, false
	}
	return identity, true
}

// idParam parses a positive integer path parameter or writes a 400
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, services.ErrInvalidID)
		return 0, false
	}
	return uint(id), true
}

// optionalUintQuery parses an optional positive integer query parameter
func optionalUintQuery(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		respondError(c, services.ErrInvalidID)
		return nil, false
	}
	v := uint(value)
	return &v, true
}

// imageURL resolves a stored image key through the configured image service.
// A resolution failure is logged and leaves the URL empty.
func imageURL(c *gin.Context, key *string) *string {
	if key == nil || *key == "" {
		return nil
	}
	imageService := services.GetImageService()
	if imageService == nil {
		return nil
	}
	url, err := imageService.GetImageURL(c.Request.Context(), *key)
	if err != nil {
		logger.Get().Warn("Failed to resolve image URL", "key", *key, "error", err)
		return nil
	}
	return &url
}

// uploadImage stores the optional "image" form file and returns its key, or nil when absent
func uploadImage(c *gin.Context) (*string, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, &utils.FileUploadError{Code: "INVALID_UPLOAD", Message: "Could not read the uploaded image"}
	}
	imageService := services.GetImageService()
	if imageService == nil {
		return nil, services.NewStorageError("Image storage is not configured", errors.New("image service not initialized"))
	}
	key, err := imageService.UploadImage(c.Request.Context(), fileHeader)
	if err != nil {
		return nil, err
	}
	return &key, nil
}
