package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foodhub/foodhub-api/services"
	"github.com/foodhub/foodhub-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"validation", services.ErrEmptyCart, http.StatusBadRequest, "EMPTY_CART"},
		{"auth", services.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"access denied", services.ErrAccessDenied, http.StatusForbidden, "ACCESS_DENIED"},
		{"not found", services.ErrOrderNotFound, http.StatusNotFound, "ORDER_NOT_FOUND"},
		{"conflict", services.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
		{"storage", services.NewStorageError("Failed to place order", errors.New("disk full")), http.StatusInternalServerError, "DATABASE_ERROR"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, "DATABASE_ERROR"},
		{"upload error", &utils.FileUploadError{Code: "INVALID_IMAGE", Message: "Failed to decode image"}, http.StatusBadRequest, "INVALID_IMAGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decodeResponse(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.expectedCode, responseErrorCode(t, w))
			assert.NotContains(t, w.Body.String(), "disk full", "causes are never sent to clients")
		})
	}
}

func TestIDParam(t *testing.T) {
	router := setupTestRouter()
	router.GET("/things/:id", func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		respondSuccess(c, http.StatusOK, gin.H{"id": id})
	})

	for path, status := range map[string]int{
		"/things/7":   http.StatusOK,
		"/things/0":   http.StatusBadRequest,
		"/things/-1":  http.StatusBadRequest,
		"/things/abc": http.StatusBadRequest,
	} {
		w := performRequest(router, http.MethodGet, path, nil)
		assert.Equal(t, status, w.Code, path)
	}
}
