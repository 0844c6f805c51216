package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/foodhub/foodhub-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressEndpoints(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "Asha", "9400000001", models.RoleCustomer)

	router := setupTestRouter()
	auth := mockAuthMiddleware(user.ID, user.Role)
	router.GET("/addresses", auth, ListAddresses)
	router.POST("/addresses", auth, CreateAddress)
	router.PUT("/addresses/:id", auth, UpdateAddress)
	router.DELETE("/addresses/:id", auth, DeleteAddress)

	w := performRequest(router, http.MethodPost, "/addresses", map[string]interface{}{
		"label":        "Home",
		"full_address": "12 MG Road, Bengaluru",
		"pincode":      "560001",
		"is_default":   true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	homeID := uint(decodeResponse(t, w)["data"].(map[string]interface{})["id"].(float64))

	w = performRequest(router, http.MethodPost, "/addresses", map[string]interface{}{
		"label":        "Work",
		"full_address": "Tech Park, Whitefield",
		"latitude":     12.97,
		"longitude":    77.75,
		"is_default":   true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	workID := uint(decodeResponse(t, w)["data"].(map[string]interface{})["id"].(float64))

	w = performRequest(router, http.MethodGet, "/addresses", nil)
	require.Equal(t, http.StatusOK, w.Code)
	addresses := decodeResponse(t, w)["data"].([]interface{})
	require.Len(t, addresses, 2)
	first := addresses[0].(map[string]interface{})
	assert.Equal(t, float64(workID), first["id"], "default address is listed first")
	assert.Equal(t, true, first["is_default"])
	assert.Equal(t, false, addresses[1].(map[string]interface{})["is_default"], "only one default per user")

	w = performRequest(router, http.MethodPut, fmt.Sprintf("/addresses/%d", homeID), map[string]interface{}{
		"label":        "Home",
		"full_address": "14 MG Road, Bengaluru",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "14 MG Road, Bengaluru", decodeResponse(t, w)["data"].(map[string]interface{})["full_address"])

	w = performRequest(router, http.MethodDelete, fmt.Sprintf("/addresses/%d", homeID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = performRequest(router, http.MethodDelete, fmt.Sprintf("/addresses/%d", homeID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ADDRESS_NOT_FOUND", responseErrorCode(t, w))
}

func TestAddress_OtherUsersAreNotFound(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "Asha", "9400000002", models.RoleCustomer)
	other := createTestUser(t, db, "Ravi", "9400000003", models.RoleCustomer)
	address := &models.Address{UserID: owner.ID, Label: "Home", FullAddress: "12 MG Road"}
	require.NoError(t, db.Create(address).Error)

	router := setupTestRouter()
	auth := mockAuthMiddleware(other.ID, other.Role)
	router.PUT("/addresses/:id", auth, UpdateAddress)
	router.DELETE("/addresses/:id", auth, DeleteAddress)

	path := fmt.Sprintf("/addresses/%d", address.ID)
	w := performRequest(router, http.MethodPut, path, map[string]interface{}{"label": "Mine", "full_address": "Elsewhere"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ADDRESS_NOT_FOUND", responseErrorCode(t, w))

	w = performRequest(router, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var stored models.Address
	require.NoError(t, db.First(&stored, address.ID).Error)
	assert.Equal(t, "12 MG Road", stored.FullAddress)
}

func TestCreateAddress_Validation(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "Asha", "9400000004", models.RoleCustomer)

	router := setupTestRouter()
	router.POST("/addresses", mockAuthMiddleware(user.ID, user.Role), CreateAddress)

	tests := []struct {
		name         string
		body         map[string]interface{}
		expectedCode string
	}{
		{"missing label", map[string]interface{}{"full_address": "12 MG Road"}, "VALIDATION_ERROR"},
		{"blank address", map[string]interface{}{"label": "Home", "full_address": "  "}, "MISSING_FIELDS"},
		{"latitude out of range", map[string]interface{}{"label": "Home", "full_address": "12 MG Road", "latitude": 123.4}, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, http.MethodPost, "/addresses", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, tt.expectedCode, responseErrorCode(t, w))
		})
	}
}
