package controllers

import (
	"net/http"

	"github.com/foodhub/foodhub-api/config"
	"github.com/foodhub/foodhub-api/services"
	"github.com/gin-gonic/gin"
)

// AddressRequest represents the request body for creating or updating an address
type AddressRequest struct {
	Label       string   `json:"label" binding:"required"`
	FullAddress string   `json:"full_address" binding:"required"`
	FlatNo      *string  `json:"flat_no"`
	Landmark    *string  `json:"landmark"`
	City        *string  `json:"city"`
	State       *string  `json:"state"`
	Pincode     *string  `json:"pincode"`
	Latitude    *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,longitude"`
	IsDefault   bool     `json:"is_default"`
}

func (r AddressRequest) input() services.AddressInput {
	return services.AddressInput{
		Label:       r.Label,
		FullAddress: r.FullAddress,
		FlatNo:      r.FlatNo,
		Landmark:    r.Landmark,
		City:        r.City,
		State:       r.State,
		Pincode:     r.Pincode,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		IsDefault:   r.IsDefault,
	}
}

// ListAddresses handles GET /api/v1/addresses
func ListAddresses(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	addresses, err := services.NewAddressService(config.GetDB()).List(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, addresses)
}

// CreateAddress handles POST /api/v1/addresses
func CreateAddress(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	address, err := services.NewAddressService(config.GetDB()).Create(c.Request.Context(), identity.UserID, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, address)
}

// UpdateAddress handles PUT /api/v1/addresses/:id
func UpdateAddress(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	address, err := services.NewAddressService(config.GetDB()).Update(c.Request.Context(), identity.UserID, id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, address)
}

// DeleteAddress handles DELETE /api/v1/addresses/:id
func DeleteAddress(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := services.NewAddressService(config.GetDB()).Delete(c.Request.Context(), identity.UserID, id); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"message": "Address deleted successfully"})
}
