package controllers

import (
	"net/http"

	"github.com/foodhub/foodhub-api/config"
	"github.com/foodhub/foodhub-api/services"
	"github.com/gin-gonic/gin"
)

// GetDashboardStats handles GET /api/v1/dashboard/stats (staff only)
func GetDashboardStats(c *gin.Context) {
	stats, err := services.NewDashboardService(config.GetDB()).Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, stats)
}
