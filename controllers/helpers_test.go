package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/foodhub/foodhub-api/config"
	"github.com/foodhub/foodhub-api/middleware"
	"github.com/foodhub/foodhub-api/models"
	"github.com/foodhub/foodhub-api/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := config.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	config.SetConfig(&config.Config{
		GoEnv:                  "test",
		JWTSecret:              "test-secret",
		JWTIssuer:              "foodhub-api",
		JWTAudience:            "foodhub-clients",
		JWTTTL:                 time.Hour,
		OrderStatusTransitions: services.DefaultStatusTransitions(),
	})
	services.SetNotificationDispatcher(nil)
	services.NewMockImageService().SetAsMockForTesting()
	return db
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

// mockAuthMiddleware sets up the context exactly as the real EnsureValidToken middleware does
func mockAuthMiddleware(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextRole, role)
		c.Set(middleware.ContextClaims, &validator.ValidatedClaims{
			RegisteredClaims: validator.RegisteredClaims{Subject: fmt.Sprint(userID)},
			CustomClaims:     &middleware.CustomClaims{Role: role},
		})
		c.Next()
	}
}

func createTestUser(t *testing.T, db *gorm.DB, name, mobile, role string) *models.User {
	t.Helper()
	hash, err := services.HashPassword("secret123")
	require.NoError(t, err)
	user := &models.User{Name: name, Email: mobile + "@example.com", Mobile: mobile, Password: hash, Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestFood(t *testing.T, db *gorm.DB, name, amount, discount string) *models.Food {
	t.Helper()
	category := &models.Category{Name: "Mains"}
	require.NoError(t, db.Create(category).Error)
	sub := &models.Subcategory{Name: "Curries", CategoryID: category.ID}
	require.NoError(t, db.Create(sub).Error)

	food := &models.Food{Name: name, Amount: decimal.RequireFromString(amount), SubcategoryID: &sub.ID}
	if discount != "" {
		food.Discount = decimal.NewNullDecimal(decimal.RequireFromString(discount))
	}
	require.NoError(t, db.Create(food).Error)
	return food
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func responseErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	response := decodeResponse(t, w)
	errBody, ok := response["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	code, _ := errBody["code"].(string)
	return code
}
