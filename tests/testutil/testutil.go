package testutil

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/foodhub/foodhub-api/config"
	"github.com/foodhub/foodhub-api/models"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// TestJWTSecret signs every token issued by the test helpers
const TestJWTSecret = "test-secret"

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
// It will fail the test immediately if GO_ENV is not set to "test".
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// RequireTestEnvironmentOrSkip is similar to RequireTestEnvironment but skips the test
// instead of failing it. Use this for optional tests that should only run in test environment.
func RequireTestEnvironmentOrSkip(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Skipf("Skipping test: GO_ENV must be 'test' (current: %q)", env)
	}
}

// MustSetTestEnvironment sets GO_ENV to test and fails if it cannot be set.
// Use this in TestMain or suite setup functions.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	if err := os.Setenv("GO_ENV", "test"); err != nil {
		t.Fatalf("Failed to set GO_ENV=test: %v", err)
	}

	// Verify it was set
	if os.Getenv("GO_ENV") != "test" {
		t.Fatal("Failed to verify GO_ENV=test")
	}
}

// TestConfig returns a configuration for an in-memory sqlite API with local image storage
func TestConfig() *config.Config {
	return &config.Config{
		DatabaseURL:            "file::memory:?_foreign_keys=on",
		DatabaseDriver:         "sqlite",
		Port:                   "8080",
		GoEnv:                  "test",
		JWTSecret:              TestJWTSecret,
		JWTIssuer:              "foodhub-api",
		JWTAudience:            "foodhub-clients",
		JWTTTL:                 time.Hour,
		UploadDir:              os.TempDir(),
		LogLevel:               "error",
		LogFormat:              "text",
		CORSAllowedOrigins:     []string{"*"},
		OrderStatusTransitions: map[string][]string{models.OrderStatusPending: {models.OrderStatusApproved, models.OrderStatusRejected, models.OrderStatusDelivered}},
		NotificationTimeout:    5 * time.Second,
	}
}

// NewTestDB opens a fresh migrated in-memory database. Each call gets its own database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
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
	return db
}

// CreateUser inserts an account whose password is "secret123"
func CreateUser(t *testing.T, db *gorm.DB, name, mobile, role string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := &models.User{
		Name:     name,
		Email:    mobile + "@example.com",
		Mobile:   mobile,
		Password: string(hash),
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", name, err)
	}
	return user
}

// CreateFood inserts a food under a fresh category and subcategory.
// An empty discount leaves the discount NULL.
func CreateFood(t *testing.T, db *gorm.DB, name, amount, discount string) *models.Food {
	t.Helper()

	category := &models.Category{Name: "Category for " + name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
	sub := &models.Subcategory{Name: "Subcategory for " + name, CategoryID: category.ID}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("Failed to create subcategory: %v", err)
	}

	food := &models.Food{
		Name:          name,
		Amount:        decimal.RequireFromString(amount),
		SubcategoryID: &sub.ID,
	}
	if discount != "" {
		food.Discount = decimal.NewNullDecimal(decimal.RequireFromString(discount))
	}
	if err := db.Create(food).Error; err != nil {
		t.Fatalf("Failed to create food %s: %v", name, err)
	}
	return food
}

// AddToCart inserts a cart line directly
func AddToCart(t *testing.T, db *gorm.DB, userID, foodID uint, qty int) {
	t.Helper()

	if err := db.Create(&models.CartLine{UserID: userID, FoodID: foodID, Quantity: qty}).Error; err != nil {
		t.Fatalf("Failed to add food %d to cart: %v", foodID, err)
	}
}

// PrintEnvironmentInfo prints the current test environment configuration.
// Useful for debugging test environment issues.
func PrintEnvironmentInfo() {
	fmt.Printf("Test Environment Info:\n")
	fmt.Printf("  GO_ENV: %s\n", os.Getenv("GO_ENV"))
	fmt.Printf("  DATABASE_DRIVER: %s\n", os.Getenv("DATABASE_DRIVER"))
	fmt.Printf("  DATABASE_URL: %s\n", maskDatabaseURL(os.Getenv("DATABASE_URL")))
	fmt.Printf("  PORT: %s\n", os.Getenv("PORT"))
}

// maskDatabaseURL masks sensitive parts of the database URL for safe printing
func maskDatabaseURL(url string) string {
	if url == "" {
		return "(not set)"
	}
	if len(url) > 20 {
		return url[:20] + "..."
	}
	return url
}
