package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/foodhub/foodhub-api/config"
	"github.com/foodhub/foodhub-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared&_foreign_keys=on", name)), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, mobile, role string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{Name: name, Email: mobile + "@example.com", Mobile: mobile, Password: string(hash), Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedFood(t *testing.T, db *gorm.DB, name, amount, discount string) *models.Food {
	t.Helper()
	category := &models.Category{Name: "Non-Veg"}
	require.NoError(t, db.Create(category).Error)
	sub := &models.Subcategory{Name: "Biryani", CategoryID: category.ID}
	require.NoError(t, db.Create(sub).Error)

	food := &models.Food{Name: name, Amount: decimal.RequireFromString(amount), SubcategoryID: &sub.ID}
	if discount != "" {
		food.Discount = decimal.NewNullDecimal(decimal.RequireFromString(discount))
	}
	require.NoError(t, db.Create(food).Error)
	return food
}

func seedCartLine(t *testing.T, db *gorm.DB, userID, foodID uint, qty int) {
	t.Helper()
	require.NoError(t, db.Create(&models.CartLine{UserID: userID, FoodID: foodID, Quantity: qty}).Error)
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}
