package services

import (
	"context"
	"errors"
	"strings"

	"github.com/foodhub/foodhub-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FoodPrice is the catalog's pricing view of one food
type FoodPrice struct {
	FoodID   uint                `json:"food_id"`
	Name     string              `json:"name"`
	Image    *string             `json:"image"`
	Amount   decimal.Decimal     `json:"amount"`
	Discount decimal.NullDecimal `json:"discount"`
	Price    decimal.Decimal     `json:"price"`
}

// FoodInput holds the writable fields of a food
type FoodInput struct {
	Name          string
	Image         *string
	OfferDetails  *string
	CustomerRate  decimal.NullDecimal
	FoodType      *string
	Amount        decimal.Decimal
	Discount      decimal.NullDecimal
	Description   *string
	SubcategoryID *uint
}

// CatalogService reads and maintains food items
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a catalog service on the given database handle
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// GetPrice returns the current name, image and price of a food
func (s *CatalogService) GetPrice(ctx context.Context, foodID uint) (*FoodPrice, error) {
	food, err := s.GetFood(ctx, foodID)
	if err != nil {
		return nil, err
	}
	return &FoodPrice{
		FoodID:   food.ID,
		Name:     food.Name,
		Image:    food.Image,
		Amount:   food.Amount,
		Discount: food.Discount,
		Price:    food.Price(),
	}, nil
}

// GetFood returns a single food
func (s *CatalogService) GetFood(ctx context.Context, foodID uint) (*models.Food, error) {
	if foodID == 0 {
		return nil, ErrInvalidID
	}
	var food models.Food
	if err := s.db.WithContext(ctx).First(&food, foodID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFoodNotFound
		}
		return nil, NewStorageError("Failed to fetch food", err)
	}
	return &food, nil
}

// ListFoods returns all foods, optionally restricted to one subcategory
func (s *CatalogService) ListFoods(ctx context.Context, subcategoryID *uint) ([]models.Food, error) {
	query := s.db.WithContext(ctx).Order("id ASC")
	if subcategoryID != nil {
		query = query.Where("subcategory_id = ?", *subcategoryID)
	}
	foods := []models.Food{}
	if err := query.Find(&foods).Error; err != nil {
		return nil, NewStorageError("Failed to fetch foods", err)
	}
	return foods, nil
}

// CreateFood validates and inserts a new food
func (s *CatalogService) CreateFood(ctx context.Context, in FoodInput) (*models.Food, error) {
	if err := s.validateFood(ctx, &in); err != nil {
		return nil, err
	}

	food := models.Food{}
	applyFoodInput(&food, in)
	if err := s.db.WithContext(ctx).Create(&food).Error; err != nil {
		return nil, NewStorageError("Failed to create food", err)
	}
	return &food, nil
}

// UpdateFood replaces the writable fields of a food. A nil image keeps the current one.
func (s *CatalogService) UpdateFood(ctx context.Context, foodID uint, in FoodInput) (*models.Food, error) {
	food, err := s.GetFood(ctx, foodID)
	if err != nil {
		return nil, err
	}
	if err := s.validateFood(ctx, &in); err != nil {
		return nil, err
	}
	if in.Image == nil {
		in.Image = food.Image
	}

	applyFoodInput(food, in)
	if err := s.db.WithContext(ctx).Save(food).Error; err != nil {
		return nil, NewStorageError("Failed to update food", err)
	}
	return food, nil
}

// DeleteFood removes a food. Cart lines for it are dropped; order items, history
// entries and notifications survive with a NULL food reference.
func (s *CatalogService) DeleteFood(ctx context.Context, foodID uint) (*models.Food, error) {
	food, err := s.GetFood(ctx, foodID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := detachFoods(tx, []uint{food.ID}); err != nil {
			return err
		}
		return tx.Delete(&models.Food{}, food.ID).Error
	})
	if err != nil {
		return nil, NewStorageError("Failed to delete food", err)
	}
	return food, nil
}

func (s *CatalogService) validateFood(ctx context.Context, in *FoodInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return NewValidationError("MISSING_FIELDS", "Food name is required")
	}
	if !in.Amount.IsPositive() {
		return NewValidationError("INVALID_AMOUNT", "Amount must be greater than zero")
	}
	if in.Discount.Valid && (in.Discount.Decimal.IsNegative() || in.Discount.Decimal.GreaterThan(in.Amount)) {
		return NewValidationError("INVALID_DISCOUNT", "Discount must be between zero and the amount")
	}
	if in.CustomerRate.Valid && (in.CustomerRate.Decimal.IsNegative() || in.CustomerRate.Decimal.GreaterThan(decimal.NewFromInt(5))) {
		return NewValidationError("INVALID_RATING", "Customer rating must be between 0 and 5")
	}

	// A zero subcategory means "none"
	if in.SubcategoryID != nil && *in.SubcategoryID == 0 {
		in.SubcategoryID = nil
	}
	if in.SubcategoryID != nil {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Subcategory{}).Where("id = ?", *in.SubcategoryID).Count(&count).Error; err != nil {
			return NewStorageError("Failed to check subcategory", err)
		}
		if count == 0 {
			return ErrSubcategoryNotFound
		}
	}
	return nil
}

func applyFoodInput(food *models.Food, in FoodInput) {
	food.Name = in.Name
	food.Image = in.Image
	food.OfferDetails = in.OfferDetails
	food.CustomerRate = in.CustomerRate
	food.FoodType = in.FoodType
	food.Amount = in.Amount
	food.Discount = in.Discount
	food.Description = in.Description
	food.SubcategoryID = in.SubcategoryID
}

// detachFoods applies the food deletion policy for the given ids inside tx:
// cart lines go, historical rows keep their data with food_id set to NULL.
func detachFoods(tx *gorm.DB, foodIDs []uint) error {
	if len(foodIDs) == 0 {
		return nil
	}
	if err := tx.Where("food_id IN ?", foodIDs).Delete(&models.CartLine{}).Error; err != nil {
		return err
	}
	for _, model := range []interface{}{&models.OrderItem{}, &models.OrderHistoryEntry{}, &models.Notification{}} {
		if err := tx.Model(model).Where("food_id IN ?", foodIDs).Update("food_id", nil).Error; err != nil {
			return err
		}
	}
	return nil
}
