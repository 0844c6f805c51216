package services

import (
	"context"
	"errors"
	"strings"

	"github.com/foodhub/foodhub-api/models"
	"gorm.io/gorm"
)

// CategoryInput holds the writable fields shared by categories and subcategories
type CategoryInput struct {
	Name        string
	Image       *string
	Description *string
}

// CategoryService maintains the category -> subcategory tree of the catalog
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a category service on the given database handle
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// ListCategories returns every category with its subcategories
func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := s.db.WithContext(ctx).
		Preload("Subcategories", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Order("id ASC").
		Find(&categories).Error
	if err != nil {
		return nil, NewStorageError("Failed to fetch categories", err)
	}
	return categories, nil
}

// GetCategory returns one category with its subcategories
func (s *CategoryService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).Preload("Subcategories").First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, NewStorageError("Failed to fetch category", err)
	}
	return &category, nil
}

// CreateCategory inserts a category
func (s *CategoryService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, NewValidationError("MISSING_FIELDS", "Category name is required")
	}
	category := models.Category{Name: name, Image: in.Image, Description: in.Description}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, NewStorageError("Failed to create category", err)
	}
	return &category, nil
}

// UpdateCategory replaces name and description; a nil image keeps the current one
func (s *CategoryService) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, NewValidationError("MISSING_FIELDS", "Category name is required")
	}

	updates := map[string]interface{}{"name": name, "description": in.Description}
	if in.Image != nil {
		updates["image"] = *in.Image
	}
	if err := s.db.WithContext(ctx).Model(category).Updates(updates).Error; err != nil {
		return nil, NewStorageError("Failed to update category", err)
	}
	return s.GetCategory(ctx, id)
}

// DeleteCategory removes a category together with its subcategories and their foods
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subIDs := tx.Model(&models.Subcategory{}).Select("id").Where("category_id = ?", id)
		var foodIDs []uint
		if err := tx.Model(&models.Food{}).Where("subcategory_id IN (?)", subIDs).Pluck("id", &foodIDs).Error; err != nil {
			return err
		}
		if err := detachFoods(tx, foodIDs); err != nil {
			return err
		}
		if len(foodIDs) > 0 {
			if err := tx.Delete(&models.Food{}, foodIDs).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("category_id = ?", id).Delete(&models.Subcategory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, id).Error
	})
	if err != nil {
		return nil, NewStorageError("Failed to delete category", err)
	}
	return category, nil
}

// ListSubcategories returns subcategories with their category name, optionally for one category
func (s *CategoryService) ListSubcategories(ctx context.Context, categoryID *uint) ([]models.Subcategory, error) {
	query := s.db.WithContext(ctx).
		Model(&models.Subcategory{}).
		Select("subcategories.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = subcategories.category_id").
		Order("categories.name ASC, subcategories.name ASC")
	if categoryID != nil {
		query = query.Where("subcategories.category_id = ?", *categoryID)
	}

	subcategories := []models.Subcategory{}
	if err := query.Find(&subcategories).Error; err != nil {
		return nil, NewStorageError("Failed to fetch subcategories", err)
	}
	return subcategories, nil
}

// GetSubcategory returns one subcategory
func (s *CategoryService) GetSubcategory(ctx context.Context, id uint) (*models.Subcategory, error) {
	var sub models.Subcategory
	err := s.db.WithContext(ctx).
		Model(&models.Subcategory{}).
		Select("subcategories.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = subcategories.category_id").
		Where("subcategories.id = ?", id).
		Take(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubcategoryNotFound
		}
		return nil, NewStorageError("Failed to fetch subcategory", err)
	}
	return &sub, nil
}

// CreateSubcategory inserts a subcategory under an existing category
func (s *CategoryService) CreateSubcategory(ctx context.Context, categoryID uint, in CategoryInput) (*models.Subcategory, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, NewValidationError("MISSING_FIELDS", "Subcategory name is required")
	}
	if _, err := s.GetCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	sub := models.Subcategory{Name: name, Image: in.Image, Description: in.Description, CategoryID: categoryID}
	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		return nil, NewStorageError("Failed to create subcategory", err)
	}
	return s.GetSubcategory(ctx, sub.ID)
}

// UpdateSubcategory replaces name and description; a nil image keeps the current one
func (s *CategoryService) UpdateSubcategory(ctx context.Context, id uint, in CategoryInput) (*models.Subcategory, error) {
	if _, err := s.GetSubcategory(ctx, id); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, NewValidationError("MISSING_FIELDS", "Subcategory name is required")
	}

	updates := map[string]interface{}{"name": name, "description": in.Description}
	if in.Image != nil {
		updates["image"] = *in.Image
	}
	if err := s.db.WithContext(ctx).Model(&models.Subcategory{ID: id}).Updates(updates).Error; err != nil {
		return nil, NewStorageError("Failed to update subcategory", err)
	}
	return s.GetSubcategory(ctx, id)
}

// DeleteSubcategory removes a subcategory and its foods
func (s *CategoryService) DeleteSubcategory(ctx context.Context, id uint) (*models.Subcategory, error) {
	sub, err := s.GetSubcategory(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var foodIDs []uint
		if err := tx.Model(&models.Food{}).Where("subcategory_id = ?", id).Pluck("id", &foodIDs).Error; err != nil {
			return err
		}
		if err := detachFoods(tx, foodIDs); err != nil {
			return err
		}
		if len(foodIDs) > 0 {
			if err := tx.Delete(&models.Food{}, foodIDs).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Subcategory{}, id).Error
	})
	if err != nil {
		return nil, NewStorageError("Failed to delete subcategory", err)
	}
	return sub, nil
}
