package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/foodhub/foodhub-api/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultCategories are created on first start when the catalog is empty
var DefaultCategories = []string{"Non-Veg", "Veg"}

// Seed inserts the default categories and, when configured, the bootstrap admin.
// Both steps are skipped when the rows already exist, so Seed is safe on every start.
func Seed(db *gorm.DB, cfg *Config) error {
	var categories int64
	if err := db.Model(&models.Category{}).Count(&categories).Error; err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if categories == 0 {
		for _, name := range DefaultCategories {
			if err := db.Create(&models.Category{Name: name}).Error; err != nil {
				return fmt.Errorf("failed to seed category %s: %w", name, err)
			}
		}
		log.Printf("Seeded default categories")
	}

	if cfg == nil || !cfg.HasBootstrapAdmin() {
		return nil
	}

	var admin models.User
	err := db.Where("mobile = ?", cfg.AdminMobile).First(&admin).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up bootstrap admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap admin password: %w", err)
	}
	admin = models.User{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Mobile:   cfg.AdminMobile,
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
	if admin.Email == "" {
		admin.Email = cfg.AdminMobile + "@admin.local"
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}
	log.Printf("Created bootstrap admin account %s", admin.Mobile)
	return nil
}
