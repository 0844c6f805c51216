package services

import (
	"context"
	"errors"
	"strings"

	"github.com/foodhub/foodhub-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AddressInput holds the writable fields of an address
type AddressInput struct {
	Label       string
	FullAddress string
	FlatNo      *string
	Landmark    *string
	City        *string
	State       *string
	Pincode     *string
	Latitude    *float64
	Longitude   *float64
	IsDefault   bool
}

// AddressService manages a user's address book. Every operation is scoped to the owner;
// another user's address is reported as not found.
type AddressService struct {
	db *gorm.DB
}

// NewAddressService creates an address service on the given database handle
func NewAddressService(db *gorm.DB) *AddressService {
	return &AddressService{db: db}
}

// List returns a user's addresses, default first, then newest first
func (s *AddressService) List(ctx context.Context, userID uint) ([]models.Address, error) {
	addresses := []models.Address{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC, id DESC").
		Find(&addresses).Error
	if err != nil {
		return nil, NewStorageError("Failed to fetch addresses", err)
	}
	return addresses, nil
}

// Create adds an address. A new default clears the user's other defaults in the same transaction.
func (s *AddressService) Create(ctx context.Context, userID uint, in AddressInput) (*models.Address, error) {
	if err := validateAddress(&in); err != nil {
		return nil, err
	}

	address := models.Address{UserID: userID}
	applyAddressInput(&address, in)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.IsDefault {
			if err := clearDefault(tx, userID); err != nil {
				return err
			}
		}
		return tx.Omit(clause.Associations).Create(&address).Error
	})
	if err != nil {
		return nil, NewStorageError("Failed to create address", err)
	}
	return &address, nil
}

// Update replaces an address owned by the user
func (s *AddressService) Update(ctx context.Context, userID, id uint, in AddressInput) (*models.Address, error) {
	if err := validateAddress(&in); err != nil {
		return nil, err
	}

	var address models.Address
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&address).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAddressNotFound
			}
			return err
		}
		if in.IsDefault {
			if err := clearDefault(tx, userID); err != nil {
				return err
			}
		}
		applyAddressInput(&address, in)
		return tx.Omit(clause.Associations).Save(&address).Error
	})
	if err != nil {
		return nil, storageError("Failed to update address", err)
	}
	return &address, nil
}

// Delete removes an address owned by the user
func (s *AddressService) Delete(ctx context.Context, userID, id uint) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Address{})
	if result.Error != nil {
		return NewStorageError("Failed to delete address", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func clearDefault(tx *gorm.DB, userID uint) error {
	return tx.Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}

func validateAddress(in *AddressInput) error {
	in.Label = strings.TrimSpace(in.Label)
	in.FullAddress = strings.TrimSpace(in.FullAddress)
	if in.Label == "" || in.FullAddress == "" {
		return NewValidationError("MISSING_FIELDS", "Label and full address are required")
	}
	return nil
}

func applyAddressInput(address *models.Address, in AddressInput) {
	address.Label = in.Label
	address.FullAddress = in.FullAddress
	address.FlatNo = in.FlatNo
	address.Landmark = in.Landmark
	address.City = in.City
	address.State = in.State
	address.Pincode = in.Pincode
	address.Latitude = in.Latitude
	address.Longitude = in.Longitude
	address.IsDefault = in.IsDefault
}
