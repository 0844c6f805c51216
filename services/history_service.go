package services

import (
	"context"
	"errors"

	"github.com/foodhub/foodhub-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HistoryService is the append-only audit trail of ordered lines
type HistoryService struct {
	db *gorm.DB
}

// NewHistoryService creates a history service on the given database handle
func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db}
}

// Record appends one entry per order item, carrying the item snapshot
func (s *HistoryService) Record(ctx context.Context, userID, orderID uint, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	entries := make([]models.OrderHistoryEntry, 0, len(items))
	for _, item := range items {
		oid := orderID
		entries = append(entries, models.OrderHistoryEntry{
			UserID:  userID,
			OrderID: &oid,
			FoodID:  item.FoodID,
			OrderDetails: models.HistoryDetails{
				FoodName:       item.FoodName,
				Price:          item.Price,
				Quantity:       item.Quantity,
				Image:          item.FoodImage,
				TotalItemPrice: item.LineTotal(),
			},
		})
	}
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(&entries).Error
}

// ListForUser returns a user's history, newest first
func (s *HistoryService) ListForUser(ctx context.Context, userID uint) ([]models.OrderHistoryEntry, error) {
	entries := []models.OrderHistoryEntry{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, NewStorageError("Failed to fetch order history", err)
	}
	return entries, nil
}

// ListAll returns every history entry, newest first
func (s *HistoryService) ListAll(ctx context.Context) ([]models.OrderHistoryEntry, error) {
	entries := []models.OrderHistoryEntry{}
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, NewStorageError("Failed to fetch order history", err)
	}
	return entries, nil
}

// Get returns one entry visible to the requester (its owner or staff)
func (s *HistoryService) Get(ctx context.Context, id uint, requester Identity) (*models.OrderHistoryEntry, error) {
	var entry models.OrderHistoryEntry
	if err := s.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHistoryNotFound
		}
		return nil, NewStorageError("Failed to fetch order history entry", err)
	}
	if !requester.CanAccess(entry.UserID) {
		return nil, ErrAccessDenied
	}
	return &entry, nil
}

// Delete removes one entry. This is an explicit staff cleanup, never part of the order workflow.
func (s *HistoryService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.OrderHistoryEntry{}, id)
	if result.Error != nil {
		return NewStorageError("Failed to delete order history entry", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrHistoryNotFound
	}
	return nil
}
