package models

import "time"

// CartLine is one (user, food, quantity) row of unconfirmed purchase intent.
// Prices are not stored here; they are read live from the catalog.
type CartLine struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_food" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	FoodID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_food" json:"food_id"`
	Food      Food      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Quantity  int       `gorm:"not null;default:1;check:quantity > 0" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the CartLine model
func (CartLine) TableName() string {
	return "cart"
}
