package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// HistoryDetails is the snapshot stored with every order history entry
type HistoryDetails struct {
	FoodName       string          `json:"food_name"`
	Price          decimal.Decimal `json:"price"`
	Quantity       int             `json:"quantity"`
	Image          *string         `json:"image"`
	TotalItemPrice decimal.Decimal `json:"total_item_price"`
}

// OrderHistoryEntry is a write-once audit record of one ordered line,
// independent of the order's mutable status.
type OrderHistoryEntry struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	User         User           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	OrderID      *uint          `gorm:"index" json:"order_id"`
	Order        *Order         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	FoodID       *uint          `gorm:"index" json:"food_id"`
	Food         *Food          `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	OrderDetails HistoryDetails `gorm:"type:text;serializer:json" json:"order_details"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for the OrderHistoryEntry model
func (OrderHistoryEntry) TableName() string {
	return "order_history"
}
