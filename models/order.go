package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusApproved  = "approved"
	OrderStatusRejected  = "rejected"
	OrderStatusDelivered = "delivered"
)

// OrderStatuses lists every recognized order status
var OrderStatuses = []string{OrderStatusPending, OrderStatusApproved, OrderStatusRejected, OrderStatusDelivered}

// Payment methods. The method is recorded as a label only.
const (
	PaymentCashOnDelivery = "cash_on_delivery"
	PaymentUPI            = "upi"
)

// IsValidOrderStatus reports whether status is a recognized order status
func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidPaymentMethod reports whether method is a supported payment label
func IsValidPaymentMethod(method string) bool {
	return method == PaymentCashOnDelivery || method == PaymentUPI
}

// Order is a committed, priced, addressed purchase. TotalAmount is fixed at creation;
// the customer and address fields are snapshots, not references.
type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	User            User            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	PaymentMethod   string          `gorm:"size:50;not null;check:payment_method IN ('cash_on_delivery','upi')" json:"payment_method"`
	DeliveryAddress string          `gorm:"type:text;not null" json:"delivery_address"`
	UserName        string          `gorm:"size:100" json:"user_name"`
	UserEmail       string          `gorm:"size:100" json:"user_email"`
	UserMobile      string          `gorm:"size:15" json:"user_mobile"`
	OrderStatus     string          `gorm:"size:50;not null;default:'pending';index;check:order_status IN ('pending','approved','rejected','delivered')" json:"order_status"`
	Items           []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is an immutable per-food snapshot belonging to one order.
// FoodID becomes NULL when the food is deleted; the row itself survives.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	FoodID    *uint           `gorm:"index" json:"food_id"`
	Food      *Food           `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	FoodName  string          `gorm:"size:255;not null" json:"food_name"`
	FoodImage *string         `gorm:"size:255" json:"food_image"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal returns price x quantity
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
