package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is the top level of the catalog (e.g. Veg, Non-Veg)
type Category struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Name          string        `gorm:"size:255;not null" json:"name"`
	Image         *string       `gorm:"size:255" json:"image"`
	ImageURL      *string       `gorm:"-" json:"image_url,omitempty"`
	Description   *string       `gorm:"type:text" json:"description"`
	Subcategories []Subcategory `gorm:"constraint:OnDelete:CASCADE" json:"subcategories,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// TableName specifies the table name for the Category model
func (Category) TableName() string {
	return "categories"
}

// Subcategory groups foods inside a category
type Subcategory struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Image        *string   `gorm:"size:255" json:"image"`
	ImageURL     *string   `gorm:"-" json:"image_url,omitempty"`
	Description  *string   `gorm:"type:text" json:"description"`
	CategoryID   uint      `gorm:"not null;index" json:"category_id"`
	CategoryName string    `gorm:"->;-:migration" json:"category_name,omitempty"` // read-only, filled by joins
	Foods        []Food    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Subcategory model
func (Subcategory) TableName() string {
	return "subcategories"
}

// Food is a sellable catalog item. Its effective price is Amount minus Discount.
type Food struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	Name          string              `gorm:"size:255;not null" json:"name"`
	Image         *string             `gorm:"size:255" json:"image"`
	ImageURL      *string             `gorm:"-" json:"image_url,omitempty"`
	OfferDetails  *string             `gorm:"size:255" json:"offer_details"`
	CustomerRate  decimal.NullDecimal `gorm:"type:decimal(2,1)" json:"customer_rate"`
	FoodType      *string             `gorm:"size:500" json:"food_type"`
	Amount        decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"amount"`
	Discount      decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"discount"`
	Description   *string             `gorm:"type:text" json:"description"`
	SubcategoryID *uint               `gorm:"index" json:"subcategory_id"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// TableName specifies the table name for the Food model
func (Food) TableName() string {
	return "foods"
}

// Price returns the effective unit price (amount - discount, discount defaulting to 0)
func (f Food) Price() decimal.Decimal {
	return EffectivePrice(f.Amount, f.Discount)
}

// EffectivePrice applies an optional discount to an amount
func EffectivePrice(amount decimal.Decimal, discount decimal.NullDecimal) decimal.Decimal {
	if !discount.Valid {
		return amount
	}
	return amount.Sub(discount.Decimal)
}
