package models

import "time"

// Address is an entry in a user's address book
type Address struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Label       string    `gorm:"size:50;not null" json:"label"`
	FullAddress string    `gorm:"type:text;not null" json:"full_address"`
	FlatNo      *string   `gorm:"size:50" json:"flat_no"`
	Landmark    *string   `gorm:"size:255" json:"landmark"`
	City        *string   `gorm:"size:100" json:"city"`
	State       *string   `gorm:"size:100" json:"state"`
	Pincode     *string   `gorm:"size:10" json:"pincode"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	IsDefault   bool      `gorm:"not null;default:false" json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Address model
func (Address) TableName() string {
	return "addresses"
}
