package models

import "time"

// Notification is a message from one account to another, optionally linked to a food or order
type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SenderID    uint      `gorm:"not null;index" json:"sender_id"`
	Sender      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ReceiverID  uint      `gorm:"not null;index" json:"receiver_id"`
	Receiver    User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	IsRead      bool      `gorm:"not null;default:false" json:"is_read"`
	FoodID      *uint     `gorm:"index" json:"food_id"`
	Food        *Food     `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	OrderID     *uint     `gorm:"index" json:"order_id"`
	Order       *Order    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SenderName  string    `gorm:"->;-:migration" json:"sender_name,omitempty"`
	SenderImage *string   `gorm:"->;-:migration" json:"sender_image,omitempty"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}
