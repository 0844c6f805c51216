package models

import (
	"time"
)

// Roles a user account can hold
const (
	RoleCustomer = "customer"
	RoleOwner    = "owner"
	RoleAdmin    = "admin"
)

// StaffRoles are the roles that receive order and registration notifications
var StaffRoles = []string{RoleAdmin, RoleOwner}

// User represents an account in the system (customer, owner or admin)
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Mobile       string    `gorm:"size:15;uniqueIndex;not null" json:"mobile"`
	Password     string    `gorm:"size:255;not null" json:"-"` // bcrypt hash
	Role         string    `gorm:"size:20;not null;default:'customer';index" json:"role"`
	ProfileImage *string   `gorm:"size:255" json:"profile_image"`
	ImageURL     *string   `gorm:"-" json:"image_url,omitempty"` // computed from ProfileImage
	Address      *string   `gorm:"type:text" json:"address"`
	Bio          *string   `gorm:"type:text" json:"bio"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsStaff reports whether the role may manage the catalog and all orders
func IsStaff(role string) bool {
	return role == RoleAdmin || role == RoleOwner
}

// IsValidRole reports whether role is one of the known roles
func IsValidRole(role string) bool {
	return role == RoleCustomer || IsStaff(role)
}
