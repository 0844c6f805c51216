package services

import "github.com/foodhub/foodhub-api/models"

// Identity is the authenticated caller as established by the auth middleware
type Identity struct {
	UserID uint
	Role   string
}

// IsStaff reports whether the caller is an admin or owner
func (i Identity) IsStaff() bool {
	return models.IsStaff(i.Role)
}

// CanAccess reports whether the caller may see a resource owned by ownerID
func (i Identity) CanAccess(ownerID uint) bool {
	return i.UserID == ownerID || i.IsStaff()
}
