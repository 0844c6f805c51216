package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/foodhub/foodhub-api/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 6

// RegisterInput holds the fields of a new account
type RegisterInput struct {
	Name         string
	Email        string
	Mobile       string
	Password     string
	Role         string
	ProfileImage *string
}

// ProfileInput holds the editable profile fields; nil leaves a field unchanged
type ProfileInput struct {
	Name         *string
	Email        *string
	Address      *string
	Bio          *string
	ProfileImage *string
}

// UserUpdateInput holds the account fields staff may change on any user; nil leaves a field unchanged
type UserUpdateInput struct {
	Name   *string
	Email  *string
	Mobile *string
	Role   *string
}

// Profile is the customer snapshot copied onto an order
type Profile struct {
	Name   string
	Email  string
	Mobile string
}

// UserService is the user directory: accounts, credentials and role lookups
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a user service on the given database handle
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Register validates and creates an account. Staff roles are only accepted when allowStaff is set.
func (s *UserService) Register(ctx context.Context, in RegisterInput, allowStaff bool) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Mobile = strings.TrimSpace(in.Mobile)
	if in.Role == "" {
		in.Role = models.RoleCustomer
	}

	if in.Name == "" || in.Email == "" || in.Mobile == "" || in.Password == "" {
		return nil, NewValidationError("MISSING_FIELDS", "Name, email, mobile and password are required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, NewValidationError("INVALID_EMAIL", "Email address is not valid")
	}
	if !isValidMobile(in.Mobile) {
		return nil, NewValidationError("INVALID_MOBILE", "Mobile number must be 10 digits")
	}
	if len(in.Password) < minPasswordLength {
		return nil, NewValidationError("WEAK_PASSWORD", "Password must be at least 6 characters")
	}
	if !models.IsValidRole(in.Role) {
		return nil, ErrInvalidRole
	}
	if models.IsStaff(in.Role) && !allowStaff {
		return nil, ErrRoleNotAllowed
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ? OR mobile = ?", in.Email, in.Mobile).Count(&existing).Error; err != nil {
		return nil, NewStorageError("Failed to check existing users", err)
	}
	if existing > 0 {
		return nil, ErrUserExists
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, NewStorageError("Failed to hash password", err)
	}

	user := models.User{
		Name:         in.Name,
		Email:        in.Email,
		Mobile:       in.Mobile,
		Password:     hash,
		Role:         in.Role,
		ProfileImage: in.ProfileImage,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// Lost a race with a concurrent registration
		if isDuplicateKeyError(err) {
			return nil, ErrUserExists
		}
		return nil, NewStorageError("Failed to create user", err)
	}
	return &user, nil
}

// Login checks a mobile number and password and returns the account
func (s *UserService) Login(ctx context.Context, mobile, password string) (*models.User, error) {
	mobile = strings.TrimSpace(mobile)
	if mobile == "" || password == "" {
		return nil, NewValidationError("MISSING_FIELDS", "Mobile number and password are required")
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("mobile = ?", mobile).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, NewStorageError("Failed to fetch user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// GetUser returns one account
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	if id == 0 {
		return nil, ErrInvalidID
	}
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, NewStorageError("Failed to fetch user", err)
	}
	return &user, nil
}

// GetProfile returns the name, email and mobile of a user
func (s *UserService) GetProfile(ctx context.Context, id uint) (*Profile, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Profile{Name: user.Name, Email: user.Email, Mobile: user.Mobile}, nil
}

// FindByRoles returns the ids of every user holding one of the roles
func (s *UserService) FindByRoles(ctx context.Context, roles ...string) ([]uint, error) {
	var ids []uint
	if len(roles) == 0 {
		return ids, nil
	}
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role IN ?", roles).
		Order("id ASC").
		Distinct().
		Pluck("id", &ids).Error
	if err != nil {
		return nil, NewStorageError("Failed to resolve users by role", err)
	}
	return ids, nil
}

// UpdateProfile applies the non-nil fields of in
func (s *UserService) UpdateProfile(ctx context.Context, id uint, in ProfileInput) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, NewValidationError("MISSING_FIELDS", "Name cannot be empty")
		}
		updates["name"] = name
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, NewValidationError("INVALID_EMAIL", "Email address is not valid")
		}
		updates["email"] = email
	}
	if in.Address != nil {
		updates["address"] = *in.Address
	}
	if in.Bio != nil {
		updates["bio"] = *in.Bio
	}
	if in.ProfileImage != nil {
		updates["profile_image"] = *in.ProfileImage
	}
	if len(updates) == 0 {
		return user, nil
	}
	return s.saveUpdates(ctx, user, updates, "Failed to update profile")
}

// UpdateUser lets staff edit another account's name, email, mobile or role
func (s *UserService) UpdateUser(ctx context.Context, id uint, in UserUpdateInput) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, NewValidationError("MISSING_FIELDS", "Name cannot be empty")
		}
		updates["name"] = name
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, NewValidationError("INVALID_EMAIL", "Email address is not valid")
		}
		updates["email"] = email
	}
	if in.Mobile != nil {
		mobile := strings.TrimSpace(*in.Mobile)
		if !isValidMobile(mobile) {
			return nil, NewValidationError("INVALID_MOBILE", "Mobile number must be 10 digits")
		}
		updates["mobile"] = mobile
	}
	if in.Role != nil {
		if !models.IsValidRole(*in.Role) {
			return nil, ErrInvalidRole
		}
		updates["role"] = *in.Role
	}
	if len(updates) == 0 {
		return nil, ErrNoFieldsToUpdate
	}
	return s.saveUpdates(ctx, user, updates, "Failed to update user")
}

// ChangePassword replaces the password after checking the current one
func (s *UserService) ChangePassword(ctx context.Context, id uint, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return NewValidationError("MISSING_FIELDS", "Old and new passwords are required")
	}
	if len(newPassword) < minPasswordLength {
		return NewValidationError("WEAK_PASSWORD", "Password must be at least 6 characters")
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return ErrIncorrectPassword
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return NewStorageError("Failed to hash password", err)
	}
	if err := s.db.WithContext(ctx).Model(user).Update("password", hash).Error; err != nil {
		return NewStorageError("Failed to update password", err)
	}
	return nil
}

func (s *UserService) saveUpdates(ctx context.Context, user *models.User, updates map[string]interface{}, message string) (*models.User, error) {
	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrUserExists
		}
		return nil, NewStorageError(message, err)
	}
	return s.GetUser(ctx, user.ID)
}

// ListUsers returns every account, newest first. A non-empty role keeps only that role.
func (s *UserService) ListUsers(ctx context.Context, role string) ([]models.User, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if role != "" {
		if !models.IsValidRole(role) {
			return nil, ErrInvalidRole
		}
		query = query.Where("role = ?", role)
	}

	users := []models.User{}
	if err := query.Find(&users).Error; err != nil {
		return nil, NewStorageError("Failed to fetch users", err)
	}
	return users, nil
}

// HashPassword hashes a password with bcrypt's default cost
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func isValidMobile(mobile string) bool {
	if len(mobile) != 10 {
		return false
	}
	for _, r := range mobile {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
