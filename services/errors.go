package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrorKind classifies a ServiceError; controllers map it to an HTTP status
type ErrorKind string

const (
	KindValidation   ErrorKind = "VALIDATION_ERROR"
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindAccessDenied ErrorKind = "FORBIDDEN"
	KindAuth         ErrorKind = "UNAUTHORIZED"
	KindConflict     ErrorKind = "CONFLICT"
	KindStorage      ErrorKind = "DATABASE_ERROR"
)

// ServiceError carries a stable kind and code plus a message safe to show to clients.
// Err keeps the underlying cause for logging.
type ServiceError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is matches another ServiceError by kind and code, so sentinels work with errors.Is
func (e *ServiceError) Is(target error) bool {
	var t *ServiceError
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

var (
	ErrEmptyCart            = &ServiceError{Kind: KindValidation, Code: "EMPTY_CART", Message: "Cart is empty"}
	ErrInvalidPaymentMethod = &ServiceError{Kind: KindValidation, Code: "INVALID_PAYMENT_METHOD", Message: "Payment method must be one of: cash_on_delivery, upi"}
	ErrInvalidQuantity      = &ServiceError{Kind: KindValidation, Code: "INVALID_QUANTITY", Message: "Quantity must be a positive integer"}
	ErrInvalidID            = &ServiceError{Kind: KindValidation, Code: "INVALID_ID", Message: "Identifier must be a positive integer"}
	ErrInvalidStatus        = &ServiceError{Kind: KindValidation, Code: "INVALID_STATUS", Message: "Invalid status. Must be one of: pending, approved, rejected, delivered"}
	ErrInvalidTransition    = &ServiceError{Kind: KindConflict, Code: "INVALID_TRANSITION", Message: "Order status cannot change from its current value to the requested one"}
	ErrOrderNotFound        = &ServiceError{Kind: KindNotFound, Code: "ORDER_NOT_FOUND", Message: "Order not found"}
	ErrFoodNotFound         = &ServiceError{Kind: KindNotFound, Code: "FOOD_NOT_FOUND", Message: "Food item not found"}
	ErrCategoryNotFound     = &ServiceError{Kind: KindNotFound, Code: "CATEGORY_NOT_FOUND", Message: "Category not found"}
	ErrSubcategoryNotFound  = &ServiceError{Kind: KindNotFound, Code: "SUBCATEGORY_NOT_FOUND", Message: "Subcategory not found"}
	ErrUserNotFound         = &ServiceError{Kind: KindNotFound, Code: "USER_NOT_FOUND", Message: "User not found"}
	ErrAddressNotFound      = &ServiceError{Kind: KindNotFound, Code: "ADDRESS_NOT_FOUND", Message: "Address not found"}
	ErrHistoryNotFound      = &ServiceError{Kind: KindNotFound, Code: "HISTORY_NOT_FOUND", Message: "Order history entry not found"}
	ErrNotificationNotFound = &ServiceError{Kind: KindNotFound, Code: "NOTIFICATION_NOT_FOUND", Message: "Notification not found"}
	ErrAccessDenied         = &ServiceError{Kind: KindAccessDenied, Code: "ACCESS_DENIED", Message: "Access denied"}
	ErrInvalidCredentials   = &ServiceError{Kind: KindAuth, Code: "INVALID_CREDENTIALS", Message: "Invalid mobile number or password"}
	ErrUserExists           = &ServiceError{Kind: KindConflict, Code: "USER_EXISTS", Message: "This email or mobile number is already registered"}
	ErrRoleNotAllowed       = &ServiceError{Kind: KindValidation, Code: "INVALID_ROLE", Message: "Role is not allowed for self registration"}
	ErrInvalidRole          = &ServiceError{Kind: KindValidation, Code: "INVALID_ROLE", Message: "Role must be one of: customer, owner, admin"}
	ErrIncorrectPassword    = &ServiceError{Kind: KindAuth, Code: "INCORRECT_PASSWORD", Message: "Current password is incorrect"}
	ErrNoFieldsToUpdate     = &ServiceError{Kind: KindValidation, Code: "NO_FIELDS_TO_UPDATE", Message: "No fields to update"}
)

// NewValidationError builds a validation error with a custom message
func NewValidationError(code, message string) *ServiceError {
	return &ServiceError{Kind: KindValidation, Code: code, Message: message}
}

// NewStorageError wraps a persistence failure; the client only sees message
func NewStorageError(message string, err error) *ServiceError {
	return &ServiceError{Kind: KindStorage, Code: string(KindStorage), Message: message, Err: err}
}

// storageError passes ServiceErrors through untouched and wraps anything else.
// Used on transaction results, where a ServiceError may have been returned from inside.
func storageError(message string, err error) error {
	var se *ServiceError
	if errors.As(err, &se) {
		return err
	}
	return NewStorageError(message, err)
}

// isDuplicateKeyError detects unique-constraint violations across drivers
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate") ||
		strings.Contains(errMsg, "unique constraint") ||
		strings.Contains(errMsg, "unique")
}

// ErrorKindOf returns the kind of err, treating unknown errors as storage failures
func ErrorKindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindStorage
}
