package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestServiceError_Is(t *testing.T) {
	custom := &ServiceError{Kind: KindConflict, Code: ErrInvalidTransition.Code, Message: "Order status cannot change from delivered to pending"}
	assert.ErrorIs(t, custom, ErrInvalidTransition)
	assert.NotErrorIs(t, custom, ErrEmptyCart)

	wrapped := fmt.Errorf("checkout: %w", ErrEmptyCart)
	assert.ErrorIs(t, wrapped, ErrEmptyCart)
}

func TestStorageError(t *testing.T) {
	cause := errors.New("connection reset")
	err := storageError("Failed to place order", cause)
	assert.Equal(t, KindStorage, ErrorKindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")

	passthrough := storageError("Failed to place order", ErrEmptyCart)
	assert.Same(t, ErrEmptyCart, passthrough)
}

func TestErrorKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, ErrorKindOf(ErrOrderNotFound))
	assert.Equal(t, KindAccessDenied, ErrorKindOf(ErrAccessDenied))
	assert.Equal(t, KindStorage, ErrorKindOf(errors.New("boom")))
}

func TestIsDuplicateKeyError(t *testing.T) {
	assert.True(t, isDuplicateKeyError(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateKeyError(errors.New("UNIQUE constraint failed: users.email")))
	assert.True(t, isDuplicateKeyError(errors.New("Error 1062: Duplicate entry")))
	assert.False(t, isDuplicateKeyError(errors.New("connection refused")))
}
