package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{name: "parsing error type", errType: ErrTypeParsing, expected: "PARSING"},
		{name: "storage error type", errType: ErrTypeStorage, expected: "STORAGE"},
		{name: "validation error type", errType: ErrTypeValidation, expected: "VALIDATION"},
		{name: "not found error type", errType: ErrTypeNotFound, expected: "NOT_FOUND"},
		{name: "config error type", errType: ErrTypeConfig, expected: "CONFIG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without cause",
			err:      NewValidationError("period is empty", nil),
			expected: "[VALIDATION] period is empty",
		},
		{
			name:     "with cause",
			err:      NewStorageError("failed to save report", fmt.Errorf("disk full")),
			expected: "[STORAGE] failed to save report: disk full",
		},
		{
			name:     "not found",
			err:      NewNotFoundError("sheet Sales", nil),
			expected: "[NOT_FOUND] sheet Sales not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("wrapped: %w", ErrColumnNotFound)
	err := NewParsingError("sheet Sales", cause)

	assert.True(t, errors.Is(err, ErrColumnNotFound))
	assert.True(t, Is(fmt.Errorf("outer: %w", err), ErrColumnNotFound))

	var appErr *AppError
	require.True(t, As(fmt.Errorf("outer: %w", err), &appErr))
	assert.Equal(t, ErrTypeParsing, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewParsingError("bad row", nil).
		WithContext("sheet", "Sales").
		WithContext("row", 7)

	assert.Equal(t, "Sales", err.Context["sheet"])
	assert.Equal(t, 7, err.Context["row"])

	bare := &AppError{Type: ErrTypeConfig}
	bare.WithContext("key", "value")
	assert.Equal(t, "value", bare.Context["key"])
}

func TestIsType(t *testing.T) {
	err := fmt.Errorf("load: %w", NewStorageError("open workbook", nil))

	assert.True(t, IsType(err, ErrTypeStorage))
	assert.False(t, IsType(err, ErrTypeParsing))
	assert.False(t, IsType(errors.New("plain"), ErrTypeStorage))
}
