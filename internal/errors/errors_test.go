package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	t.Run("Error returns formatted string", func(t *testing.T) {
		err := New(ErrCodeEventNotFound, "Event not found")
		assert.Equal(t, "EVENT_NOT_FOUND: Event not found", err.Error())
	})

	t.Run("Error with cause includes cause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := Wrap(ErrCodeDatabase, "Database error", cause)
		assert.Contains(t, err.Error(), "DATABASE_ERROR")
		assert.Contains(t, err.Error(), "Database error")
		assert.Contains(t, err.Error(), "database connection failed")
	})

	t.Run("WithCause adds cause to error", func(t *testing.T) {
		cause := errors.New("original error")
		err := New(ErrCodeInternal, "Something went wrong").WithCause(cause)
		assert.Equal(t, cause, err.Unwrap())
	})

	t.Run("WithDetails adds details to error", func(t *testing.T) {
		details := map[string]string{"field": "slug", "reason": "invalid format"}
		err := New(ErrCodeValidation, "Validation failed").WithDetails(details)
		assert.Equal(t, details, err.Details)
	})
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name         string
		constructor  func() *AppError
		expectedCode ErrorCode
	}{
		{"Unauthorized", func() *AppError { return Unauthorized("test") }, ErrCodeUnauthorized},
		{"Forbidden", func() *AppError { return Forbidden("test") }, ErrCodeForbidden},
		{"InvalidToken", func() *AppError { return InvalidToken("test") }, ErrCodeInvalidToken},
		{"InvalidCredentials", func() *AppError { return InvalidCredentials() }, ErrCodeInvalidCredentials},
		{"NotAuthorizedForEvent", func() *AppError { return NotAuthorizedForEvent() }, ErrCodeNotAuthorizedForEvent},
		{"NotFound", func() *AppError { return NotFound("Scanner") }, ErrCodeNotFound},
		{"AlreadyExists", func() *AppError { return AlreadyExists("Event") }, ErrCodeAlreadyExists},
		{"Conflict", func() *AppError { return Conflict("test") }, ErrCodeConflict},
		{"ValidationError", func() *AppError { return ValidationError("test") }, ErrCodeValidation},
		{"InvalidInput", func() *AppError { return InvalidInput("slug", "invalid") }, ErrCodeInvalidInput},
		{"MissingRequired", func() *AppError { return MissingRequired("pin") }, ErrCodeMissingRequired},
		{"InvalidPattern", func() *AppError { return InvalidPattern(fmt.Errorf("bad")) }, ErrCodeInvalidPattern},
		{"EventNotFound", func() *AppError { return EventNotFound() }, ErrCodeEventNotFound},
		{"EventInactive", func() *AppError { return EventInactive() }, ErrCodeEventInactive},
		{"InvalidCodeFormat", func() *AppError { return InvalidCodeFormat() }, ErrCodeInvalidCodeFormat},
		{"AlreadyRedeemed", func() *AppError { return AlreadyRedeemed() }, ErrCodeAlreadyRedeemed},
		{"RateLimitExceeded", func() *AppError { return RateLimitExceeded() }, ErrCodeRateLimitExceeded},
		{"Internal", func() *AppError { return Internal("test") }, ErrCodeInternal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.constructor()
			assert.Equal(t, tc.expectedCode, err.Code)
			assert.NotEmpty(t, err.Message)
		})
	}
}

func TestDatabase(t *testing.T) {
	t.Run("wraps database error", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := Database(cause)
		assert.Equal(t, ErrCodeDatabase, err.Code)
		assert.Equal(t, cause, err.Unwrap())
	})
}

func TestIsAppError(t *testing.T) {
	t.Run("returns true for AppError", func(t *testing.T) {
		err := AlreadyRedeemed()
		assert.True(t, IsAppError(err))
	})

	t.Run("returns true for wrapped AppError", func(t *testing.T) {
		err := fmt.Errorf("attempt redemption: %w", AlreadyRedeemed())
		assert.True(t, IsAppError(err))
	})

	t.Run("returns false for plain error", func(t *testing.T) {
		assert.False(t, IsAppError(errors.New("plain")))
	})
}

func TestIsCode(t *testing.T) {
	t.Run("matches code through wrapping", func(t *testing.T) {
		err := fmt.Errorf("redeem: %w", AlreadyRedeemed())
		assert.True(t, IsCode(err, ErrCodeAlreadyRedeemed))
		assert.False(t, IsCode(err, ErrCodeEventNotFound))
	})

	t.Run("false for non-app errors", func(t *testing.T) {
		assert.False(t, IsCode(errors.New("plain"), ErrCodeInternal))
	})
}

func TestGetCode(t *testing.T) {
	t.Run("returns code for AppError", func(t *testing.T) {
		assert.Equal(t, ErrCodeEventInactive, GetCode(EventInactive()))
	})

	t.Run("returns internal for unknown error", func(t *testing.T) {
		assert.Equal(t, ErrCodeInternal, GetCode(errors.New("boom")))
	})
}
