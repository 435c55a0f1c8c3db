package apperrors

import (
	"errors"
	"testing"
)

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "With Code",
			appError: &AppError{
				Code:    "TEST_CODE",
				Message: "This is a test error",
			},
			expected: "[TEST_CODE] This is a test error",
		},
		{
			name: "Without Code",
			appError: &AppError{
				Message: "This is a test error without code",
			},
			expected: "This is a test error without code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Error()
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestBusinessErrorMessageIsVerbatim(t *testing.T) {
	err := NewBusinessError("Id %d not found", 42)

	if err.Error() != "Id 42 not found" {
		t.Errorf("expected %q, got %q", "Id 42 not found", err.Error())
	}
	if !errors.Is(err, ErrBusiness) {
		t.Error("expected error to unwrap to ErrBusiness")
	}

	var businessErr *BusinessError
	if !errors.As(err, &businessErr) {
		t.Fatal("expected errors.As to find *BusinessError")
	}
	if businessErr.Message != "Id 42 not found" {
		t.Errorf("expected message %q, got %q", "Id 42 not found", businessErr.Message)
	}
}

func TestBusinessErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("underlying")
	err := &BusinessError{Message: "Contact admin", Cause: cause}

	if err.Error() != "Contact admin" {
		t.Errorf("expected %q, got %q", "Contact admin", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected error to unwrap to its cause")
	}
}

func TestValidationErrorError(t *testing.T) {
	err := NewValidationError("cpf", "cpf must be an 11 digit number")

	if !errors.Is(err, ErrValidation) {
		t.Error("expected error to wrap ErrValidation")
	}

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatal("expected errors.As to find *ValidationError")
	}
	if validationErr.Field != "cpf" {
		t.Errorf("expected field %q, got %q", "cpf", validationErr.Field)
	}
}

func TestWrapDatabaseError(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapDatabaseError(cause, "failed to save customer")

	if !errors.Is(err, ErrDatabase) {
		t.Error("expected error to wrap ErrDatabase")
	}
	if !errors.Is(err, cause) {
		t.Error("expected error to wrap its cause")
	}
}
