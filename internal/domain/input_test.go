package domain

import (
	"errors"
	"strings"
	"testing"

	apperrors "github.com/kapu/elfname-go/pkg/errors"
)

func TestNewUserInputTrimsWhitespace(t *testing.T) {
	input := NewUserInput("  Alice \t", " January\n")
	if input.FirstName != "Alice" {
		t.Fatalf("expected trimmed first name, got %q", input.FirstName)
	}
	if input.BirthMonth != "January" {
		t.Fatalf("expected trimmed birth month, got %q", input.BirthMonth)
	}
}

func TestValidateAcceptsAllMonths(t *testing.T) {
	for _, month := range Months {
		input := NewUserInput("Alice", month)
		if err := input.Validate(); err != nil {
			t.Fatalf("expected %q to validate, got %v", month, err)
		}
	}
}

func TestValidateRejectsEmptyFirstName(t *testing.T) {
	err := NewUserInput("   ", "January").Validate()
	if err == nil {
		t.Fatal("expected validation error for empty first name")
	}

	var validationErr *apperrors.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if validationErr.Field != "first_name" {
		t.Fatalf("expected field first_name, got %q", validationErr.Field)
	}
}

func TestValidateRejectsUnknownMonth(t *testing.T) {
	err := NewUserInput("Alice", "Januray").Validate()
	if err == nil {
		t.Fatal("expected validation error for unknown month")
	}

	var validationErr *apperrors.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if validationErr.Field != "birth_month" {
		t.Fatalf("expected field birth_month, got %q", validationErr.Field)
	}
	if !strings.Contains(validationErr.Message, "invalid birth month") {
		t.Fatalf("unexpected message: %s", validationErr.Message)
	}
}

func TestValidateMonthMatchingIsExact(t *testing.T) {
	// Seeds derive from the month string, so "january" must not be accepted
	// as an alias of "January".
	if err := NewUserInput("Alice", "january").Validate(); err == nil {
		t.Fatal("expected lowercase month to be rejected")
	}
	if err := NewUserInput("Alice", "JANUARY").Validate(); err == nil {
		t.Fatal("expected uppercase month to be rejected")
	}
}
