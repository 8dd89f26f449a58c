package validation

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/formbase/formbase/pkg/fb/apperr"
)

// ValidationError represents a single validation error for a field or key.
type ValidationError struct {
	Field   string // Field name, as sent by the client
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// IsZero reports whether e carries no error.
func (e ValidationError) IsZero() bool {
	return e.Field == "" && e.Message == ""
}

// ValidationErrors is a collection of validation errors that can be accumulated.
type ValidationErrors []ValidationError

// Error implements the error interface, combining all error messages.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	messages := make([]string, 0, len(e))
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// ErrorKind classifies every validation failure as apperr.Validation.
func (e ValidationErrors) ErrorKind() apperr.Kind {
	return apperr.Validation
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Add appends a validation error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	*e = append(*e, ValidationError{Field: field, Message: message})
}

// Check appends err unless it is the zero ValidationError.
func (e *ValidationErrors) Check(err ValidationError) {
	if !err.IsZero() {
		*e = append(*e, err)
	}
}

// Err returns e as an error, or nil when it is empty.
func (e ValidationErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// ForField returns all errors for a specific field.
func (e ValidationErrors) ForField(field string) []string {
	var messages []string
	for _, err := range e {
		if err.Field == field {
			messages = append(messages, err.Message)
		}
	}
	return messages
}

// NewError creates a ValidationErrors with a single general error.
func NewError(message string) ValidationErrors {
	return ValidationErrors{{Message: message}}
}

// --- Predicate functions ---

// IsRequired checks if a string is not blank.
func IsRequired(value string) bool {
	return strings.TrimSpace(value) != ""
}

// IsEmail checks if value is a bare email address.
func IsEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	return err == nil && addr.Address == value
}

// --- Validator functions ---

// RequiredString validates that a string field is not blank.
func RequiredString(field, value string) ValidationError {
	if !IsRequired(value) {
		return ValidationError{Field: field, Message: "is required"}
	}
	return ValidationError{}
}

// StringMaxLength validates that a string does not exceed max runes.
func StringMaxLength(field, value string, max int) ValidationError {
	if len([]rune(value)) > max {
		return ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters", max)}
	}
	return ValidationError{}
}

// StringLength validates that a string has between min and max runes.
func StringLength(field, value string, min, max int) ValidationError {
	n := len([]rune(value))
	if n < min || n > max {
		return ValidationError{Field: field, Message: fmt.Sprintf("must be between %d and %d characters", min, max)}
	}
	return ValidationError{}
}

// Email validates that a string is an email address.
func Email(field, value string) ValidationError {
	if !IsEmail(value) {
		return ValidationError{Field: field, Message: "must be a valid email address"}
	}
	return ValidationError{}
}

// IntMin validates that an optional integer is at least min.
func IntMin(field string, value *int, min int) ValidationError {
	if value != nil && *value < min {
		return ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d", min)}
	}
	return ValidationError{}
}

// OneOf validates that value is one of allowed.
func OneOf(field, value string, allowed ...string) ValidationError {
	for _, a := range allowed {
		if value == a {
			return ValidationError{}
		}
	}
	return ValidationError{Field: field, Message: "must be one of " + strings.Join(allowed, ", ")}
}
