// =============================================================================
// GRTE Workbook Converter - Validation Engine
// =============================================================================
//
// This module defines the failures a document transformation can raise and
// the business-rule checks run against resolved configuration entries.
//
// ERROR TAXONOMY:
//   - missing-field : a mandatory shipment attribute is absent
//   - not-found     : a sender/recipient/driver/vehicle reference has no
//                     matching configuration entry
//   - invalid-field : a resolved configuration entry breaks a business rule
//
// Malformed cells are not part of the taxonomy: they degrade to absent values
// during decoding and never raise.
//
// ERROR HANDLING:
//   - Checks run in a fixed order and stop at the first failure
//   - Each error names the offending field and value
//   - Callers classify errors with errors.Is against the Err* sentinels
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ginjaninja78/grte-converter/internal/catalog"
	"github.com/ginjaninja78/grte-converter/internal/types"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// Kind classifies a transformation failure.
type Kind string

const (
	KindMissingField Kind = "missing_field"
	KindNotFound     Kind = "not_found"
	KindInvalidField Kind = "invalid_field"
)

// Sentinels for errors.Is.
var (
	ErrMissingField = errors.New("missing required field")
	ErrNotFound     = errors.New("reference not found")
	ErrInvalidField = errors.New("invalid field")
)

// Error is a single fatal transformation failure.
type Error struct {
	// Kind is the failure class.
	Kind Kind

	// Field is the name of the offending field, e.g. "driver.license".
	Field string

	// Value is the offending value, when there is one.
	Value string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s (value: '%s')", e.Field, e.Message, e.Value)
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindMissingField:
		return target == ErrMissingField
	case KindNotFound:
		return target == ErrNotFound
	case KindInvalidField:
		return target == ErrInvalidField
	}
	return false
}

// MissingField builds a missing-field error.
func MissingField(field, message string) *Error {
	return &Error{Kind: KindMissingField, Field: field, Message: message}
}

// NotFound builds a not-found error.
func NotFound(field string, value *string, message string) *Error {
	return &Error{Kind: KindNotFound, Field: field, Value: types.Deref(value), Message: message}
}

// InvalidField builds an invalid-field error.
func InvalidField(field string, value *string, message string) *Error {
	return &Error{Kind: KindInvalidField, Field: field, Value: types.Deref(value), Message: message}
}

// As returns the transformation error wrapped in err, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of a transformation error, or "" for other errors.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return ""
}

// =============================================================================
// DRIVER RULES
// =============================================================================

var digitsOnly = regexp.MustCompile(`^\d+$`)

// ValidateDriver checks a resolved driver, in order:
//  1. the full name has the "surname, given names" form
//  2. the document type is DNI, Pasaporte or Carnet de extranjería
//  3. the document number is all digits
//  4. the license number is present
func ValidateDriver(d types.Driver) error {
	if d.FullName == nil || !strings.Contains(*d.FullName, ",") {
		return InvalidField("driver.fullName", d.FullName,
			"driver name must have the form 'Apellidos, Nombres'")
	}
	if !catalog.IsDriverDocType(d.DocumentType) {
		return InvalidField("driver.documentType", d.DocumentType,
			"driver document type must be DNI, Pasaporte or Carnet de extranjería")
	}
	if d.DocumentNumber == nil || !digitsOnly.MatchString(*d.DocumentNumber) {
		return InvalidField("driver.documentNumber", d.DocumentNumber,
			"driver document number must contain only digits")
	}
	if d.License == nil {
		return InvalidField("driver.license", nil, "driver license number is required")
	}
	return nil
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats errors for display or logging, one per line.
func FormatErrors(errs []error) string {
	if len(errs) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Validation completed with %d error(s):\n\n", len(errs)))
	for i, err := range errs {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}
	return builder.String()
}
