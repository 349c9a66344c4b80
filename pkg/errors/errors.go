// Package errors provides custom error types for the graphpub engine.
// These errors enable programmatic error checking and keep the fatal /
// recoverable split of the reconciliation pipeline explicit: reference and
// API failures abort a run, resolution gaps and conversion failures are
// collected as warnings.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the graphpub engine
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownReference indicates a name referenced without a resolution
	ErrUnknownReference = errors.New("unknown reference")

	// ErrAPIFailure indicates a remote API call failed for a confirmed
	// resource; it is never equivalent to ErrNotFound
	ErrAPIFailure = errors.New("api failure")

	// ErrConversion indicates a raw cell value could not be converted to
	// its declared data type
	ErrConversion = errors.New("conversion failed")

	// ErrAPIKeyRequired indicates that an API key is required but not provided
	ErrAPIKeyRequired = errors.New("API key required")
)

// ReferenceError reports a name referenced by a relation or type assignment
// that has no resolution. It is fatal for the run.
type ReferenceError struct {
	Kind   string // "entity", "type", "property", "relation target"
	Name   string
	RefBy  string // the declaration that referenced the name
	Source string // source tab label, when known
}

// Error implements the error interface
func (e *ReferenceError) Error() string {
	if e.RefBy != "" {
		return fmt.Sprintf("unknown %s %q referenced by %q", e.Kind, e.Name, e.RefBy)
	}
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
}

// Is implements errors.Is support
func (e *ReferenceError) Is(target error) bool {
	return target == ErrUnknownReference
}

// ReferenceErrors aggregates every reference failure found in one pass, so
// the caller sees the full list instead of failing on the first.
type ReferenceErrors struct {
	Errs []*ReferenceError
}

// Error implements the error interface
func (e *ReferenceErrors) Error() string {
	if len(e.Errs) == 1 {
		return e.Errs[0].Error()
	}
	msgs := make([]string, len(e.Errs))
	for i, re := range e.Errs {
		msgs[i] = re.Error()
	}
	return fmt.Sprintf("%d unresolved references: %s", len(e.Errs), strings.Join(msgs, "; "))
}

// Is implements errors.Is support
func (e *ReferenceErrors) Is(target error) bool {
	return target == ErrUnknownReference
}

// Add appends a reference failure.
func (e *ReferenceErrors) Add(kind, name, refBy, source string) {
	e.Errs = append(e.Errs, &ReferenceError{Kind: kind, Name: name, RefBy: refBy, Source: source})
}

// OrNil returns the aggregate as an error, or nil when nothing was added.
func (e *ReferenceErrors) OrNil() error {
	if len(e.Errs) == 0 {
		return nil
	}
	return e
}

// APIError represents a failed call against the remote graph API.
type APIError struct {
	Operation  string // "search", "fetch detail", "upload media"
	Resource   string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("api error during %s of %s (status %d): %v", e.Operation, e.Resource, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("api error during %s of %s: %v", e.Operation, e.Resource, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	return target == ErrAPIFailure
}

// NewAPIError creates a new APIError
func NewAPIError(operation, resource string, statusCode int, err error) *APIError {
	return &APIError{
		Operation:  operation,
		Resource:   resource,
		StatusCode: statusCode,
		Err:        err,
	}
}

// ConversionError represents a cell value that could not be converted to its
// declared data type. Recoverable per cell: the cell is skipped with a
// warning and never blocks the batch.
type ConversionError struct {
	Property string
	DataType string
	Value    string
	Err      error
}

// Error implements the error interface
func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %q to %s for property %q", e.Value, e.DataType, e.Property)
}

// Unwrap implements errors.Unwrap
func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnknownReference checks if an error is a reference error
func IsUnknownReference(err error) bool {
	return errors.Is(err, ErrUnknownReference)
}

// IsAPIFailure checks if an error is a remote API failure
func IsAPIFailure(err error) bool {
	return errors.Is(err, ErrAPIFailure)
}

// IsConversion checks if an error is a value conversion failure
func IsConversion(err error) bool {
	return errors.Is(err, ErrConversion)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// WrapAPI wraps an error as an APIError
func WrapAPI(operation, resource string, err error) error {
	if err == nil {
		return nil
	}
	return NewAPIError(operation, resource, 0, err)
}

// WrapConversion wraps an error as a ConversionError
func WrapConversion(property, dataType, value string, err error) error {
	if err == nil {
		return nil
	}
	return &ConversionError{Property: property, DataType: dataType, Value: value, Err: err}
}
