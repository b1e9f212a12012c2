// LOCATION: internal/errors/errors.go
// VERSION: 3.0 - Error taxonomy for the ingestion and transform pipeline
//
// This file provides:
// - Sentinel errors for every failure class of the pipeline
// - Error category checking functions
// - BatchError, the deferred aggregate raised after fail-soft loops
// - ValidationErrors, the collector used by config validation

package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ============================================================================
// Sentinel errors
// ============================================================================

var (
	// Configuration errors
	ErrStrategyNotFound  = errors.New("storage strategy not found")
	ErrDuplicateVariable = errors.New("duplicate variable")
	ErrDuplicateFile     = errors.New("duplicate file in ingestion call")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrInvalidVariable   = errors.New("invalid variable path")
	ErrMissingField      = errors.New("missing required field")
	ErrUnknownTransform  = errors.New("unknown transform")

	// Provenance errors
	ErrIncompatibleMetadata = errors.New("incompatible file metadata")
	ErrUnknownFileName      = errors.New("file name does not match any known naming scheme")
	ErrUnknownFileFormat    = errors.New("unknown file format")

	// Resolution errors
	ErrEnvKeyNotFound   = errors.New("environment key not found")
	ErrFileNotFound     = errors.New("file not found")
	ErrVariableNotFound = errors.New("variable not found")
	ErrBranchNotFound   = errors.New("branch not found")
	ErrColumnNotFound   = errors.New("column not found")

	// Not-implemented errors
	ErrNotImplemented = errors.New("not implemented")

	// Table errors
	ErrLengthMismatch = errors.New("column length mismatch")
	ErrSchemaMismatch = errors.New("schema mismatch")

	// Batch errors
	ErrBatchFailed = errors.New("batch failed")
)

// ============================================================================
// Helper functions for error checking
// ============================================================================

// Is is a convenience wrapper for errors.Is
var Is = errors.Is

// As is a convenience wrapper for errors.As
var As = errors.As

// Join is a convenience wrapper for errors.Join
var Join = errors.Join

// New is a convenience wrapper for errors.New
var New = errors.New

// IsConfiguration returns true if err is a configuration error.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrStrategyNotFound) ||
		errors.Is(err, ErrDuplicateVariable) ||
		errors.Is(err, ErrDuplicateFile) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrInvalidVariable) ||
		errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrUnknownTransform)
}

// IsProvenance returns true if err is a provenance error.
func IsProvenance(err error) bool {
	return errors.Is(err, ErrIncompatibleMetadata) ||
		errors.Is(err, ErrUnknownFileName) ||
		errors.Is(err, ErrUnknownFileFormat)
}

// IsResolution returns true if err is a resolution error.
func IsResolution(err error) bool {
	return errors.Is(err, ErrEnvKeyNotFound) ||
		errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrVariableNotFound) ||
		errors.Is(err, ErrBranchNotFound) ||
		errors.Is(err, ErrColumnNotFound)
}

// IsNotImplemented returns true if err marks an unsupported operation.
func IsNotImplemented(err error) bool {
	return errors.Is(err, ErrNotImplemented)
}

// IsBatch returns true if err is (or wraps) a BatchError.
func IsBatch(err error) bool {
	var be *BatchError
	return errors.As(err, &be)
}

// ============================================================================
// Error constructors with context
// ============================================================================

// NewStrategyNotFound creates a strategy-not-found error naming the strategy.
func NewStrategyNotFound(name string, available []string) error {
	if len(available) == 0 {
		return fmt.Errorf("%w: '%s' (no strategies registered)", ErrStrategyNotFound, name)
	}
	return fmt.Errorf("%w: '%s' (available: %s)", ErrStrategyNotFound, name, strings.Join(available, ", "))
}

// NewValidation creates a validation error with context.
func NewValidation(field, reason string) error {
	return fmt.Errorf("invalid %s: %s: %w", field, reason, ErrInvalidConfig)
}

// NewMissingField creates a missing field error.
func NewMissingField(field string) error {
	return fmt.Errorf("%s: %w", field, ErrMissingField)
}

// NewInvalidValue creates an invalid value error.
func NewInvalidValue(field string, value interface{}, reason string) error {
	return fmt.Errorf("invalid %s '%v': %s: %w", field, value, reason, ErrInvalidConfig)
}

// NewNotImplemented creates a not-implemented error for an operation of a component.
func NewNotImplemented(component, operation string) error {
	return fmt.Errorf("%s: %s: %w", component, operation, ErrNotImplemented)
}

// ============================================================================
// Batch errors
// ============================================================================

// ItemError is the failure of one item inside a batch.
type ItemError struct {
	// Item identifies the failed item (a file key, a transform name).
	Item string
	// Index is the position of the item in the batch.
	Index int
	Err   error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("[%d] %s: %v", e.Index, e.Item, e.Err)
}

func (e ItemError) Unwrap() error { return e.Err }

// BatchError aggregates the failures of a fail-soft loop. It is raised only
// after every item of the batch has been attempted.
type BatchError struct {
	Op       string
	Total    int
	Failures []ItemError
}

// NewBatchError returns nil if failures is empty.
func NewBatchError(op string, total int, failures []ItemError) error {
	if len(failures) == 0 {
		return nil
	}
	return &BatchError{Op: op, Total: total, Failures: failures}
}

func (e *BatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d of %d items failed", e.Op, len(e.Failures), e.Total)
	for _, f := range e.Failures {
		b.WriteString("\n  - ")
		b.WriteString(f.Error())
	}
	return b.String()
}

// Unwrap exposes the batch sentinel and every item error to errors.Is/As.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures)+1)
	errs = append(errs, ErrBatchFailed)
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	return errs
}

// Count returns the number of failed items.
func (e *BatchError) Count() int { return len(e.Failures) }

// ============================================================================
// Validation Errors Collection
// ============================================================================

// ValidationErrors collects multiple validation errors.
type ValidationErrors struct {
	Errors []error
}

// NewValidationErrors creates a new ValidationErrors collector.
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{}
}

// Add adds an error to the collection.
func (v *ValidationErrors) Add(err error) {
	if err != nil {
		v.Errors = append(v.Errors, err)
	}
}

// AddField adds a field validation error.
func (v *ValidationErrors) AddField(field, reason string) {
	v.Errors = append(v.Errors, NewValidation(field, reason))
}

// AddMissing adds a missing field error.
func (v *ValidationErrors) AddMissing(field string) {
	v.Errors = append(v.Errors, NewMissingField(field))
}

// Error implements the error interface.
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return ""
	}
	if len(v.Errors) == 1 {
		return v.Errors[0].Error()
	}

	msg := fmt.Sprintf("validation failed with %d errors:", len(v.Errors))
	for _, err := range v.Errors {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Err returns nil if no errors, otherwise returns the ValidationErrors.
func (v *ValidationErrors) Err() error {
	if len(v.Errors) == 0 {
		return nil
	}
	return v
}

// Unwrap exposes all collected errors for errors.Is/As support.
func (v *ValidationErrors) Unwrap() []error {
	return v.Errors
}
