package model

import "fmt"

// Validation error codes. One code per rule so callers can branch on the
// failure category.
const (
	CodeMissingField        = "missing_field"
	CodeLengthExceeded      = "length_exceeded"
	CodeEmptyItems          = "empty_items"
	CodeUnsupportedCharset  = "unsupported_charset"
	CodeUnsupportedCurrency = "unsupported_currency"
	CodeInvalidDate         = "invalid_date"
	CodePartyIDMissing      = "party_id_missing"
	CodePartyIDTooLong      = "party_id_too_long"
	CodePartyNameTooLong    = "party_name_too_long"
	CodeItemIDTooLong       = "item_id_too_long"
	CodeInvalidQuantity     = "invalid_quantity"
	CodeInvalidPrice        = "invalid_price"
	CodeDueDateNotAfter     = "due_date_not_after"
	CodeDuplicateItemID     = "duplicate_item_id"
)

// Generation error codes.
const (
	CodePrecisionExceeded = "precision_exceeded"
	CodeSegmentTooLong    = "segment_too_long"
	CodeMissingUNH        = "missing_unh"
	CodeOutputCheckFailed = "output_check_failed"
	CodeWriteFailed       = "write_failed"
)

// maxDetailValueLen bounds how much of an offending value is echoed back in
// error details.
const maxDetailValueLen = 50

// ValidationError reports a caller-input problem: a schema violation or a
// business-rule violation. The caller can recover by correcting the record.
type ValidationError struct {
	Code    string
	Message string
	Details map[string]any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed [%s]: %s", e.Code, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(code, message string, details map[string]any) *ValidationError {
	return &ValidationError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// GenerationError reports an internal encoding problem (precision overflow,
// oversized segment, envelope invariant violation) or a wrapped I/O failure.
type GenerationError struct {
	Code    string
	Message string
	Details map[string]any
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation failed [%s]: %s (%v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("generation failed [%s]: %s", e.Code, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// NewGenerationError creates a new generation error
func NewGenerationError(code, message string, details map[string]any) *GenerationError {
	return &GenerationError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Truncate shortens a value for inclusion in error details so oversized
// input never round-trips through an error message.
func Truncate(s string) string {
	if len(s) <= maxDetailValueLen {
		return s
	}
	return s[:maxDetailValueLen] + "..."
}
