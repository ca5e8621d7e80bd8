// Package edifactlib provides the public API for encoding invoice records
// into EDIFACT INVOIC interchanges.
//
// Example usage:
//
//	text, err := edifactlib.Encode(record, edifactlib.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(text)
package edifactlib

import (
	"github.com/rezonia/edifact-generator/internal/config"
	"github.com/rezonia/edifact-generator/internal/edifact"
	"github.com/rezonia/edifact-generator/internal/model"
	"github.com/rezonia/edifact-generator/internal/validator"
)

// Re-export core types for public API
type (
	InvoiceRecord = model.InvoiceRecord
	Parties       = model.Parties
	Party         = model.Party
	LineItem      = model.LineItem
	BankAccount   = model.BankAccount
	Config        = config.Config
	Delimiters    = config.Delimiters
)

// Re-export error types
type (
	ValidationError = model.ValidationError
	GenerationError = model.GenerationError
)

// Re-export generator options
type Option = edifact.Option

var (
	WithLineEnding = edifact.WithLineEnding
	WithMessageRef = edifact.WithMessageRef
)

// DefaultConfig returns the standard INVOIC encoding configuration.
func DefaultConfig() Config {
	return config.Default()
}

// ValidateSchema checks structural well-formedness of a record.
func ValidateSchema(rec *InvoiceRecord) error {
	return validator.Schema(rec)
}

// ValidateBusinessRules checks a record against the configuration. The
// schema pass must succeed first.
func ValidateBusinessRules(rec *InvoiceRecord, cfg Config) error {
	return validator.BusinessRules(rec, cfg)
}

// Encode validates the record and returns the assembled interchange text.
func Encode(rec *InvoiceRecord, cfg Config, opts ...Option) (string, error) {
	return edifact.New(rec, cfg, opts...).Encode()
}
