// Package validator implements the two-pass rule engine for invoice records:
// a structural schema pass with fixed bounds, then a business-rule pass
// driven by the encoding configuration. Both passes are pure functions and
// fail fast on the first violation.
package validator

import (
	"fmt"

	"github.com/rezonia/edifact-generator/internal/model"
)

// Structural bounds checked by the schema pass. These are fixed by the
// INVOIC profile, independent of the runtime configuration.
const (
	maxInvoiceNumberLen = 35
	maxCurrencyLen      = 3
	maxPartyIDLen       = 35
	maxPartyNameLen     = 70
	maxItemIDLen        = 35
	maxNotesLen         = 350
	maxMessageRefLen    = 14
)

// Schema checks structural well-formedness of a record: required fields
// present and within their fixed length bounds. It knows nothing about the
// business configuration.
func Schema(rec *model.InvoiceRecord) error {
	if rec == nil {
		return missingField("record")
	}
	if rec.InvoiceNumber == "" {
		return missingField("invoice_number")
	}
	if len(rec.InvoiceNumber) > maxInvoiceNumberLen {
		return lengthExceeded("invoice_number", rec.InvoiceNumber, maxInvoiceNumberLen)
	}
	if rec.InvoiceDate == "" {
		return missingField("invoice_date")
	}
	if rec.Currency == "" {
		return missingField("currency")
	}
	if len(rec.Currency) > maxCurrencyLen {
		return lengthExceeded("currency", rec.Currency, maxCurrencyLen)
	}
	if len(rec.MessageRef) > maxMessageRefLen {
		return lengthExceeded("message_ref", rec.MessageRef, maxMessageRefLen)
	}

	if rec.Parties == nil {
		return missingField("parties")
	}
	if err := schemaParty("parties.buyer", rec.Parties.Buyer); err != nil {
		return err
	}
	if err := schemaParty("parties.seller", rec.Parties.Seller); err != nil {
		return err
	}

	if rec.Items == nil {
		return missingField("items")
	}
	if len(rec.Items) == 0 {
		return model.NewValidationError(model.CodeEmptyItems,
			"items must contain at least one line item",
			map[string]any{"field": "items"})
	}
	for i, item := range rec.Items {
		field := fmt.Sprintf("items[%d]", i)
		if item.ID == "" {
			return missingField(field + ".id")
		}
		if len(item.ID) > maxItemIDLen {
			return lengthExceeded(field+".id", item.ID, maxItemIDLen)
		}
		if item.Quantity == nil {
			return missingField(field + ".quantity")
		}
		if item.Price == nil {
			return missingField(field + ".price")
		}
	}

	if len(rec.Notes) > maxNotesLen {
		return lengthExceeded("notes", rec.Notes, maxNotesLen)
	}
	return nil
}

func schemaParty(field string, p *model.Party) error {
	if p == nil {
		return missingField(field)
	}
	if p.ID == "" {
		return missingField(field + ".id")
	}
	if len(p.ID) > maxPartyIDLen {
		return lengthExceeded(field+".id", p.ID, maxPartyIDLen)
	}
	if len(p.Name) > maxPartyNameLen {
		return lengthExceeded(field+".name", p.Name, maxPartyNameLen)
	}
	return nil
}

func missingField(field string) *model.ValidationError {
	return model.NewValidationError(model.CodeMissingField,
		fmt.Sprintf("required field %s is missing", field),
		map[string]any{"field": field})
}

func lengthExceeded(field, value string, max int) *model.ValidationError {
	return model.NewValidationError(model.CodeLengthExceeded,
		fmt.Sprintf("field %s exceeds maximum length %d", field, max),
		map[string]any{
			"field":  field,
			"value":  model.Truncate(value),
			"length": len(value),
			"max":    max,
		})
}
