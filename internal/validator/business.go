package validator

import (
	"fmt"

	"github.com/rezonia/edifact-generator/internal/config"
	"github.com/rezonia/edifact-generator/internal/model"
)

// BusinessRules checks semantic correctness of a record against the
// configuration. It assumes the schema pass already succeeded.
func BusinessRules(rec *model.InvoiceRecord, cfg config.Config) error {
	if rec.Charset != "" && !cfg.SupportsCharset(rec.Charset) {
		return model.NewValidationError(model.CodeUnsupportedCharset,
			fmt.Sprintf("charset %s is not supported", model.Truncate(rec.Charset)),
			map[string]any{
				"field":     "charset",
				"value":     model.Truncate(rec.Charset),
				"supported": cfg.Charsets,
			})
	}

	if !cfg.SupportsCurrency(rec.Currency) {
		return model.NewValidationError(model.CodeUnsupportedCurrency,
			fmt.Sprintf("currency %s is not supported", model.Truncate(rec.Currency)),
			map[string]any{
				"field":     "currency",
				"value":     model.Truncate(rec.Currency),
				"supported": cfg.Currencies,
			})
	}

	invoiceDate, err := ParseDate(rec.InvoiceDate, invoiceDateFormat)
	if err != nil {
		return invalidDate("invoice_date", rec.InvoiceDate)
	}
	if rec.DueDate != "" {
		dueDate, err := ParseDate(rec.DueDate, invoiceDateFormat)
		if err != nil {
			return invalidDate("due_date", rec.DueDate)
		}
		if !dueDate.After(invoiceDate) {
			return model.NewValidationError(model.CodeDueDateNotAfter,
				"due_date must be strictly after invoice_date",
				map[string]any{
					"field":        "due_date",
					"due_date":     rec.DueDate,
					"invoice_date": rec.InvoiceDate,
				})
		}
	}

	for _, role := range []struct {
		field string
		party *model.Party
	}{
		{"parties.buyer", rec.Parties.Buyer},
		{"parties.seller", rec.Parties.Seller},
	} {
		if role.party.ID == "" {
			return model.NewValidationError(model.CodePartyIDMissing,
				fmt.Sprintf("%s.id must not be empty", role.field),
				map[string]any{"field": role.field + ".id"})
		}
		if len(role.party.ID) > cfg.MaxPartyIDLen {
			return model.NewValidationError(model.CodePartyIDTooLong,
				fmt.Sprintf("%s.id exceeds maximum length %d", role.field, cfg.MaxPartyIDLen),
				map[string]any{
					"field":  role.field + ".id",
					"value":  model.Truncate(role.party.ID),
					"length": len(role.party.ID),
					"max":    cfg.MaxPartyIDLen,
				})
		}
		if len(role.party.Name) > cfg.MaxNameLen {
			return model.NewValidationError(model.CodePartyNameTooLong,
				fmt.Sprintf("%s.name exceeds maximum length %d", role.field, cfg.MaxNameLen),
				map[string]any{
					"field":  role.field + ".name",
					"value":  model.Truncate(role.party.Name),
					"length": len(role.party.Name),
					"max":    cfg.MaxNameLen,
				})
		}
	}

	seen := make(map[string]int, len(rec.Items))
	for i, item := range rec.Items {
		field := fmt.Sprintf("items[%d]", i)
		if len(item.ID) > cfg.MaxItemIDLen {
			return model.NewValidationError(model.CodeItemIDTooLong,
				fmt.Sprintf("%s.id exceeds maximum length %d", field, cfg.MaxItemIDLen),
				map[string]any{
					"field":  field + ".id",
					"value":  model.Truncate(item.ID),
					"length": len(item.ID),
					"max":    cfg.MaxItemIDLen,
				})
		}
		if !item.Quantity.IsPositive() {
			return model.NewValidationError(model.CodeInvalidQuantity,
				fmt.Sprintf("%s.quantity must be greater than zero", field),
				map[string]any{
					"field": field + ".quantity",
					"value": item.Quantity.String(),
				})
		}
		if item.Price.IsNegative() {
			return model.NewValidationError(model.CodeInvalidPrice,
				fmt.Sprintf("%s.price must not be negative", field),
				map[string]any{
					"field": field + ".price",
					"value": item.Price.String(),
				})
		}
		if first, dup := seen[item.ID]; dup {
			return model.NewValidationError(model.CodeDuplicateItemID,
				fmt.Sprintf("item id %s is not unique", model.Truncate(item.ID)),
				map[string]any{
					"field":       field + ".id",
					"value":       model.Truncate(item.ID),
					"first_index": first,
				})
		}
		seen[item.ID] = i
	}

	return nil
}

func invalidDate(field, value string) *model.ValidationError {
	return model.NewValidationError(model.CodeInvalidDate,
		fmt.Sprintf("%s is not a valid date in format %s (CCYYMMDD)", field, invoiceDateFormat),
		map[string]any{
			"field":  field,
			"value":  model.Truncate(value),
			"format": invoiceDateFormat,
		})
}
