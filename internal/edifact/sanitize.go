package edifact

import (
	"strings"

	"github.com/rezonia/edifact-generator/internal/model"
)

// stripControl removes ASCII control characters (0x00-0x1F, 0x7F) from a
// string value.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F {
			return -1
		}
		return r
	}, s)
}

// Sanitize returns a deep copy of the record with control characters
// stripped from every string value. Sanitization happens once, at generator
// construction, before any validation or encoding touches the record.
func Sanitize(rec *model.InvoiceRecord) *model.InvoiceRecord {
	if rec == nil {
		return nil
	}
	out := rec.Clone()

	out.InvoiceNumber = stripControl(out.InvoiceNumber)
	out.InvoiceDate = stripControl(out.InvoiceDate)
	out.DueDate = stripControl(out.DueDate)
	out.Currency = stripControl(out.Currency)
	out.PaymentTerms = stripControl(out.PaymentTerms)
	out.SenderID = stripControl(out.SenderID)
	out.ReceiverID = stripControl(out.ReceiverID)
	out.MessageRef = stripControl(out.MessageRef)
	out.Charset = stripControl(out.Charset)
	out.Notes = stripControl(out.Notes)

	if out.Parties != nil {
		sanitizeParty(out.Parties.Buyer)
		sanitizeParty(out.Parties.Seller)
	}
	for i := range out.Items {
		item := &out.Items[i]
		item.ID = stripControl(item.ID)
		item.Unit = stripControl(item.Unit)
		item.Description = stripControl(item.Description)
	}
	if out.BankAccount != nil {
		out.BankAccount.Account = stripControl(out.BankAccount.Account)
		out.BankAccount.BankCode = stripControl(out.BankAccount.BankCode)
	}
	return out
}

func sanitizeParty(p *model.Party) {
	if p == nil {
		return
	}
	p.ID = stripControl(p.ID)
	p.Name = stripControl(p.Name)
	p.Address = stripControl(p.Address)
	p.Contact = stripControl(p.Contact)
}
