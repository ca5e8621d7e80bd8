package model

import (
	"github.com/shopspring/decimal"
)

// InvoiceRecord is the caller-supplied invoice to encode. The record is
// treated as immutable during encoding; the generator works on a sanitized
// copy and never writes back into caller data.
type InvoiceRecord struct {
	InvoiceNumber string           `json:"invoice_number"`
	InvoiceDate   string           `json:"invoice_date"`
	DueDate       string           `json:"due_date,omitempty"`
	Currency      string           `json:"currency"`
	TaxRate       *decimal.Decimal `json:"tax_rate,omitempty"`
	PaymentTerms  string           `json:"payment_terms,omitempty"`
	SenderID      string           `json:"sender_id,omitempty"`
	ReceiverID    string           `json:"receiver_id,omitempty"`
	MessageRef    string           `json:"message_ref,omitempty"`
	Charset       string           `json:"charset,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	Parties       *Parties         `json:"parties"`
	Items         []LineItem       `json:"items"`
	BankAccount   *BankAccount     `json:"bank_account,omitempty"`
}

// Parties holds the two mandatory trading partners of an invoice.
type Parties struct {
	Buyer  *Party `json:"buyer"`
	Seller *Party `json:"seller"`
}

// Party identifies one trading partner.
type Party struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	Contact string `json:"contact,omitempty"`
}

// LineItem is one invoiced position. Quantity and Price are pointers so a
// record with the field absent is distinguishable from an explicit zero.
type LineItem struct {
	ID          string           `json:"id"`
	Quantity    *decimal.Decimal `json:"quantity"`
	Price       *decimal.Decimal `json:"price"`
	Unit        string           `json:"unit,omitempty"`
	Description string           `json:"description,omitempty"`
}

// BankAccount holds optional remittance details for the FII segment.
type BankAccount struct {
	Account  string `json:"account"`
	BankCode string `json:"bank_code"`
}

// Clone returns a deep copy of the record. Nested pointers and the item
// slice are duplicated; decimal values are immutable and shared as-is.
func (r *InvoiceRecord) Clone() *InvoiceRecord {
	if r == nil {
		return nil
	}
	out := *r
	if r.Parties != nil {
		parties := Parties{}
		if r.Parties.Buyer != nil {
			buyer := *r.Parties.Buyer
			parties.Buyer = &buyer
		}
		if r.Parties.Seller != nil {
			seller := *r.Parties.Seller
			parties.Seller = &seller
		}
		out.Parties = &parties
	}
	if r.Items != nil {
		out.Items = make([]LineItem, len(r.Items))
		copy(out.Items, r.Items)
	}
	if r.BankAccount != nil {
		account := *r.BankAccount
		out.BankAccount = &account
	}
	return &out
}
