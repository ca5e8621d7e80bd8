// Package edifact builds EDIFACT INVOIC interchanges from invoice records.
//
// A Generator is constructed per document, sanitizes its record once, and on
// Encode validates the record (schema pass, then business rules) before
// emitting the segment sequence UNA..UNZ. Independent generators may encode
// independent records concurrently; a single instance is not safe for
// concurrent reuse because the segment buffer is mutated in place.
package edifact

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rezonia/edifact-generator/internal/config"
	"github.com/rezonia/edifact-generator/internal/model"
	"github.com/rezonia/edifact-generator/internal/validator"
)

const (
	defaultSender   = "SENDER"
	defaultReceiver = "RECEIVER"
	defaultCharset  = "UNOA"
	defaultUnit     = "PCE"

	syntaxVersion = "2"

	// dateFormatCode is the DTM format code for invoice and due dates.
	dateFormatCode = "102"

	// unbTimestampLayout renders the interchange timestamp as YYMMDDHHmm.
	unbTimestampLayout = "0601021504"

	// notesChunkLen is the hard-cut chunk size for FTX free text.
	notesChunkLen = 70

	// messageRefLen is the length of generated message references and the
	// upper bound for caller-supplied ones.
	messageRefLen = 14
)

var hundred = decimal.NewFromInt(100)

// Generator encodes one invoice record into an EDIFACT interchange.
type Generator struct {
	record     *model.InvoiceRecord
	cfg        config.Config
	lineEnding string
	messageRef string
	segments   []string
	now        func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithLineEnding sets the string used to join segments (default "\n").
func WithLineEnding(lineEnding string) Option {
	return func(g *Generator) {
		g.lineEnding = lineEnding
	}
}

// WithMessageRef sets an explicit message reference, overriding both the
// record's message_ref field and the generated default.
func WithMessageRef(ref string) Option {
	return func(g *Generator) {
		g.messageRef = ref
	}
}

// WithClock sets the time source for the UNB timestamp. Used in tests to
// make output deterministic.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New creates a generator for the given record. The record is sanitized here,
// once; the caller's copy is never modified. The message reference is fixed
// for the lifetime of the instance and reused across UNB/UNH/UNT/UNZ.
func New(rec *model.InvoiceRecord, cfg config.Config, opts ...Option) *Generator {
	g := &Generator{
		record:     Sanitize(rec),
		cfg:        cfg,
		lineEnding: "\n",
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.messageRef == "" {
		if g.record != nil && g.record.MessageRef != "" {
			g.messageRef = g.record.MessageRef
		} else {
			g.messageRef = newMessageRef()
		}
	}
	return g
}

// newMessageRef derives a fresh 14-character message reference.
func newMessageRef() string {
	ref := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return ref[:messageRefLen]
}

// MessageRef returns the message reference used by this generator.
func (g *Generator) MessageRef() string {
	return g.messageRef
}

// Encode validates the record and assembles the interchange text. On failure
// it returns a *model.ValidationError (caller-input problem) or a
// *model.GenerationError (internal encoding problem); no partial output is
// ever returned. Calling Encode again on the same instance restarts from
// scratch with a fresh segment buffer.
func (g *Generator) Encode() (string, error) {
	g.segments = g.segments[:0]

	if err := validator.Schema(g.record); err != nil {
		return "", err
	}
	if err := validator.BusinessRules(g.record, g.cfg); err != nil {
		return "", err
	}
	// The schema pass only sees the record's message_ref; the effective
	// reference may instead come from WithMessageRef and gets the same bound.
	if len(g.messageRef) > messageRefLen {
		return "", model.NewValidationError(model.CodeLengthExceeded,
			fmt.Sprintf("field message_ref exceeds maximum length %d", messageRefLen),
			map[string]any{
				"field":  "message_ref",
				"value":  model.Truncate(g.messageRef),
				"length": len(g.messageRef),
				"max":    messageRefLen,
			})
	}

	g.segments = append(g.segments, serviceStringAdvice(g.cfg.Delimiters))

	if err := g.emitEnvelopeHeader(); err != nil {
		return "", err
	}
	if err := g.emitHeader(); err != nil {
		return "", err
	}
	if err := g.emitParties(); err != nil {
		return "", err
	}
	if err := g.emitItems(); err != nil {
		return "", err
	}
	if err := g.emitNotes(); err != nil {
		return "", err
	}
	if err := g.emitBankAccount(); err != nil {
		return "", err
	}
	if err := g.emitTotals(); err != nil {
		return "", err
	}
	if err := g.emitTrailers(); err != nil {
		return "", err
	}

	text := strings.Join(g.segments, g.lineEnding)
	if err := g.selfCheck(text); err != nil {
		return "", err
	}
	return text, nil
}

// add assembles one segment and appends it to the buffer.
func (g *Generator) add(tag string, elements ...element) error {
	seg, err := buildSegment(tag, elements, g.cfg)
	if err != nil {
		return err
	}
	g.segments = append(g.segments, seg)
	return nil
}

func (g *Generator) emitEnvelopeHeader() error {
	charset := g.record.Charset
	if charset == "" {
		charset = defaultCharset
	}
	sender := g.record.SenderID
	if sender == "" {
		sender = defaultSender
	}
	receiver := g.record.ReceiverID
	if receiver == "" {
		receiver = defaultReceiver
	}
	timestamp := g.now().Format(unbTimestampLayout)

	return g.add("UNB",
		el(charset, syntaxVersion),
		el(sender),
		el(receiver),
		el(timestamp),
		el(g.messageRef),
	)
}

func (g *Generator) emitHeader() error {
	if err := g.add("UNH", el(g.messageRef), el("INVOIC", "D", "96A", "UN")); err != nil {
		return err
	}
	// 380 = commercial invoice, message function 9 = original
	if err := g.add("BGM", el("380"), el(g.record.InvoiceNumber), el("9")); err != nil {
		return err
	}
	if err := g.add("DTM", el("137", g.record.InvoiceDate, dateFormatCode)); err != nil {
		return err
	}
	if g.record.DueDate != "" {
		if err := g.add("DTM", el("13", g.record.DueDate, dateFormatCode)); err != nil {
			return err
		}
	}
	return g.add("CUX", el("2", g.record.Currency, "9"))
}

func (g *Generator) emitParties() error {
	for _, role := range []struct {
		qualifier string
		party     *model.Party
	}{
		{"BY", g.record.Parties.Buyer},
		{"SE", g.record.Parties.Seller},
	} {
		if err := g.add("NAD",
			el(role.qualifier),
			el(role.party.ID),
			el(""),
			el("91"),
			el(role.party.Name),
		); err != nil {
			return err
		}
		if role.party.Address != "" {
			if err := g.add("LOC", el("1"), el(role.party.Address)); err != nil {
				return err
			}
		}
		if role.party.Contact != "" {
			if err := g.add("COM", el(role.party.Contact, "TE")); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Generator) emitItems() error {
	for i, item := range g.record.Items {
		lineNumber := strconv.Itoa(i + 1)
		unit := item.Unit
		if unit == "" {
			unit = defaultUnit
		}

		if err := g.add("LIN", el(lineNumber), el(""), el(item.ID, "EN")); err != nil {
			return err
		}
		if item.Description != "" {
			if err := g.add("IMD", el("F"), el(""), el("", "", "", item.Description)); err != nil {
				return err
			}
		}
		quantity, err := FormatDecimal(*item.Quantity, g.cfg.DecimalPrecision)
		if err != nil {
			return err
		}
		// 47 = invoiced quantity
		if err := g.add("QTY", el("47", quantity, unit)); err != nil {
			return err
		}
		price, err := FormatDecimal(*item.Price, g.cfg.DecimalPrecision)
		if err != nil {
			return err
		}
		if err := g.add("PRI", el("AAA", price, unit)); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) emitNotes() error {
	if g.record.Notes == "" {
		return nil
	}
	chunks := chunkText(g.record.Notes, notesChunkLen)
	for i, chunk := range chunks {
		if err := g.add("FTX",
			el("AAI"),
			el(strconv.Itoa(i+1)),
			el(""),
			el(""),
			el(chunk),
		); err != nil {
			return err
		}
	}
	return nil
}

// chunkText hard-cuts s into chunks of at most n characters, with no
// word-boundary awareness.
func chunkText(s string, n int) []string {
	runes := []rune(s)
	var chunks []string
	for len(runes) > 0 {
		if len(runes) <= n {
			chunks = append(chunks, string(runes))
			break
		}
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	return chunks
}

func (g *Generator) emitBankAccount() error {
	account := g.record.BankAccount
	if account == nil || account.Account == "" || account.BankCode == "" {
		return nil
	}
	// BE = beneficiary
	return g.add("FII",
		el("BE"),
		el(""),
		el(account.Account),
		el(""),
		el(account.BankCode),
	)
}

func (g *Generator) emitTotals() error {
	precision := int32(g.cfg.DecimalPrecision)

	subtotal := decimal.Zero
	for _, item := range g.record.Items {
		subtotal = subtotal.Add(item.Quantity.Mul(*item.Price))
	}
	subtotal = subtotal.Round(precision)

	subtotalStr, err := FormatDecimal(subtotal, g.cfg.DecimalPrecision)
	if err != nil {
		return err
	}
	// 79 = total line items amount
	if err := g.add("MOA", el("79", subtotalStr)); err != nil {
		return err
	}

	if g.record.TaxRate != nil {
		rate := *g.record.TaxRate
		tax := subtotal.Mul(rate).Div(hundred).Round(precision)

		rateStr, err := FormatDecimal(rate, g.cfg.DecimalPrecision)
		if err != nil {
			return err
		}
		if err := g.add("TAX", el("7"), el("VAT"), el(""), el(""), el(""), el(rateStr)); err != nil {
			return err
		}
		taxStr, err := FormatDecimal(tax, g.cfg.DecimalPrecision)
		if err != nil {
			return err
		}
		// 124 = tax amount
		if err := g.add("MOA", el("124", taxStr)); err != nil {
			return err
		}
		// The grand total adds the already-rounded tax to the already-rounded
		// subtotal; both amounts match the MOA 79 and MOA 124 segments.
		totalStr, err := FormatDecimal(subtotal.Add(tax), g.cfg.DecimalPrecision)
		if err != nil {
			return err
		}
		if err := g.add("MOA", el("86", totalStr)); err != nil {
			return err
		}
	} else {
		if err := g.add("MOA", el("86", subtotalStr)); err != nil {
			return err
		}
	}

	if g.record.PaymentTerms != "" {
		if err := g.add("PAI", el(g.record.PaymentTerms), el("3")); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) emitTrailers() error {
	unhIndex := -1
	for i, seg := range g.segments {
		if strings.HasPrefix(seg, "UNH"+string(g.cfg.Delimiters.ElementSeparator)) {
			unhIndex = i
			break
		}
	}
	if unhIndex < 0 {
		return model.NewGenerationError(model.CodeMissingUNH,
			"no UNH segment found while emitting UNT",
			map[string]any{"segments": len(g.segments)})
	}

	// Count from UNH through the UNT itself, inclusive.
	count := len(g.segments) - unhIndex + 1
	if err := g.add("UNT", el(strconv.Itoa(count)), el(g.messageRef)); err != nil {
		return err
	}
	return g.add("UNZ", el("1"), el(g.messageRef))
}

// selfCheck verifies the gross syntax of the assembled interchange: the
// first line starts with UNA and every subsequent line ends with the segment
// terminator. A failure here is an internal assembly defect, not a
// user-input problem.
func (g *Generator) selfCheck(text string) error {
	lines := strings.Split(text, g.lineEnding)
	if len(lines) == 0 || !strings.HasPrefix(lines[0], "UNA") {
		return model.NewGenerationError(model.CodeOutputCheckFailed,
			"output does not start with UNA",
			map[string]any{"first_line": model.Truncate(text)})
	}
	terminator := string(g.cfg.Delimiters.SegmentTerminator)
	for i, line := range lines[1:] {
		if !strings.HasSuffix(line, terminator) {
			return model.NewGenerationError(model.CodeOutputCheckFailed,
				"segment is not terminated",
				map[string]any{
					"line":    i + 2,
					"segment": model.Truncate(line),
				})
		}
	}
	return nil
}
