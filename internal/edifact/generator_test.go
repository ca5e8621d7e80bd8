package edifact_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	dec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/edifact-generator/internal/config"
	"github.com/rezonia/edifact-generator/internal/edifact"
	"github.com/rezonia/edifact-generator/internal/model"
)

func decPtr(s string) *dec.Decimal {
	d := dec.RequireFromString(s)
	return &d
}

func validRecord() *model.InvoiceRecord {
	return &model.InvoiceRecord{
		InvoiceNumber: "INV1",
		InvoiceDate:   "20250101",
		Currency:      "EUR",
		Parties: &model.Parties{
			Buyer:  &model.Party{ID: "B1"},
			Seller: &model.Party{ID: "S1"},
		},
		Items: []model.LineItem{
			{ID: "I1", Quantity: decPtr("2"), Price: decPtr("10.00")},
		},
	}
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, 1, 1, 10, 10, 0, 0, time.UTC)
	}
}

func encode(t *testing.T, rec *model.InvoiceRecord, opts ...edifact.Option) string {
	t.Helper()
	opts = append([]edifact.Option{
		edifact.WithClock(fixedClock()),
		edifact.WithMessageRef("REF123"),
	}, opts...)
	text, err := edifact.New(rec, config.Default(), opts...).Encode()
	require.NoError(t, err)
	return text
}

func TestEncode_GrossSyntax(t *testing.T) {
	text := encode(t, validRecord())
	lines := strings.Split(text, "\n")

	assert.Equal(t, "UNA:+.? '", lines[0])
	for _, line := range lines[1:] {
		assert.True(t, strings.HasSuffix(line, "'"), "line %q not terminated", line)
	}
}

func TestEncode_Envelope(t *testing.T) {
	text := encode(t, validRecord())
	lines := strings.Split(text, "\n")

	assert.Equal(t, "UNB+UNOA:2+SENDER+RECEIVER+2501011010+REF123'", lines[1])
	assert.Equal(t, "UNH+REF123+INVOIC:D:96A:UN'", lines[2])
	assert.Equal(t, "BGM+380+INV1+9'", lines[3])
	assert.Equal(t, "DTM+137:20250101:102'", lines[4])
	assert.Equal(t, "CUX+2:EUR:9'", lines[5])
	assert.Equal(t, "UNZ+1+REF123'", lines[len(lines)-1])
}

func TestEncode_SenderReceiverOverride(t *testing.T) {
	rec := validRecord()
	rec.SenderID = "ACME"
	rec.ReceiverID = "GLOBEX"
	rec.Charset = "UNOC"

	text := encode(t, rec)
	assert.Contains(t, text, "UNB+UNOC:2+ACME+GLOBEX+2501011010+REF123'")
}

func TestEncode_Parties(t *testing.T) {
	rec := validRecord()
	rec.Parties.Buyer.Name = "Buyer Inc"
	rec.Parties.Buyer.Address = "1 Main St"
	rec.Parties.Seller.Contact = "sales@example.com"

	text := encode(t, rec)

	assert.Contains(t, text, "NAD+BY+B1++91+Buyer Inc'")
	assert.Contains(t, text, "LOC+1+1 Main St'")
	assert.Contains(t, text, "NAD+SE+S1++91+'")
	assert.Contains(t, text, "COM+sales@example.com:TE'")
}

func TestEncode_LineItems(t *testing.T) {
	rec := validRecord()
	rec.Items = append(rec.Items, model.LineItem{
		ID:          "I2",
		Quantity:    decPtr("1.5"),
		Price:       decPtr("4.20"),
		Unit:        "KGM",
		Description: "Granulate",
	})

	text := encode(t, rec)

	assert.Contains(t, text, "LIN+1++I1:EN'")
	assert.Contains(t, text, "QTY+47:2:PCE'")
	assert.Contains(t, text, "PRI+AAA:10:PCE'")
	assert.Contains(t, text, "LIN+2++I2:EN'")
	assert.Contains(t, text, "IMD+F++:::Granulate'")
	assert.Contains(t, text, "QTY+47:1.5:KGM'")
	assert.Contains(t, text, "PRI+AAA:4.2:KGM'")
}

func TestEncode_TotalsWithoutTax(t *testing.T) {
	text := encode(t, validRecord())

	assert.Contains(t, text, "MOA+79:20'")
	assert.Contains(t, text, "MOA+86:20'")
	assert.NotContains(t, text, "TAX+")
	assert.NotContains(t, text, "MOA+124")
}

func TestEncode_TotalsWithTax(t *testing.T) {
	rec := validRecord()
	rec.TaxRate = decPtr("19")

	text := encode(t, rec)

	assert.Contains(t, text, "MOA+79:20'")
	assert.Contains(t, text, "TAX+7+VAT++++19'")
	assert.Contains(t, text, "MOA+124:3.8'")
	assert.Contains(t, text, "MOA+86:23.8'")
}

func TestEncode_TaxRoundsBeforeAdding(t *testing.T) {
	// subtotal 3 x 0.15 = 0.45; 7% tax = 0.0315, rounded to 0.03; the grand
	// total must be 0.45 + 0.03, not round(0.4815).
	rec := validRecord()
	rec.Items = []model.LineItem{
		{ID: "I1", Quantity: decPtr("3"), Price: decPtr("0.15")},
	}
	rec.TaxRate = decPtr("7")

	text := encode(t, rec)

	assert.Contains(t, text, "MOA+79:0.45'")
	assert.Contains(t, text, "MOA+124:0.03'")
	assert.Contains(t, text, "MOA+86:0.48'")
}

func TestEncode_DueDate(t *testing.T) {
	rec := validRecord()
	rec.DueDate = "20250215"

	text := encode(t, rec)
	assert.Contains(t, text, "DTM+13:20250215:102'")
}

func TestEncode_Notes(t *testing.T) {
	rec := validRecord()
	rec.Notes = strings.Repeat("a", 70) + strings.Repeat("b", 70) + "tail"

	text := encode(t, rec)

	assert.Contains(t, text, "FTX+AAI+1+++"+strings.Repeat("a", 70)+"'")
	assert.Contains(t, text, "FTX+AAI+2+++"+strings.Repeat("b", 70)+"'")
	assert.Contains(t, text, "FTX+AAI+3+++tail'")
}

func TestEncode_BankAccount(t *testing.T) {
	rec := validRecord()
	rec.BankAccount = &model.BankAccount{Account: "DE02120300000000202051", BankCode: "BYLADEM1001"}

	text := encode(t, rec)
	assert.Contains(t, text, "FII+BE++DE02120300000000202051++BYLADEM1001'")
}

func TestEncode_BankAccountIncomplete(t *testing.T) {
	rec := validRecord()
	rec.BankAccount = &model.BankAccount{Account: "DE02120300000000202051"}

	text := encode(t, rec)
	assert.NotContains(t, text, "FII+")
}

func TestEncode_PaymentTerms(t *testing.T) {
	rec := validRecord()
	rec.PaymentTerms = "NET30"

	text := encode(t, rec)
	assert.Contains(t, text, "PAI+NET30+3'")
}

func TestEncode_EscapesFieldValues(t *testing.T) {
	rec := validRecord()
	rec.Parties.Buyer.Name = "Fisher + Sons? Ltd'"

	text := encode(t, rec)
	assert.Contains(t, text, "NAD+BY+B1++91+Fisher ?+ Sons?? Ltd?''")
}

func TestEncode_SegmentCount(t *testing.T) {
	rec := validRecord()
	rec.DueDate = "20250215"
	rec.TaxRate = decPtr("19")
	rec.Notes = "thanks for your business"

	text := encode(t, rec)
	lines := strings.Split(text, "\n")

	unhIndex := -1
	untIndex := -1
	for i, line := range lines {
		if strings.HasPrefix(line, "UNH+") {
			unhIndex = i
		}
		if strings.HasPrefix(line, "UNT+") {
			untIndex = i
		}
	}
	require.GreaterOrEqual(t, unhIndex, 0)
	require.Greater(t, untIndex, unhIndex)

	parts := strings.Split(strings.TrimSuffix(lines[untIndex], "'"), "+")
	require.Len(t, parts, 3)
	count, err := strconv.Atoi(parts[1])
	require.NoError(t, err)

	assert.Equal(t, untIndex-unhIndex+1, count)
	assert.Equal(t, "REF123", parts[2])
}

func TestEncode_MessageRefGenerated(t *testing.T) {
	gen := edifact.New(validRecord(), config.Default(), edifact.WithClock(fixedClock()))
	text, err := gen.Encode()
	require.NoError(t, err)

	ref := gen.MessageRef()
	assert.Len(t, ref, 14)
	assert.Contains(t, text, "UNH+"+ref+"+")
	assert.Contains(t, text, "+"+ref+"'")
	assert.True(t, strings.HasSuffix(strings.Split(text, "\n")[1], "+"+ref+"'"), "UNB must carry the message ref")
	assert.Contains(t, text, "UNZ+1+"+ref+"'")
}

func TestEncode_MessageRefFromRecord(t *testing.T) {
	rec := validRecord()
	rec.MessageRef = "DOC42"

	gen := edifact.New(rec, config.Default(), edifact.WithClock(fixedClock()))
	text, err := gen.Encode()
	require.NoError(t, err)

	assert.Equal(t, "DOC42", gen.MessageRef())
	assert.Contains(t, text, "UNH+DOC42+")
}

func TestEncode_MessageRefFromOptionTooLong(t *testing.T) {
	gen := edifact.New(validRecord(), config.Default(),
		edifact.WithMessageRef(strings.Repeat("X", 30)))
	text, err := gen.Encode()
	require.Error(t, err)
	assert.Empty(t, text)

	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, model.CodeLengthExceeded, ve.Code)
	assert.Equal(t, "message_ref", ve.Details["field"])
	assert.Equal(t, 30, ve.Details["length"])
}

func TestEncode_Idempotent(t *testing.T) {
	gen := edifact.New(validRecord(), config.Default(),
		edifact.WithClock(fixedClock()), edifact.WithMessageRef("REF123"))

	first, err := gen.Encode()
	require.NoError(t, err)
	second, err := gen.Encode()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEncode_CRLF(t *testing.T) {
	text := encode(t, validRecord(), edifact.WithLineEnding("\r\n"))

	lines := strings.Split(text, "\r\n")
	assert.Equal(t, "UNA:+.? '", lines[0])
	assert.NotContains(t, lines[1], "\n")
}

func TestEncode_ValidationRunsFirst(t *testing.T) {
	rec := validRecord()
	rec.Items = nil

	_, err := edifact.New(rec, config.Default()).Encode()
	require.Error(t, err)

	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, model.CodeMissingField, ve.Code)
	assert.Equal(t, "items", ve.Details["field"])
}

func TestEncode_RetryAfterFailure(t *testing.T) {
	rec := validRecord()
	rec.Items[0].Price = decPtr("10.005")

	gen := edifact.New(rec, config.Default(),
		edifact.WithClock(fixedClock()), edifact.WithMessageRef("REF123"))
	_, err := gen.Encode()
	require.Error(t, err)

	var ge *model.GenerationError
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, model.CodePrecisionExceeded, ge.Code)

	// The same instance starts over on the next call; the record is
	// unchanged, so it must fail the same way again.
	_, err = gen.Encode()
	require.Error(t, err)

	var second *model.GenerationError
	require.True(t, errors.As(err, &second))
	assert.Equal(t, model.CodePrecisionExceeded, second.Code)
}

func TestEncode_SegmentTooLong(t *testing.T) {
	cfg := config.Default()
	cfg.MaxSegmentLen = 30

	rec := validRecord()
	rec.Parties.Buyer.Name = strings.Repeat("x", 60)

	_, err := edifact.New(rec, cfg).Encode()
	require.Error(t, err)

	var ge *model.GenerationError
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, model.CodeSegmentTooLong, ge.Code)
	segment, ok := ge.Details["segment"].(string)
	require.True(t, ok)
	assert.LessOrEqual(t, len(segment), 53) // truncated for display
}
