package edifact

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rezonia/edifact-generator/internal/model"
)

// FormatDecimal renders a numeric value for emission into a segment. The
// value is rounded to the configured precision; if rounding moves it by more
// than 10^-(precision+1) the caller supplied more precision than configured
// and a precision_exceeded error is returned instead of silently truncating.
// The rounded value is formatted with exactly the configured decimals, then
// trailing zeros and a bare trailing decimal point are stripped, so 25.50
// becomes "25.5" and 10.00 becomes "10".
//
// Every numeric element of every segment goes through this function.
func FormatDecimal(d decimal.Decimal, precision int) (string, error) {
	rounded := d.Round(int32(precision))
	tolerance := decimal.New(1, int32(-(precision + 1)))
	if rounded.Sub(d).Abs().GreaterThan(tolerance) {
		return "", model.NewGenerationError(model.CodePrecisionExceeded,
			fmt.Sprintf("value %s exceeds configured precision %d", d.String(), precision),
			map[string]any{
				"value":     d.String(),
				"precision": precision,
			})
	}
	s := rounded.StringFixed(int32(precision))
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s, nil
}
