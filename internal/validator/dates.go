package validator

import (
	"fmt"
	"time"
)

// dateLayouts maps EDIFACT date/time format codes (DTM qualifier 2379) to Go
// reference layouts.
var dateLayouts = map[string]string{
	"102": "20060102",     // CCYYMMDD
	"203": "200601021504", // CCYYMMDDHHMM
	"101": "060102",       // YYMMDD
}

// invoiceDateFormat is the format used for invoice and due dates.
const invoiceDateFormat = "102"

// ParseDate parses a date string under the given EDIFACT format code. The
// parse is strict: reformatting the parsed time must reproduce the input
// bit-for-bit, so impossible calendar dates and alternate spellings that
// happen to parse are rejected.
func ParseDate(value, format string) (time.Time, error) {
	layout, ok := dateLayouts[format]
	if !ok {
		return time.Time{}, fmt.Errorf("unsupported date format code %q", format)
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, err
	}
	if t.Format(layout) != value {
		return time.Time{}, fmt.Errorf("date %q does not round-trip under format %s", value, format)
	}
	return t, nil
}
