// Package config holds the immutable encoding configuration: supported
// charsets, currencies and date formats, length bounds, and the EDIFACT
// service characters. A Config value is safe to share across concurrent
// encodings; callers override fields on a copy.
package config

import "slices"

// Delimiters are the EDIFACT service characters declared by the UNA segment.
type Delimiters struct {
	SegmentTerminator   byte
	ElementSeparator    byte
	ComponentSeparator  byte
	DecimalMark         byte
	ReleaseChar         byte
	RepetitionSeparator byte
}

// Config is the per-run encoding configuration.
type Config struct {
	Charsets    []string
	Currencies  []string
	DateFormats []string

	MaxPartyIDLen  int
	MaxNameLen     int
	MaxItemIDLen   int
	MaxFreeTextLen int
	MaxSegmentLen  int

	Delimiters       Delimiters
	DecimalPrecision int
}

// Default returns the standard configuration for INVOIC interchanges.
func Default() Config {
	return Config{
		Charsets:    []string{"UNOA", "UNOB", "UNOC"},
		Currencies:  []string{"EUR", "USD", "GBP", "CHF", "JPY", "SEK", "NOK", "DKK", "PLN", "CZK", "HUF", "VND"},
		DateFormats: []string{"102", "203", "101"},

		MaxPartyIDLen:  35,
		MaxNameLen:     70,
		MaxItemIDLen:   35,
		MaxFreeTextLen: 350,
		MaxSegmentLen:  2000,

		Delimiters: Delimiters{
			SegmentTerminator:   '\'',
			ElementSeparator:    '+',
			ComponentSeparator:  ':',
			DecimalMark:         '.',
			ReleaseChar:         '?',
			RepetitionSeparator: '*',
		},
		DecimalPrecision: 2,
	}
}

// SupportsCharset reports whether the charset code is configured.
func (c Config) SupportsCharset(charset string) bool {
	return slices.Contains(c.Charsets, charset)
}

// SupportsCurrency reports whether the currency code is configured.
func (c Config) SupportsCurrency(currency string) bool {
	return slices.Contains(c.Currencies, currency)
}

// SupportsDateFormat reports whether the date format code is configured.
func (c Config) SupportsDateFormat(format string) bool {
	return slices.Contains(c.DateFormats, format)
}
