package server

// ValidationResponse is the response for the validate endpoint
type ValidationResponse struct {
	Valid   bool           `json:"valid"`
	Code    string         `json:"code,omitempty"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// ConfigResponse advertises the effective encoding configuration
type ConfigResponse struct {
	Charsets         []string `json:"charsets"`
	Currencies       []string `json:"currencies"`
	DateFormats      []string `json:"date_formats"`
	MaxPartyIDLen    int      `json:"max_party_id_len"`
	MaxNameLen       int      `json:"max_name_len"`
	MaxItemIDLen     int      `json:"max_item_id_len"`
	MaxFreeTextLen   int      `json:"max_free_text_len"`
	MaxSegmentLen    int      `json:"max_segment_len"`
	DecimalPrecision int      `json:"decimal_precision"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}
