package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/edifact-generator/internal/config"
	"github.com/rezonia/edifact-generator/internal/server"
)

const recordJSON = `{
  "invoice_number": "INV1",
  "invoice_date": "20250101",
  "currency": "EUR",
  "message_ref": "REF123",
  "parties": {
    "buyer": {"id": "B1"},
    "seller": {"id": "S1"}
  },
  "items": [
    {"id": "I1", "quantity": 2, "price": 10.00}
  ]
}`

func newTestServer() *server.Server {
	cfg := &server.Config{
		Address: ":8080",
		Debug:   true,
	}
	return server.NewServer(cfg, config.Default(), zerolog.Nop())
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "ok", response["status"])
	assert.NotEmpty(t, response["time"])
}

func TestEncodeEndpoint(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/encode", bytes.NewReader([]byte(recordJSON)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	lines := strings.Split(body, "\n")
	assert.Equal(t, "UNA:+.? '", lines[0])
	assert.Contains(t, body, "BGM+380+INV1+9'")
	assert.Contains(t, body, "MOA+79:20'")
	assert.Contains(t, body, "MOA+86:20'")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "invoice_INV1.edi")
}

func TestEncodeEndpoint_CRLF(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/encode?crlf=1", bytes.NewReader([]byte(recordJSON)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "\r\n")
}

func TestEncodeEndpoint_FilenameSanitized(t *testing.T) {
	srv := newTestServer()

	record := strings.Replace(recordJSON, `"invoice_number": "INV1"`, `"invoice_number": "IN\"V/1"`, 1)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/encode", bytes.NewReader([]byte(record)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="invoice_INV1.edi"`, w.Header().Get("Content-Disposition"))
}

func TestEncodeEndpoint_InvalidJSON(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/encode", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEncodeEndpoint_ValidationFailure(t *testing.T) {
	srv := newTestServer()

	record := strings.Replace(recordJSON, `"currency": "EUR"`, `"currency": "XXX"`, 1)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/encode", bytes.NewReader([]byte(record)))
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var response server.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "unsupported_currency", response.Code)
}

func TestValidateEndpoint(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/validate", bytes.NewReader([]byte(recordJSON)))
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response server.ValidationResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.True(t, response.Valid)
}

func TestValidateEndpoint_Invalid(t *testing.T) {
	srv := newTestServer()

	record := strings.Replace(recordJSON, `"invoice_number": "INV1",`, "", 1)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/validate", bytes.NewReader([]byte(record)))
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response server.ValidationResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.False(t, response.Valid)
	assert.Equal(t, "missing_field", response.Code)
	assert.Equal(t, "invoice_number", response.Details["field"])
}

func TestConfigEndpoint(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/config", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response server.ConfigResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Contains(t, response.Currencies, "EUR")
	assert.Contains(t, response.Charsets, "UNOA")
	assert.Equal(t, 2000, response.MaxSegmentLen)
	assert.Equal(t, 2, response.DecimalPrecision)
}
