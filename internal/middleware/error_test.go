package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

// Every error response carries the same envelope: code, message, timestamp
func TestProperty_ErrorEnvelopeIsConsistent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("all error responses share the envelope shape", prop.ForAll(
		func(statusCode int, message string) bool {
			if message == "" {
				message = "something went wrong"
			}

			w := httptest.NewRecorder()
			RespondWithError(w, statusCode, message)

			if w.Code != statusCode {
				return false
			}
			if w.Header().Get("Content-Type") != "application/json" {
				return false
			}

			var response ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				return false
			}

			if response.Error.Code == "" || response.Error.Message != message {
				return false
			}

			// Timestamp must be RFC3339 and not in the future
			ts, err := time.Parse(time.RFC3339, response.Error.Timestamp)
			if err != nil {
				return false
			}
			return !ts.After(time.Now().UTC().Add(time.Second))
		},
		gen.OneConstOf(
			http.StatusBadRequest,
			http.StatusUnauthorized,
			http.StatusForbidden,
			http.StatusNotFound,
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
		),
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRespondWithErrorDetails_PreservesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithErrorDetails(w, http.StatusBadRequest, "invalid filter", map[string]interface{}{
		"minPrice": "must be a decimal number",
	})

	response := decodeEnvelope(t, w)
	require.NotNil(t, response.Error.Details)
	assert.Equal(t, "must be a decimal number", response.Error.Details["minPrice"])
	assert.Equal(t, http.StatusText(http.StatusBadRequest), response.Error.Code)
}

func TestRespondWithValidationErrors_Uses400WithFieldDetails(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithValidationErrors(w, []ValidationError{
		{Field: "Email", Message: "Invalid email format"},
		{Field: "Password", Message: "Must be at least 6 characters"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	response := decodeEnvelope(t, w)
	assert.Equal(t, "validation failed", response.Error.Message)
	require.Contains(t, response.Error.Details, "validation_errors")

	raw, err := json.Marshal(response.Error.Details["validation_errors"])
	require.NoError(t, err)

	var fieldErrors []ValidationError
	require.NoError(t, json.Unmarshal(raw, &fieldErrors))
	require.Len(t, fieldErrors, 2)
	assert.Equal(t, "Email", fieldErrors[0].Field)
}

func TestRespondWithJSON_RoundTripsPayload(t *testing.T) {
	payload := map[string]string{"token": "abc.def.ghi"}

	w := httptest.NewRecorder()
	RespondWithJSON(w, http.StatusOK, payload)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	assert.Equal(t, payload, decoded)
}

func TestErrorHandlingMiddleware_ConvertsPanicsTo500(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	handler := ErrorHandlingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("unexpected failure")
	}))

	req := httptest.NewRequest("GET", "/api/items", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	response := decodeEnvelope(t, w)
	assert.Equal(t, "internal server error", response.Error.Message)
}

func TestErrorHandlingMiddleware_PassesThroughNormally(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	handler := ErrorHandlingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
