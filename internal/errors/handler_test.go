package errors

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func TestHandleErrorAPIError(t *testing.T) {
	h := NewErrorHandler(slog.Default(), false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/amfi/year/2030", nil)
	h.HandleError(rec, req, New(http.StatusNotFound, "NO_DATA_FOUND", "no data stored for year: 2030"))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	problem := decodeProblem(t, rec)
	assert.Equal(t, "NO_DATA_FOUND", problem["error_code"])
	assert.Equal(t, float64(http.StatusNotFound), problem["status"])
	assert.Equal(t, "/api/amfi/year/2030", problem["instance"])
}

func TestHandleErrorValidation(t *testing.T) {
	h := NewErrorHandler(slog.Default(), false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/download/trigger", nil)
	h.HandleError(rec, req, ErrValidation("month", "month and year must be provided together"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	problem := decodeProblem(t, rec)
	assert.Equal(t, TypeValidation, problem["type"])
	assert.NotNil(t, problem["details"])
}

func TestHandleErrorAppError(t *testing.T) {
	h := NewErrorHandler(slog.Default(), false)

	tests := []struct {
		err        *AppError
		wantStatus int
		wantType   string
	}{
		{NewNetworkError("portal unreachable", nil), http.StatusBadGateway, TypeSourceFailure},
		{NewParsingError("section not found", nil), http.StatusInternalServerError, TypeParseFailed},
		{NewNotFoundError("period"), http.StatusNotFound, TypeDataNotFound},
		{NewAppValidationError("bad month"), http.StatusBadRequest, TypeValidation},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		h.HandleError(rec, req, tt.err)

		assert.Equal(t, tt.wantStatus, rec.Code, tt.err.Message)
		assert.Equal(t, tt.wantType, decodeProblem(t, rec)["type"], tt.err.Message)
	}
}

func TestHandleErrorTimeout(t *testing.T) {
	h := NewErrorHandler(slog.Default(), false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	h.HandleError(rec, req, context.DeadlineExceeded)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestHandleErrorUnknown(t *testing.T) {
	h := NewErrorHandler(slog.Default(), false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	h.HandleError(rec, req, errors.New("something exploded"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// Internal details are not leaked to the client.
	assert.NotContains(t, rec.Body.String(), "something exploded")
}

func TestNotFoundHandler(t *testing.T) {
	h := NewErrorHandler(slog.Default(), false)

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, TypeNotFound, decodeProblem(t, rec)["type"])
}

func TestProblemDetailsExtensions(t *testing.T) {
	pd := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request", "bad month", "/x").
		WithExtension("error_code", "VALIDATION_FAILED")

	data, err := json.Marshal(pd)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"error_code":"VALIDATION_FAILED"`)
	assert.Contains(t, string(data), `"detail":"bad month"`)
}
