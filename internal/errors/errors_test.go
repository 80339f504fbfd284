package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uptimemock/uptimemock/internal/server/middleware"
)

func TestHTTPStatusFromCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatusFromCode("NOT_FOUND"))
	assert.Equal(t, http.StatusMethodNotAllowed, HTTPStatusFromCode("METHOD_NOT_ALLOWED"))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatusFromCode("SERVICE_UNAVAILABLE"))
	assert.Equal(t, http.StatusBadGateway, HTTPStatusFromCode("EXTERNAL_SERVICE_ERROR"))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusFromCode("SOMETHING_ELSE"))
}

func TestEnsureEnvelopeWrapsPlainErrors(t *testing.T) {
	env := EnsureEnvelope(stderrors.New("boom"))
	require.Equal(t, "INTERNAL_ERROR", env.Code)
	assert.Equal(t, "boom", env.Context["wrapped_error"])

	notFound := NewNotFoundError("missing")
	assert.Same(t, notFound, EnsureEnvelope(notFound))
}

func TestRespondWithErrorUsesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/_mock/state/reset", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDContextKey, "req-123"))
	rec := httptest.NewRecorder()

	RespondWithError(rec, req, NewUnknownEndpointError("/always-up"))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body HTTPErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
	assert.Equal(t, "req-123", body.Error.RequestID)
	assert.Equal(t, "/always-up", body.Error.Details["endpoint"])
}

func TestWrapInternalCarriesCause(t *testing.T) {
	env := WrapInternal(context.Background(), stderrors.New("listen failed"), "server error")
	assert.Equal(t, "INTERNAL_ERROR", env.Code)
	assert.NotEmpty(t, env.CorrelationID)
	assert.Equal(t, "listen failed", env.Context["wrapped_error"])
}
