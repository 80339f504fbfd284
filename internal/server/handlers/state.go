package handlers

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/uptimemock/uptimemock/internal/errors"
	"github.com/uptimemock/uptimemock/internal/metrics"
	"github.com/uptimemock/uptimemock/internal/mock"
	"github.com/uptimemock/uptimemock/internal/observability"
)

// StateResponse lists every endpoint that has recorded state, keyed by path.
type StateResponse struct {
	Endpoints map[string]mock.EndpointState `json:"endpoints"`
	Timestamp string                        `json:"timestamp"`
}

// ResetResponse reports how many entries a reset discarded.
type ResetResponse struct {
	Reset    int    `json:"reset"`
	Endpoint string `json:"endpoint,omitempty"`
}

// StateHandler exposes the simulator's state store to operators.
type StateHandler struct {
	Store *mock.StateStore
}

// List serves GET /_mock/state. With ?endpoint= only that entry is listed.
func (h StateHandler) List(w http.ResponseWriter, r *http.Request) {
	endpoint, ok := endpointParam(w, r)
	if !ok {
		return
	}

	entries := h.Store.Snapshot()
	if endpoint != "" {
		state, found := h.Store.Get(endpoint)
		if !found {
			respondWithError(w, r, apperrors.NewUnknownEndpointError(endpoint))
			return
		}
		entries = map[string]mock.EndpointState{endpoint: state}
	}

	writeJSON(w, http.StatusOK, StateResponse{
		Endpoints: entries,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Reset serves POST /_mock/state/reset. With ?endpoint= only that entry is
// discarded; otherwise every entry is.
func (h StateHandler) Reset(w http.ResponseWriter, r *http.Request) {
	endpoint, ok := endpointParam(w, r)
	if !ok {
		return
	}

	resp := ResetResponse{Endpoint: endpoint}
	scope := "all"
	if endpoint != "" {
		if !h.Store.Reset(endpoint) {
			respondWithError(w, r, apperrors.NewUnknownEndpointError(endpoint))
			return
		}
		resp.Reset = 1
		scope = "endpoint"
	} else {
		resp.Reset = h.Store.ResetAll()
	}

	metrics.RecordStateReset(scope)
	if observability.ServerLogger != nil {
		observability.ServerLogger.Info("Simulation state reset",
			zap.String("scope", scope),
			zap.String("endpoint", endpoint),
			zap.Int("entries", resp.Reset))
	}

	writeJSON(w, http.StatusOK, resp)
}

// endpointParam reads ?endpoint=. State is keyed by path, so anything else
// is rejected.
func endpointParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	endpoint := r.URL.Query().Get("endpoint")
	if endpoint != "" && !strings.HasPrefix(endpoint, "/") {
		respondWithError(w, r, apperrors.NewInvalidInputError("endpoint must be a path starting with /"))
		return "", false
	}
	return endpoint, true
}
