package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/uptimemock/uptimemock/internal/metrics"
	"github.com/uptimemock/uptimemock/internal/mock"
	"github.com/uptimemock/uptimemock/internal/observability"
)

// PoweredByHeader identifies the mock on every JSON response.
const PoweredByHeader = "X-Powered-By"

func (s *Server) endpointHandler(e mock.Endpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, e.Path, e.Handler(r))
	}
}

// render writes resp. An empty endpoint marks the not-found response, which
// is not a simulated outcome.
func (s *Server) render(w http.ResponseWriter, r *http.Request, endpoint string, resp mock.Response) {
	if resp.Abandoned {
		metrics.RecordAbandoned(endpoint)
		if observability.ServerLogger != nil {
			observability.ServerLogger.Debug("Client left before response",
				zap.String("endpoint", endpoint))
		}
		return
	}

	body, err := encodeBody(resp)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	header := w.Header()
	for key, values := range resp.Header {
		for _, v := range values {
			header.Add(key, v)
		}
	}
	if resp.ContentType == mock.ContentTypeJSON {
		header.Set(PoweredByHeader, s.poweredBy)
	}
	if resp.ContentType != "" {
		header.Set("Content-Type", resp.ContentType)
	}

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}

	if endpoint != "" {
		metrics.RecordSimulatedOutcome(endpoint, status)
	}

	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(body)
}

// routingPath is the path chi matched against: the raw path when the
// request escaped characters, the decoded path otherwise.
func routingPath(r *http.Request) string {
	if r.URL.RawPath != "" {
		return r.URL.RawPath
	}
	return r.URL.Path
}

func encodeBody(resp mock.Response) ([]byte, error) {
	switch body := resp.Body.(type) {
	case nil:
		return nil, nil
	case string:
		if resp.ContentType != mock.ContentTypeJSON {
			return []byte(body), nil
		}
	case []byte:
		return body, nil
	}
	return json.MarshalIndent(resp.Body, "", "  ")
}
