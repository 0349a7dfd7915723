package authclient

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"
)

// HealthDetails carries diagnostic detail for the error-state screen.
type HealthDetails struct {
	URL       string
	Reachable bool
	LastError string
}

// HealthChecker probes backend reachability before any auth decision is
// trusted.  "Not authenticated" and "backend unreachable" need different
// UI: a login prompt versus a retry screen.  The probe is a single GET
// with a short timeout and never retries internally; the session layer
// decides whether to retry.
type HealthChecker struct {
	BaseURL string
	HTTP    *http.Client

	mu   sync.Mutex
	last HealthDetails
}

// NewHealthChecker probes baseURL's /health endpoint with a 3s timeout.
func NewHealthChecker(baseURL string) *HealthChecker {
	return &HealthChecker{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 3 * time.Second},
	}
}

// ValidateConnectivity performs one probe and reports reachability.  The
// backend counts as reachable only when /health answers 200; a 503 means
// it is up but its own dependencies are down, which blocks auth just the
// same.
func (h *HealthChecker) ValidateConnectivity(ctx context.Context) bool {
	url := h.BaseURL + "/health"
	details := HealthDetails{URL: url}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		details.LastError = err.Error()
		return h.record(details)
	}
	resp, err := h.HTTP.Do(req)
	if err != nil {
		details.LastError = err.Error()
		return h.record(details)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		details.LastError = resp.Status
		return h.record(details)
	}
	details.Reachable = true
	return h.record(details)
}

// Details returns the outcome of the most recent probe.
func (h *HealthChecker) Details() HealthDetails {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

func (h *HealthChecker) record(d HealthDetails) bool {
	h.mu.Lock()
	h.last = d
	h.mu.Unlock()
	return d.Reachable
}
