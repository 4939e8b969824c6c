// Package poll exposes the cron trigger endpoint that starts a polling run
// over HTTP. The endpoint authenticates with a shared secret instead of a
// JWT so an external scheduler can call it without a login flow.
package poll

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"newswire/internal/handler/http/requestid"
	"newswire/internal/handler/http/respond"
	pollUC "newswire/internal/usecase/poll"
)

// DefaultRunTimeout bounds one triggered polling run. A run that cannot
// finish inside this window is aborted rather than left to pile up behind
// the next trigger.
const DefaultRunTimeout = 5 * time.Minute

// Poller runs one polling pass over all active feeds.
type Poller interface {
	PollAll(ctx context.Context) (*pollUC.Result, error)
}

// TriggerHandler serves the cron trigger endpoint. Two invocation styles are
// accepted: POST with the secret in the X-Cron-Secret header, and GET with
// the secret as a bearer token, for schedulers that can only issue plain
// authorized GETs.
type TriggerHandler struct {
	Svc        Poller
	Secret     string
	RunTimeout time.Duration
	Logger     *slog.Logger
}

type triggerResponse struct {
	Message    string   `json:"message"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Total      int      `json:"total"`
	Errors     []string `json:"errors,omitempty"`
	Timestamp  string   `json:"timestamp"`
}

func (h TriggerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Secret == "" {
		respond.SafeError(w, http.StatusServiceUnavailable,
			errors.New("cron trigger is not configured"))
		return
	}
	if !h.authorized(r) {
		respond.SafeError(w, http.StatusUnauthorized, errors.New("invalid cron secret"))
		return
	}

	timeout := h.RunTimeout
	if timeout <= 0 {
		timeout = DefaultRunTimeout
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	start := time.Now()
	result, err := h.Svc.PollAll(ctx)
	if err != nil {
		h.Logger.Error("Triggered polling run failed",
			"error", err.Error(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", requestid.FromContext(r.Context()))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	h.Logger.Info("Triggered polling run completed",
		"total", result.Total,
		"successful", result.Successful,
		"failed", result.Failed,
		"inserted", result.Inserted,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestid.FromContext(r.Context()))

	respond.JSON(w, http.StatusOK, triggerResponse{
		Message:    "poll completed",
		Successful: result.Successful,
		Failed:     result.Failed,
		Total:      result.Total,
		Errors:     result.Errors,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}

// authorized checks the shared secret. POST carries it in X-Cron-Secret,
// GET as a bearer token. Comparison is constant time.
func (h TriggerHandler) authorized(r *http.Request) bool {
	var presented string
	switch r.Method {
	case http.MethodPost:
		presented = r.Header.Get("X-Cron-Secret")
	case http.MethodGet:
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			return false
		}
		presented = strings.TrimPrefix(authz, "Bearer ")
	default:
		return false
	}
	if presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(h.Secret)) == 1
}

// LoadRunTimeout reads POLL_TIMEOUT from the environment. An unset or
// invalid value falls back to DefaultRunTimeout.
func LoadRunTimeout() time.Duration {
	raw := os.Getenv("POLL_TIMEOUT")
	if raw == "" {
		return DefaultRunTimeout
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		slog.Warn("Invalid POLL_TIMEOUT, using default",
			"value", raw,
			"default", DefaultRunTimeout.String())
		return DefaultRunTimeout
	}
	return d
}

// Register wires the cron trigger routes into the mux. The routes are not
// behind the JWT middleware; the shared secret above is the whole gate.
func Register(mux *http.ServeMux, svc Poller, secret string, timeout time.Duration, logger *slog.Logger) {
	h := TriggerHandler{Svc: svc, Secret: secret, RunTimeout: timeout, Logger: logger}
	mux.Handle("POST /internal/cron/poll", h)
	mux.Handle("GET  /internal/cron/poll", h)
}
